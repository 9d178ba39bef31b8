// Package cli implements the roleta command line: one command per backend
// operation, rendered as json, yaml or a table.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/pkg/apiclient"
	"github.com/roletapro/roleta-client/pkg/payload"
)

// UsageError is a malformed command line. It exits with status 2.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps the error returned by Run to a process exit status.
func ExitCode(err error) int {
	var ue *UsageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &ue):
		return 2
	default:
		return 1
	}
}

// Options configures an App.
type Options struct {
	Output   string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Log      zerolog.Logger
	Progress bool // draw a progress bar during bets import
}

// App dispatches one command line to the backend client.
type App struct {
	client   *apiclient.Client
	session  ports.SessionService
	out      *Renderer
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	log      zerolog.Logger
	progress bool
}

// New returns an App. Nil readers and writers default to the process streams.
func New(client *apiclient.Client, session ports.SessionService, opts Options) (*App, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	out, err := NewRenderer(opts.Stdout, opts.Output)
	if err != nil {
		return nil, err
	}
	return &App{
		client:   client,
		session:  session,
		out:      out,
		stdin:    opts.Stdin,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		log:      opts.Log,
		progress: opts.Progress,
	}, nil
}

// Run executes args (without the program name and global flags).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return usagef("missing command")
	}

	switch args[0] {
	case "auth":
		return a.runAuth(ctx, args[1:])
	case "strategies":
		return a.runStrategies(ctx, args[1:])
	case "bankroll":
		return a.runBankroll(ctx, args[1:])
	case "bets":
		return a.runBets(ctx, args[1:])
	case "ai":
		return a.runAI(ctx, args[1:])
	case "notifications":
		return a.runNotifications(ctx, args[1:])
	case "profile":
		return a.runProfile(ctx, args[1:])
	case "subscriptions":
		return a.runSubscriptions(ctx, args[1:])
	case "health":
		return a.show(a.client.HealthCheck(ctx))
	case "call":
		return a.runCall(ctx, args[1:])
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return usagef("unknown command %q", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprint(a.stderr, `Roleta Pro I.A. command line

Usage:
  roleta [-o json|yaml|table] [-profile name] [-env file] <group> <command> [flags] [args]

Groups:
  auth           register | login | logout | whoami | session
  strategies     list | get ID | create | update ID BODY | delete ID | toggle ID
  bankroll       config | save-config BODY | history | stats
  bets           execute ID | create | history | roulette | spin | import
  ai             train | suggestion | predict | stats | chat MESSAGE | advice STRATEGY
                 tips | faq TYPE | chat-history | recommendations | insights
                 predict-outcome | risk | risk-config | simulate | optimize
  notifications  list | read ID | create
  profile        update BODY | password
  subscriptions  plans | active | checkout PLAN_ID | cancel ID | reactivate ID | payments
  health         backend liveness
  call           [-no-auth] [-H key:value] METHOD PATH [BODY]

BODY is inline JSON, @file to read a file, or - to read stdin.
Run "roleta <group> <command> -h" for the flags of a command.
`)
}

// show renders a successful response.
func (a *App) show(v payload.Value, err error) error {
	if err != nil {
		return err
	}
	return a.out.Render(v)
}

// showAny renders a Go value through its JSON form.
func (a *App) showAny(v any) error {
	pv, err := payload.From(v)
	if err != nil {
		return err
	}
	return a.out.Render(pv)
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// parse parses args and checks the positional argument count.
func parse(fs *flag.FlagSet, args []string, positional ...string) error {
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != len(positional) {
		if len(positional) == 0 {
			return usagef("%s takes no arguments", fs.Name())
		}
		return usagef("usage: roleta %s %s", fs.Name(), strings.ToUpper(strings.Join(positional, " ")))
	}
	return nil
}

func intArg(fs *flag.FlagSet, i int, name string) (int, error) {
	n, err := strconv.Atoi(fs.Arg(i))
	if err != nil || n <= 0 {
		return 0, usagef("%s: %s must be a positive integer, got %q", fs.Name(), name, fs.Arg(i))
	}
	return n, nil
}

func required(fs *flag.FlagSet, values map[string]string) error {
	var missing []string
	fs.VisitAll(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+f.Name)
		}
	})
	if len(missing) > 0 {
		return usagef("%s: %s required", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

// readBody turns a BODY argument into a JSON value: "-" reads stdin, "@path"
// reads a file, anything else is parsed as inline JSON.
func (a *App) readBody(arg string) (payload.Value, error) {
	var raw []byte
	switch {
	case arg == "-":
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return payload.Value{}, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(arg, "@"):
		b, err := os.ReadFile(arg[1:])
		if err != nil {
			return payload.Value{}, err
		}
		raw = b
	default:
		raw = []byte(arg)
	}
	v, err := payload.Parse(raw)
	if err != nil {
		return payload.Value{}, usagef("body is not valid JSON: %v", err)
	}
	return v, nil
}

func subcommand(group string, args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, usagef("%s: missing command", group)
	}
	return args[0], args[1:], nil
}

func unknown(group, cmd string) error {
	return usagef("%s: unknown command %q", group, cmd)
}
