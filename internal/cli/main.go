package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"

	"github.com/roletapro/roleta-client/internal/core/service"
	"github.com/roletapro/roleta-client/internal/infrastructure/config"
	"github.com/roletapro/roleta-client/internal/infrastructure/tokenstore"
	"github.com/roletapro/roleta-client/internal/pkg/validate"
	"github.com/roletapro/roleta-client/pkg/apiclient"
	"github.com/roletapro/roleta-client/pkg/logger"
)

// globals are the flags accepted before the command group.
type globals struct {
	Output  string
	Profile string
	EnvFile string
	Quiet   bool
}

func parseGlobals(args []string, stderr io.Writer) (globals, []string, error) {
	var g globals
	fs := flag.NewFlagSet("roleta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&g.Output, "o", "", "Output format: json, yaml or table (default $ROLETA_OUTPUT)")
	fs.StringVar(&g.Profile, "profile", "", "Token profile (default $ROLETA_PROFILE)")
	fs.StringVar(&g.EnvFile, "env", "", "Extra .env file to load")
	fs.BoolVar(&g.Quiet, "q", false, "Hide progress bars")
	if err := parseFlags(fs, args); err != nil {
		return g, nil, err
	}
	return g, fs.Args(), nil
}

// Main runs the roleta command line and returns the process exit status.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := run(ctx, args, stdin, stdout, stderr)
	if err != nil && ExitCode(err) != 0 {
		fmt.Fprintf(stderr, "roleta: %v\n", err)
	}
	return ExitCode(err)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	g, rest, err := parseGlobals(args, stderr)
	if err != nil {
		return err
	}

	var dotenv []string
	if g.EnvFile != "" {
		dotenv = append(dotenv, ".env", g.EnvFile)
	}
	cfg, err := config.Load(ctx, dotenv...)
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output = g.Output
	}
	if g.Profile != "" {
		cfg.Profile = g.Profile
	}
	if err := validate.New().Struct(cfg); err != nil {
		return usagef("%v", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Output:  stderr,
		Service: "roleta",
	})

	store, closeStore, err := tokenstore.Open(ctx, cfg, logger.Component("tokenstore"))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("closing token store")
		}
	}()

	client, err := apiclient.New(cfg.APIURL, store,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		apiclient.WithLogger(logger.Component("apiclient")),
	)
	if err != nil {
		return err
	}

	app, err := New(client, service.NewSessionService(client, cfg.Profile, logger.Component("session")), Options{
		Output:   cfg.Output,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Log:      logger.Component("cli"),
		Progress: !g.Quiet,
	})
	if err != nil {
		return err
	}
	return app.Run(ctx, rest)
}
