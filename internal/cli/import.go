package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/internal/infrastructure/queue"
	"github.com/roletapro/roleta-client/internal/pkg/validate"
)

const maxImportLine = 1 << 20

type importFailureView struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importSummary struct {
	Total    int                 `json:"total"`
	Created  int                 `json:"created"`
	Failed   int                 `json:"failed"`
	Failures []importFailureView `json:"failures,omitempty"`
}

func (a *App) runImport(ctx context.Context, path string, workers int) error {
	var r io.Reader = a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	jobs, invalid, err := readBetRecords(r, validate.New())
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	bar := pb.New(len(jobs)).SetWriter(io.Discard)
	if a.progress {
		bar.SetWriter(a.stderr)
	}
	bar.Start()
	report := importBets(ctx, a.client, jobs, workers, bar, a.log)
	bar.Finish()

	report.Total += len(invalid)
	report.Failures = append(report.Failures, invalid...)
	slices.SortFunc(report.Failures, func(x, y domain.ImportFailure) int { return x.Line - y.Line })

	summary := importSummary{Total: report.Total, Created: report.Created, Failed: len(report.Failures)}
	for _, f := range report.Failures {
		summary.Failures = append(summary.Failures, importFailureView{Line: f.Line, Error: f.Err.Error()})
	}
	if err := a.showAny(summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d bets not imported", summary.Failed, summary.Total)
	}
	return nil
}

// readBetRecords parses one BetRecord per line. Blank lines are skipped and
// lines are numbered from 1. Lines that do not decode or validate are
// returned as failures; only a read error aborts.
func readBetRecords(r io.Reader, v *validate.Validator) ([]queue.Job, []domain.ImportFailure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxImportLine)

	var (
		jobs     []queue.Job
		failures []domain.ImportFailure
		line     int
	)
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec domain.BetRecord
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			failures = append(failures, domain.ImportFailure{Line: line, Err: fmt.Errorf("%w: %v", domain.ErrInvalidBetRecord, err)})
			continue
		}
		if err := v.Struct(&rec); err != nil {
			failures = append(failures, domain.ImportFailure{Line: line, Err: fmt.Errorf("%w: %v", domain.ErrInvalidBetRecord, err)})
			continue
		}
		jobs = append(jobs, queue.Job{Line: line, Key: rec.Session, Record: rec})
	}
	return jobs, failures, sc.Err()
}

// importBets sends jobs through a sharded dispatcher. Jobs that never ran
// because ctx ended are reported as failures with the context error.
func importBets(ctx context.Context, creator ports.BetCreator, jobs []queue.Job, workers int, bar *pb.ProgressBar, log zerolog.Logger) domain.ImportReport {
	report := domain.ImportReport{Total: len(jobs)}
	if len(jobs) == 0 {
		return report
	}

	d := queue.NewDispatcher(workers, creator, log)
	d.Start(ctx)

	done := make(chan struct{})
	seen := make(map[int]bool, len(jobs))
	go func() {
		defer close(done)
		for res := range d.Results() {
			seen[res.Job.Line] = true
			if res.Err != nil {
				report.Failures = append(report.Failures, domain.ImportFailure{Line: res.Job.Line, Err: res.Err})
			} else {
				report.Created++
			}
			bar.Increment()
		}
	}()

	for _, job := range jobs {
		if err := d.Enqueue(ctx, job); err != nil {
			break
		}
	}
	d.Close()
	<-done

	for _, job := range jobs {
		if !seen[job.Line] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			report.Failures = append(report.Failures, domain.ImportFailure{Line: job.Line, Err: err})
		}
	}

	log.Info().
		Int("total", report.Total).
		Int("created", report.Created).
		Int("failed", len(report.Failures)).
		Int("workers", d.Workers()).
		Msg("bet import finished")
	return report
}
