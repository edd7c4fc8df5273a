// Package pipeline runs one load: it opens the source file and the store,
// feeds every record through the loader in source order, and applies the
// configured error policy.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profileload/internal/config"
	"profileload/internal/datasource/file"
	"profileload/internal/loader"
	"profileload/internal/metrics"
	csvparser "profileload/internal/parser/csv"
	"profileload/internal/profile"
	"profileload/internal/skiplog"
	"profileload/internal/storage"
)

// Reject reasons written to the rejects file.
const (
	ReasonMissingAttribute = "missing_attribute"
	ReasonMalformedRow     = "malformed_row"
	ReasonEncoding         = "encoding"
	ReasonStore            = "store"
	ReasonOther            = "other"
)

// Reason classifies a row failure.
func Reason(err error) string {
	switch {
	case errors.Is(err, profile.ErrMissingAttribute):
		return ReasonMissingAttribute
	case errors.Is(err, csvparser.ErrMalformedRow):
		return ReasonMalformedRow
	case errors.Is(err, csvparser.ErrEncoding):
		return ReasonEncoding
	case errors.Is(err, storage.ErrStore):
		return ReasonStore
	default:
		return ReasonOther
	}
}

// RowResult is the outcome of one failed source row.
type RowResult struct {
	Line int
	Err  error
}

func (r RowResult) Error() string { return fmt.Sprintf("line %d: %v", r.Line, r.Err) }

func (r RowResult) Unwrap() error { return r.Err }

// FailedRowsError reports the rows that failed under config.PolicyContinue.
// Error is a single line; errors.Is and errors.As see every row.
type FailedRowsError struct {
	Read     int
	Failures []RowResult
}

func (e *FailedRowsError) Error() string {
	return fmt.Sprintf("%d of %d rows failed; first: %s", len(e.Failures), e.Read, e.Failures[0])
}

func (e *FailedRowsError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID    string
	Read     int
	Inserted int
	Failed   int
	Failures []RowResult
	Elapsed  time.Duration
}

// Run executes one load described by cfg.
//
// The source is opened before the store, so a missing file is reported
// without any connection attempt. Under config.PolicyHalt the first failing
// row ends the run; under config.PolicyContinue failing rows are collected and
// returned as a *FailedRowsError. Rows inserted before a failure stay committed.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) (sum Summary, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	sum.RunID = uuid.NewString()
	log = log.With(zap.String("run_id", sum.RunID), zap.String("job", cfg.Job))

	var rejects *skiplog.Log
	defer func() {
		sum.Elapsed = time.Since(start)
		metrics.RecordStep(cfg.Job, "run", err, sum.Elapsed)
		fields := []zap.Field{
			zap.Int("read", sum.Read),
			zap.Int("inserted", sum.Inserted),
			zap.Int("failed", sum.Failed),
			zap.Duration("elapsed", sum.Elapsed.Truncate(time.Millisecond)),
		}
		if rejects != nil {
			fields = append(fields, zap.Any("rejects_by_reason", rejects.Counts()))
		}
		if err != nil {
			log.Error("run failed", append(fields, zap.Error(err))...)
			return
		}
		log.Info("run completed", fields...)
	}()

	storeCfg, err := cfg.StorageConfig()
	if err != nil {
		return sum, err
	}
	policy := cfg.Policy()

	log.Info("run starting",
		zap.String("source", cfg.SourcePath),
		zap.String("storage", storeCfg.Kind),
		zap.String("database", storeCfg.Database),
		zap.String("on_error", string(policy)),
	)

	rdr, err := csvparser.Open(ctx, file.NewLocal(cfg.SourcePath), cfg.CSVOptions())
	if err != nil {
		return sum, fmt.Errorf("open source: %w", err)
	}
	defer rdr.Close()

	repo, err := storage.New(ctx, storeCfg)
	if err != nil {
		return sum, fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()

	if cfg.Storage.AutoCreateTable {
		if err := storage.EnsureTable(ctx, storeCfg, repo); err != nil {
			return sum, fmt.Errorf("ensure table: %w", err)
		}
	}

	if cfg.RejectsPath != "" {
		rejects, err = skiplog.Create(cfg.RejectsPath)
		if err != nil {
			return sum, err
		}
		defer func() {
			if cerr := rejects.Close(); cerr != nil {
				log.Warn("rejects file not flushed", zap.String("path", cfg.RejectsPath), zap.Error(cerr))
			}
		}()
	}

	ld := loader.New(repo, loader.WithLogger(log))

	for rec, rerr := range rdr.All() {
		line := rec.Line
		if rerr != nil {
			var re *csvparser.RowError
			if !errors.As(rerr, &re) {
				// The input itself failed; nothing after this point is readable.
				return sum, rerr
			}
			line, rerr = re.Line, re.Err
		}
		sum.Read++
		metrics.RecordRow(cfg.Job, metrics.KindRead, 1)

		if rerr == nil {
			rerr = ld.Load(ctx, rec)
		}

		if rerr == nil {
			sum.Inserted++
			metrics.RecordRow(cfg.Job, metrics.KindInserted, 1)
			continue
		}

		if cerr := ctx.Err(); cerr != nil {
			return sum, fmt.Errorf("run interrupted at line %d: %w", line, cerr)
		}

		res := RowResult{Line: line, Err: rerr}
		sum.Failed++
		sum.Failures = append(sum.Failures, res)
		metrics.RecordRow(cfg.Job, metrics.KindFailed, 1)
		reason := Reason(rerr)
		log.Warn("row failed", zap.Int("line", line), zap.String("reason", reason), zap.Error(rerr))
		if rejects != nil {
			if werr := rejects.Add(reason, line, rerr); werr != nil {
				return sum, werr
			}
		}

		if policy == config.PolicyHalt {
			return sum, res
		}
	}

	if len(sum.Failures) > 0 {
		return sum, &FailedRowsError{Read: sum.Read, Failures: sum.Failures}
	}
	return sum, nil
}
