// Package loader turns one source record into one Profile insert.
package loader

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"profileload/internal/profile"
	"profileload/internal/record"
	"profileload/internal/storage"
)

// Loader canonicalises records and writes them through a Repository. It holds
// no state between calls.
type Loader struct {
	repo storage.Repository
	log  *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-row debug output.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Loader writing to repo.
func New(repo storage.Repository, opts ...Option) *Loader {
	l := &Loader{repo: repo, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load inserts rec as a single Profile. A record lacking any required
// attribute fails with profile.ErrMissingAttribute before the store is
// touched; store failures satisfy errors.Is(err, storage.ErrStore). There is
// no retry.
func (l *Loader) Load(ctx context.Context, rec record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := profile.FromCanonical(record.Canonicalize(rec))
	if err != nil {
		return err
	}

	if err := l.repo.InsertProfile(ctx, p); err != nil {
		if !errors.Is(err, storage.ErrStore) && ctx.Err() == nil {
			err = storage.StoreError("repository", "insert", err)
		}
		return err
	}
	l.log.Debug("profile inserted", zap.Int("line", rec.Line), zap.String("name", p.Name))
	return nil
}
