// Package storage contains the backend-agnostic contract for writing Profile
// entities, a factory registry that concrete backends plug into at init time,
// and the small amount of SQL shaping shared by every backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"profileload/internal/profile"
)

// ErrStore marks every failure reported by a backend: connection,
// authorisation, constraint, or type-cast errors.
var ErrStore = errors.New("store error")

// StoreError wraps err so that errors.Is(err, ErrStore) holds while the
// driver error stays reachable through errors.As.
func StoreError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %w", ErrStore, backend, op, err)
}

// Repository writes Profile entities to a single store connection.
type Repository interface {
	// InsertProfile executes exactly one parameterised insert.
	InsertProfile(ctx context.Context, p profile.Profile) error
	// Exec runs a statement without parameters, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Close releases the connection.
	Close()
}

// Config is the backend-agnostic connection description.
type Config struct {
	// Kind selects the backend ("postgres", "sqlite", "mysql", "mssql").
	Kind string
	// DSN is passed to the driver. Backends fill gaps from Database.
	DSN string
	// Database names the target database on the server (or the file stem for
	// sqlite). It is a fallback: a database named by DSN always wins.
	Database string
	// Table is the destination table, optionally schema-qualified.
	Table string
	// Timeout bounds each store call. Zero means no deadline.
	Timeout time.Duration
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// CallContext derives a per-call context bounded by d. The returned cancel
// must always be called.
func CallContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
