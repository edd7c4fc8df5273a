// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"profileload/internal/datasource"
)

// ErrFileNotFound is returned (wrapped) by Open when the configured path does
// not exist. The underlying fs.ErrNotExist is preserved for errors.Is.
var ErrFileNotFound = errors.New("source file not found")

var _ datasource.Source = (*Local)(nil)

// Local opens a single file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file as an io.ReadCloser. A canceled ctx short-circuits
// before the filesystem is touched.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, l.path, err)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
