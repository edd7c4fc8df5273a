// Package datasource defines where raw source bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh reader over the input. Each call starts from the
// beginning; the returned reader is not shared.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
