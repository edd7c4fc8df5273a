package csv

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow marks a data line the CSV reader rejected, most often
	// because its column count differs from the header.
	ErrMalformedRow = errors.New("malformed row")

	// ErrEncoding marks a header or field that is not valid UTF-8.
	ErrEncoding = errors.New("invalid utf-8")
)

// RowError ties a recoverable error to the line it occurred on. The reader
// can be advanced past a RowError.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// IsRowError reports whether err is confined to a single row.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}
