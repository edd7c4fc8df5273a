// Package csv turns a delimited text file into a lazy sequence of records.
//
// The first line names the fields. Every following line becomes one
// record.Record whose keys are the header names verbatim and whose values are
// the raw cell strings; nothing is trimmed or coerced.
//
// Input is expected to be UTF-8. Options.Encoding may name any WHATWG
// encoding label (e.g. "windows-1250"), in which case bytes are transcoded to
// UTF-8 before parsing.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"profileload/internal/datasource"
	"profileload/internal/record"
)

// Options tune the reader. The zero value reads strict UTF-8, comma
// separated input.
type Options struct {
	Comma      rune
	Encoding   string
	LazyQuotes bool
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

func isUTF8(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// Reader yields one record per data line. It owns the underlying file handle
// until Close, or until All finishes.
type Reader struct {
	src    io.Closer
	cr     *csv.Reader
	header []string
	strict bool
	err    error // sticky terminal error
	closed bool
}

// Open opens src and reads its header. On error nothing is left open.
func Open(ctx context.Context, src datasource.Source, opt Options) (*Reader, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	return NewReader(rc, opt)
}

// NewReader wraps rc and consumes the header line. rc is closed when
// NewReader fails, otherwise ownership passes to the Reader.
func NewReader(rc io.ReadCloser, opt Options) (*Reader, error) {
	var in io.Reader = rc
	strict := isUTF8(opt.Encoding)
	if !strict {
		enc, err := htmlindex.Get(opt.Encoding)
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("source encoding %q: %w", opt.Encoding, err)
		}
		in = transform.NewReader(rc, enc.NewDecoder())
	}

	cr := csv.NewReader(in)
	cr.Comma = opt.comma()
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = 0 // the header fixes the column count

	r := &Reader{src: rc, cr: cr, strict: strict}

	hdr, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		// Empty file: no header, no records.
		r.err = io.EOF
		return r, nil
	case err != nil:
		_ = rc.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	hdr = stripHeaderBOM(hdr)
	if r.strict {
		for i, h := range hdr {
			if !utf8.ValidString(h) {
				_ = rc.Close()
				return nil, &RowError{Line: 1, Err: fmt.Errorf("%w: header column %d", ErrEncoding, i+1)}
			}
		}
	}
	r.header = hdr
	return r, nil
}

// Header returns the field names in column order.
func (r *Reader) Header() []string { return r.header }

// Next returns the next record, io.EOF at end of input, a *RowError for a
// line that could not be turned into a record, or another error when the
// input itself failed (after which every call returns that error).
func (r *Reader) Next() (record.Record, error) {
	if r.closed {
		return record.Record{}, fs.ErrClosed
	}
	if r.err != nil {
		return record.Record{}, r.err
	}

	cells, err := r.cr.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return record.Record{}, &RowError{Line: pe.StartLine, Err: fmt.Errorf("%w: %w", ErrMalformedRow, err)}
		}
		if !errors.Is(err, io.EOF) {
			err = fmt.Errorf("read source: %w", err)
		}
		r.err = err
		return record.Record{}, err
	}

	line, _ := r.cr.FieldPos(0)
	if r.strict {
		for i, c := range cells {
			if !utf8.ValidString(c) {
				return record.Record{}, &RowError{
					Line: line,
					Err:  fmt.Errorf("%w: column %q", ErrEncoding, r.header[i]),
				}
			}
		}
	}
	return record.New(line, r.header, cells), nil
}

// All returns the remaining records as a single-use sequence. Row errors are
// yielded alongside a zero record and iteration continues if the consumer
// keeps ranging; any other error ends the sequence. The reader is closed when
// the sequence ends or the consumer breaks out.
func (r *Reader) All() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		defer r.Close()
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) {
				return
			}
			if err != nil && !IsRowError(err) {
				return
			}
		}
	}
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.src.Close()
}
