// Package skiplog writes rejected source rows to a CSV file so they can be
// fixed and re-loaded.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Header is the first row of every rejects file.
var Header = []string{"reason", "line_number", "error"}

// Log appends one CSV row per rejected source row and counts rows per
// reason. It is not safe for concurrent use.
type Log struct {
	f       *os.File
	w       *csv.Writer
	reasons map[string]int
}

// Create truncates or creates path, creating parent directories as needed,
// and writes Header.
func Create(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("skiplog: create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("skiplog: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("skiplog: write header: %w", err)
	}
	return &Log{f: f, w: w, reasons: make(map[string]int)}, nil
}

// Add records one rejected row.
func (l *Log) Add(reason string, line int, cause error) error {
	l.reasons[reason]++
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := l.w.Write([]string{reason, strconv.Itoa(line), msg}); err != nil {
		return fmt.Errorf("skiplog: %w", err)
	}
	return nil
}

// Counts returns a copy of the per-reason totals.
func (l *Log) Counts() map[string]int {
	out := make(map[string]int, len(l.reasons))
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes buffered rows and closes the file.
func (l *Log) Close() error {
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	if werr != nil {
		return fmt.Errorf("skiplog: flush: %w", werr)
	}
	return cerr
}
