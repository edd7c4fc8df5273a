// Package record defines the row shape that flows from the source reader to
// the loader, plus the header canonicalisation rule shared by both.
package record

import "strings"

// Record is one data line of the source file. Keys holds the header names in
// column order exactly as they appear in the file; Values is keyed by those
// same names. Line is the 1-based line number where the row starts (the
// header is line 1).
type Record struct {
	Line   int
	Keys   []string
	Values map[string]string
}

// New builds a Record from a header and the matching row cells. The caller is
// responsible for len(header) == len(cells).
func New(line int, header, cells []string) Record {
	vals := make(map[string]string, len(header))
	for i, h := range header {
		vals[h] = cells[i]
	}
	return Record{Line: line, Keys: header, Values: vals}
}

// Get returns the value for key and whether it was present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// CanonicalName lowercases name and replaces every space with an underscore.
// "Street Address" -> "street_address". Applying it twice is a no-op.
func CanonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Canonicalize returns a copy of r whose keys have been passed through
// CanonicalName. Values are not touched. When two source keys collapse onto
// the same canonical name the later column wins.
func Canonicalize(r Record) Record {
	keys := make([]string, 0, len(r.Keys))
	vals := make(map[string]string, len(r.Keys))
	for _, k := range r.Keys {
		ck := CanonicalName(k)
		if _, dup := vals[ck]; !dup {
			keys = append(keys, ck)
		}
		vals[ck] = r.Values[k]
	}
	return Record{Line: r.Line, Keys: keys, Values: vals}
}
