package storage

import (
	"strings"

	"profileload/internal/profile"
)

// DefaultTable is used when Config.Table is empty.
const DefaultTable = "profile"

// Dialect captures how one backend quotes identifiers and spells a typed
// named parameter.
type Dialect struct {
	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string
	// Param renders the placeholder for attribute, including its string cast.
	Param func(attribute string) string
	// TextType is the column type used for bootstrap DDL.
	TextType string
}

// QuoteFQN quotes a possibly schema-qualified name segment by segment.
func (d Dialect) QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// InsertProfileSQL renders the single-row Profile insert:
//
//	INSERT INTO <table> (name, ..., email) VALUES (<param name>, ..., <param email>)
func (d Dialect) InsertProfileSQL(table string) string {
	if table == "" {
		table = DefaultTable
	}
	cols := make([]string, len(profile.Attributes))
	params := make([]string, len(profile.Attributes))
	for i, a := range profile.Attributes {
		cols[i] = d.QuoteIdent(a)
		params[i] = d.Param(a)
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteFQN(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteString(")")
	return sb.String()
}

// ProfileColumnsDDL renders the column list for a Profile table: every
// attribute is a NOT NULL string column.
func (d Dialect) ProfileColumnsDDL() string {
	cols := make([]string, len(profile.Attributes))
	for i, a := range profile.Attributes {
		cols[i] = d.QuoteIdent(a) + " " + d.TextType + " NOT NULL"
	}
	return strings.Join(cols, ",\n  ")
}

// DoubleQuote quotes an identifier with ANSI double quotes.
func DoubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
