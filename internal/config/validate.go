package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"profileload/internal/logging"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var knownStorageKinds = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"mysql":    {},
	"mssql":    {},
}

// Validate performs static checks over cfg without mutating it.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	if strings.TrimSpace(cfg.SourcePath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sourcePath",
			Message:  "sourcePath must not be empty",
		})
	}
	if strings.TrimSpace(cfg.DatabaseName) == "" && strings.TrimSpace(cfg.Storage.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "databaseName",
			Message:  "databaseName is required when storage.dsn is empty",
		})
	}

	switch cfg.OnError {
	case "", PolicyHalt, PolicyContinue:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "onError",
			Message:  fmt.Sprintf("unknown error policy %q; use halt or continue", cfg.OnError),
		})
	}

	issues = append(issues, validateSource(cfg.Source)...)
	issues = append(issues, validateStorage(cfg.Storage)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	issues = append(issues, validateLog(cfg.Log)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if s.Comma != "" {
		r, size := utf8.DecodeRuneInString(s.Comma)
		switch {
		case size != len(s.Comma):
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.comma",
				Message:  fmt.Sprintf("delimiter must be a single character, got %q", s.Comma),
			})
		case r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.comma",
				Message:  fmt.Sprintf("delimiter %q is not allowed", s.Comma),
			})
		}
	}

	if enc := strings.TrimSpace(s.Encoding); enc != "" {
		if _, err := htmlindex.Get(enc); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.encoding",
				Message:  fmt.Sprintf("unknown encoding label %q", s.Encoding),
			})
		}
	}

	if s.LazyQuotes {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.lazyQuotes",
			Message:  "lazyQuotes accepts stray quotes silently; malformed rows may load with unexpected values",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	if _, ok := knownStorageKinds[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unsupported storage kind %q; use postgres, sqlite, mysql, or mssql", s.Kind),
		})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.table",
			Message:  "storage.table is empty; the default table \"profile\" is used",
		})
	}
	if t := strings.TrimSpace(s.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		switch {
		case err != nil:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.timeout",
				Message:  fmt.Sprintf("invalid duration %q", s.Timeout),
			})
		case d < 0:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.timeout",
				Message:  "timeout must not be negative",
			})
		}
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgatewayURL",
				Message:  "pushgateway backend requires a URL",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadogAddr",
				Message:  "datadog backend requires an agent address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend),
		})
	}
	return issues
}

func validateLog(l Log) []Issue {
	var issues []Issue

	if _, err := logging.ParseLevel(l.Level); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "log.level",
			Message:  fmt.Sprintf("unknown log level %q", l.Level),
		})
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "log.format",
			Message:  fmt.Sprintf("unknown log format %q; use json or console", l.Format),
		})
	}
	return issues
}
