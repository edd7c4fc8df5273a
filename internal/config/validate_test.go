package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"empty job", func(c *Config) { c.Job = " " }, SeverityError, "job", "must not be empty"},
		{"empty source path", func(c *Config) { c.SourcePath = "" }, SeverityError, "sourcePath", "must not be empty"},
		{"no database and no dsn", func(c *Config) { c.DatabaseName = "" }, SeverityError, "databaseName", "required"},
		{"bad policy", func(c *Config) { c.OnError = "retry" }, SeverityError, "onError", "unknown error policy"},
		{"multi-char comma", func(c *Config) { c.Source.Comma = ";;" }, SeverityError, "source.comma", "single character"},
		{"quote comma", func(c *Config) { c.Source.Comma = `"` }, SeverityError, "source.comma", "not allowed"},
		{"unknown encoding", func(c *Config) { c.Source.Encoding = "klingon" }, SeverityError, "source.encoding", "unknown encoding"},
		{"lazy quotes", func(c *Config) { c.Source.LazyQuotes = true }, SeverityWarning, "source.lazyQuotes", "stray quotes"},
		{"empty kind", func(c *Config) { c.Storage.Kind = "" }, SeverityError, "storage.kind", "must not be empty"},
		{"unknown kind", func(c *Config) { c.Storage.Kind = "edgedb" }, SeverityError, "storage.kind", "unsupported"},
		{"empty table", func(c *Config) { c.Storage.Table = "" }, SeverityWarning, "storage.table", "default table"},
		{"bad timeout", func(c *Config) { c.Storage.Timeout = "later" }, SeverityError, "storage.timeout", "invalid duration"},
		{"negative timeout", func(c *Config) { c.Storage.Timeout = "-1s" }, SeverityError, "storage.timeout", "negative"},
		{"pushgateway without url", func(c *Config) {
			c.Metrics.Backend = "pushgateway"
			c.Metrics.PushgatewayURL = ""
		}, SeverityError, "metrics.pushgatewayURL", "requires a URL"},
		{"datadog without addr", func(c *Config) {
			c.Metrics.Backend = "datadog"
			c.Metrics.DatadogAddr = ""
		}, SeverityError, "metrics.datadogAddr", "agent address"},
		{"unknown metrics backend", func(c *Config) { c.Metrics.Backend = "statsd" }, SeverityWarning, "metrics.backend", "disabled"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, SeverityError, "log.level", "unknown log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, SeverityError, "log.format", "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			issues := Validate(cfg)
			assert.True(t, hasIssue(issues, tt.sev, tt.path, tt.msg), "issues: %+v", issues)
			assert.Equal(t, tt.sev == SeverityError, HasErrors(issues))
		})
	}
}

func TestValidateDSNWithoutDatabaseName(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.DatabaseName = ""
	cfg.Storage.DSN = "postgres://u@db/profiles"
	assert.Empty(t, Validate(cfg))
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "bad"}
	assert.Equal(t, "error at storage.kind: bad", iss.Error())
}
