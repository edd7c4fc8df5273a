// Package config defines the run configuration for profileload: where the
// source file lives, which store receives the profiles, and how failures,
// metrics, and logs are handled.
//
// Configuration comes from three layers, later layers winning:
//
//  1. Default(), matching the historical hard-coded values.
//  2. A YAML file (Load), usually profileload.yaml.
//  3. Environment variables (ApplyEnv), optionally seeded from a .env file.
//
// Example:
//
//	job: profileload
//	sourcePath: scraped_data.csv
//	databaseName: profiles
//	storage:
//	  kind: postgres
//	  table: profile
//	onError: halt
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	csvparser "profileload/internal/parser/csv"
	"profileload/internal/storage"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound)
// and fall back to the defaults returned alongside it.
var ErrConfigNotFound = errors.New("config file not found")

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "profileload.yaml"

// ErrorPolicy decides what the orchestrator does with a failing row.
type ErrorPolicy string

const (
	// PolicyHalt stops the run at the first failing row.
	PolicyHalt ErrorPolicy = "halt"
	// PolicyContinue records the failure and moves on to the next row.
	PolicyContinue ErrorPolicy = "continue"
)

// Config is the top-level object decoded from profileload.yaml.
type Config struct {
	// Job labels logs and metrics for this run.
	Job string `yaml:"job"`
	// SourcePath is the delimited text file to load.
	SourcePath string `yaml:"sourcePath"`
	// DatabaseName identifies the target database on the store when
	// storage.dsn names none.
	DatabaseName string `yaml:"databaseName"`
	// RejectsPath, when set, receives one CSV row per failed source row.
	RejectsPath string `yaml:"rejectsPath"`

	Source  Source      `yaml:"source"`
	Storage Storage     `yaml:"storage"`
	OnError ErrorPolicy `yaml:"onError"`
	Metrics Metrics     `yaml:"metrics"`
	Log     Log         `yaml:"log"`
}

// Source holds parsing options for the input file.
type Source struct {
	// Comma is the single-character field delimiter.
	Comma string `yaml:"comma"`
	// Encoding is a WHATWG encoding label; utf-8 is validated strictly.
	Encoding   string `yaml:"encoding"`
	LazyQuotes bool   `yaml:"lazyQuotes"`
}

// Storage selects and configures the destination store.
type Storage struct {
	// Kind is one of postgres, sqlite, mysql, mssql.
	Kind string `yaml:"kind"`
	// DSN is optional. A database it names takes precedence over
	// DatabaseName.
	DSN             string `yaml:"dsn"`
	Table           string `yaml:"table"`
	AutoCreateTable bool   `yaml:"autoCreateTable"`
	// Timeout is a Go duration bounding each store call. Empty means none.
	Timeout string `yaml:"timeout"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is one of none, pushgateway, datadog.
	Backend        string `yaml:"backend"`
	PushgatewayURL string `yaml:"pushgatewayURL"`
	DatadogAddr    string `yaml:"datadogAddr"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Job:          "profileload",
		SourcePath:   "scraped_data.csv",
		DatabaseName: "profiles",
		Source: Source{
			Comma:    ",",
			Encoding: "utf-8",
		},
		Storage: Storage{
			Kind:  "postgres",
			Table: storage.DefaultTable,
		},
		OnError: PolicyHalt,
		Metrics: Metrics{
			Backend:        "none",
			PushgatewayURL: "http://localhost:9091",
			DatadogAddr:    "127.0.0.1:8125",
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over Default(). Unknown keys are
// rejected. A missing file yields Default() and ErrConfigNotFound.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment variables read through getenv.
// Unset or empty variables leave the current value alone.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.SourcePath, "PROFILELOAD_SOURCE_PATH")
	set(&cfg.DatabaseName, "PROFILELOAD_DATABASE_NAME")
	set(&cfg.Storage.Kind, "PROFILELOAD_STORAGE_KIND")
	set(&cfg.Storage.DSN, "PROFILELOAD_DSN")
	set(&cfg.Storage.Table, "PROFILELOAD_TABLE")
	set(&cfg.RejectsPath, "PROFILELOAD_REJECTS_PATH")
	set(&cfg.Metrics.Backend, "METRICS_BACKEND")
	set(&cfg.Metrics.PushgatewayURL, "PUSHGATEWAY_URL")
	set(&cfg.Metrics.DatadogAddr, "DD_AGENT_ADDR")
	set(&cfg.Log.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(getenv("PROFILELOAD_ON_ERROR")); v != "" {
		cfg.OnError = ErrorPolicy(strings.ToLower(v))
	}
}

// Policy returns the effective error policy; empty means halt.
func (c Config) Policy() ErrorPolicy {
	if c.OnError == "" {
		return PolicyHalt
	}
	return c.OnError
}

// StorageConfig converts the storage section into the backend-agnostic
// storage.Config.
func (c Config) StorageConfig() (storage.Config, error) {
	var timeout time.Duration
	if s := strings.TrimSpace(c.Storage.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return storage.Config{}, fmt.Errorf("storage.timeout: %w", err)
		}
		timeout = d
	}
	return storage.Config{
		Kind:     c.Storage.Kind,
		DSN:      c.Storage.DSN,
		Database: c.DatabaseName,
		Table:    c.Storage.Table,
		Timeout:  timeout,
	}, nil
}

// CSVOptions converts the source section into reader options.
func (c Config) CSVOptions() csvparser.Options {
	opts := csvparser.Options{
		Encoding:   c.Source.Encoding,
		LazyQuotes: c.Source.LazyQuotes,
	}
	if r, _ := utf8.DecodeRuneInString(c.Source.Comma); r != utf8.RuneError {
		opts.Comma = r
	}
	return opts
}
