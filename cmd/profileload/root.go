package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profileload/internal/config"
	"profileload/internal/logging"
	"profileload/internal/pipeline"

	// register all backends with the storage factory.
	_ "profileload/internal/storage/all"
)

// Exit codes.
const (
	ExitSuccess       = 0
	ExitRunFailed     = 1
	ExitUsageError    = 2
	ExitConfigError   = 10
	defaultEnvFile    = ".env"
	defaultConfigFile = config.DefaultFileName
)

var (
	// ErrUsage marks invalid arguments or flags.
	ErrUsage = errors.New("usage error")
	// ErrInvalidConfig marks a config file, env file, or setting that
	// prevents the run from starting.
	ErrInvalidConfig = errors.New("invalid configuration")
)

func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	default:
		return ExitRunFailed
	}
}

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "profileload",
		Short: "Load business profiles from a CSV file into a database",
		Long: `profileload reads a delimited text file whose header names the profile
fields (Name, Street Address, District, Postal Code, Address Locality, Region,
Phone, Mobile, Website, Email) and inserts every row as one Profile.

Everything about the run comes from profileload.yaml and the environment;
flags only locate that configuration.

Exit Codes:
  0  - Success
  1  - Run failed (missing file, bad row, store error)
  2  - CLI usage error
  10 - Invalid configuration`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected arguments %q", ErrUsage, args)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	cmd.Flags().StringVar(&opts.configPath, "config", defaultConfigFile, "path to the YAML configuration file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file loaded into the environment before overrides")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// loadConfig resolves file, dotenv, and environment layers. Defaults apply
// when the default config file is absent; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command, opts rootOptions) (config.Config, error) {
	if err := godotenv.Load(opts.envFile); err != nil {
		if cmd.Flags().Changed("env-file") || !errors.Is(err, os.ErrNotExist) {
			return config.Config{}, fmt.Errorf("%w: env file %s: %w", ErrInvalidConfig, opts.envFile, err)
		}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) || cmd.Flags().Changed("config") {
			return config.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	config.ApplyEnv(&cfg, os.Getenv)
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return config.Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, opts.configPath)
	}
	return cfg, nil
}

func runLoad(cmd *cobra.Command, opts rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	defer func() { _ = log.Sync() }()

	flush := setupMetrics(cfg, log)
	defer flush()

	sum, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	log.Debug("summary", zap.String("run_id", sum.RunID), zap.Int("inserted", sum.Inserted))
	return nil
}
