package config

import (
	"os"
	"strconv"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Environment variables that override configuration values.
const (
	EnvOutputDir       = "SITEGEN_OUTPUT_DIR"
	EnvExamplesCommand = "SITEGEN_EXAMPLES_COMMAND"
	EnvExamplesWorkers = "SITEGEN_EXAMPLES_WORKERS"
	EnvLogLevel        = "SITEGEN_LOG_LEVEL"
)

// ApplyEnv overrides cfg with any SITEGEN_* variables set in the environment.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv(EnvExamplesCommand); v != "" {
		command, err := SplitCommand(v)
		if err != nil {
			return domain.NewError("config", "", 0, EnvExamplesCommand+" is not a valid command line", err)
		}
		cfg.Examples.Command = command
	}
	if v := os.Getenv(EnvExamplesWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewError("config", "", 0, EnvExamplesWorkers+" must be an integer", err)
		}
		cfg.Examples.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}
