package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
	logFile *os.File
)

// rootCmd is the base command for sitegen.
var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Build the reference documentation site",
	Long: `sitegen reads XML reference entries and Markdown tutorials, resolves the
cross-references between them and renders a static HTML site. It can also run
the examples embedded in reference entries to capture their images.

Everything is driven by a YAML configuration file (sitegen.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "sitegen.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and render but don't write files")
}

// Execute runs the root command.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	defer closeLogFile()
	return rootCmd.ExecuteContext(ctx)
}

// closeLogFile closes the file opened for logging.file, if any, and sends
// the logger back to stderr.
func closeLogFile() {
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}

// loadConfig loads and validates the config file and applies the global
// flags and logging settings to it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if dryRun {
		cfg.DryRun = true
	}

	if !verbose && cfg.Logging.Level != "" {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(level)
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closeLogFile()
		logFile = f
		log.SetOutput(f)
	}
	return cfg, nil
}
