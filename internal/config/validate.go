package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Source validation
	if cfg.Source.ReferenceDir == "" {
		errs = append(errs, "source.reference_dir must not be empty")
	}
	if !strings.HasPrefix(cfg.Source.Extension, ".") {
		errs = append(errs, fmt.Sprintf("source.extension must start with a dot (got %q)", cfg.Source.Extension))
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}

	// Exclusion rules must select something and compile
	for i, rule := range cfg.Build.Exclude {
		if rule.Identifier == "" && rule.Category == "" {
			errs = append(errs, fmt.Sprintf("build.exclude[%d] needs an identifier pattern or a category", i))
		}
		if rule.Identifier != "" {
			if _, err := regexp.Compile(rule.Identifier); err != nil {
				errs = append(errs, fmt.Sprintf("build.exclude[%d].identifier is not a valid regex: %v", i, err))
			}
		}
	}

	// Examples validation
	if cfg.Examples.Enabled && len(cfg.Examples.Command) == 0 {
		errs = append(errs, "examples.command must not be empty when examples are enabled")
	}
	if cfg.Examples.Workers < 1 {
		errs = append(errs, fmt.Sprintf("examples.workers must be at least 1 (got %d)", cfg.Examples.Workers))
	}
	if d, err := time.ParseDuration(cfg.Examples.PollInterval); err != nil || d <= 0 {
		errs = append(errs, fmt.Sprintf("examples.poll_interval must be a positive duration (got %q)", cfg.Examples.PollInterval))
	}
	if !strings.HasPrefix(cfg.Examples.ImageExt, ".") {
		errs = append(errs, fmt.Sprintf("examples.image_ext must start with a dot (got %q)", cfg.Examples.ImageExt))
	}

	// Preview validation
	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		errs = append(errs, fmt.Sprintf("preview.port out of range (got %d)", cfg.Preview.Port))
	}
	if cfg.Preview.Debounce != "" {
		if _, err := time.ParseDuration(cfg.Preview.Debounce); err != nil {
			errs = append(errs, fmt.Sprintf("preview.debounce is not a valid duration: %v", err))
		}
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
