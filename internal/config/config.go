package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Source    SourceConfig   `yaml:"source"`
	Output    OutputConfig   `yaml:"output"`
	Templates TemplateConfig `yaml:"templates"`
	Static    StaticConfig   `yaml:"static"`
	Build     BuildConfig    `yaml:"build"`
	Examples  ExamplesConfig `yaml:"examples"`
	Preview   PreviewConfig  `yaml:"preview"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Logging   LoggingConfig  `yaml:"logging"`
	DryRun    bool           `yaml:"dry_run"`
}

type SourceConfig struct {
	ReferenceDir string   `yaml:"reference_dir"`
	TutorialsDir string   `yaml:"tutorials_dir"`
	Extension    string   `yaml:"extension"`
	Exclude      []string `yaml:"exclude"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
	ImagesDir string `yaml:"images_dir"` // relative to Directory
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
}

type StaticConfig struct {
	Directory string `yaml:"directory"`
}

// BuildConfig controls which documents a build selects.
type BuildConfig struct {
	Exclude []ExcludeRule `yaml:"exclude"`
}

// ExcludeRule removes matching identifiers from "all" and "fresh" builds.
// A rule with both fields set matches only when both match.
type ExcludeRule struct {
	Identifier string `yaml:"identifier"` // regular expression
	Category   string `yaml:"category"`
	Reason     string `yaml:"reason"`
}

type ExamplesConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Command      []string `yaml:"command"`
	Workers      int      `yaml:"workers"`
	PollInterval string   `yaml:"poll_interval"`
	ScratchDir   string   `yaml:"scratch_dir"`
	ScriptExt    string   `yaml:"script_ext"`
	ImageExt     string   `yaml:"image_ext"`
}

// PollDuration returns the parsed poll interval. Validate guarantees it parses.
func (e ExamplesConfig) PollDuration() time.Duration {
	d, err := time.ParseDuration(e.PollInterval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

type PreviewConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // 0 picks a random port in 8000-8999
	Debounce string `yaml:"debounce"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config. A .env file next
// to the config file, if present, is loaded into the environment first and
// SITEGEN_* variables then override the file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, statErr := os.Stat(envFile); statErr == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, domain.NewError("config", envFile, 0, "failed to load .env file", err)
		}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ImagesPath returns the absolute-or-relative directory example images live in.
func (c *Config) ImagesPath() string {
	return filepath.Join(c.Output.Directory, c.Output.ImagesDir)
}
