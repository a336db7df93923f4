package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			ReferenceDir: "Reference/api_en",
			TutorialsDir: "Tutorials",
			Extension:    ".xml",
		},
		Output: OutputConfig{
			Directory: "generated",
			ImagesDir: "images",
		},
		Templates: TemplateConfig{
			Directory: "template",
		},
		Static: StaticConfig{
			Directory: "content",
		},
		Examples: ExamplesConfig{
			Enabled:      false,
			Workers:      1,
			PollInterval: "100ms",
			ScriptExt:    ".py",
			ImageExt:     ".png",
		},
		Preview: PreviewConfig{
			Host:     "localhost",
			Debounce: "300ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
