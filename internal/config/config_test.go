package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Source.ReferenceDir).To(Equal("Reference/api_en"))
			Expect(cfg.Output.Directory).To(Equal("generated"))
			// Unset fields keep their defaults
			Expect(cfg.Source.Extension).To(Equal(".xml"))
			Expect(cfg.Examples.Workers).To(Equal(1))
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Source.TutorialsDir).To(Equal("testdata/tutorials"))
			Expect(cfg.Source.Exclude).To(ContainElement("drafts/**"))
			Expect(cfg.Output.ImagesDir).To(Equal("img"))
			Expect(cfg.Build.Exclude).To(HaveLen(2))
			Expect(cfg.Build.Exclude[0].Identifier).To(Equal("^PVector_"))
			Expect(cfg.Build.Exclude[1].Category).To(Equal("Deprecated"))
			Expect(cfg.Examples.Enabled).To(BeTrue())
			Expect(cfg.Examples.Command).To(Equal([]string{"sh", "testdata/workers/runner.sh"}))
			Expect(cfg.Examples.Workers).To(Equal(4))
			Expect(cfg.Examples.PollDuration()).To(Equal(50 * time.Millisecond))
			Expect(cfg.Preview.Port).To(Equal(8042))
			Expect(cfg.Metrics.Textfile).To(Equal("metrics/sitegen.prom"))
			Expect(cfg.Logging.Level).To(Equal("debug"))
			Expect(cfg.ImagesPath()).To(Equal(filepath.Join("site", "img")))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_sitegen.yaml")
			Expect(os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)).To(Succeed())

			_, err := config.Load(tmpFile)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse config file"))
		})

		It("should apply a .env file next to the config", func() {
			dir := GinkgoT().TempDir()
			cfgPath := filepath.Join(dir, "sitegen.yaml")
			Expect(os.WriteFile(cfgPath, []byte("output:\n  directory: from-yaml\n"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, ".env"), []byte(config.EnvOutputDir+"=from-env\n"), 0644)).To(Succeed())
			DeferCleanup(os.Unsetenv, config.EnvOutputDir)

			cfg, err := config.Load(cfgPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Output.Directory).To(Equal("from-env"))
		})
	})

	Describe("ApplyEnv", func() {
		It("should override values from SITEGEN_* variables", func() {
			GinkgoT().Setenv(config.EnvExamplesCommand, "python3 runner.py")
			GinkgoT().Setenv(config.EnvExamplesWorkers, "3")
			GinkgoT().Setenv(config.EnvLogLevel, "warn")

			cfg := config.DefaultConfig()
			Expect(config.ApplyEnv(cfg)).To(Succeed())
			Expect(cfg.Examples.Command).To(Equal([]string{"python3", "runner.py"}))
			Expect(cfg.Examples.Workers).To(Equal(3))
			Expect(cfg.Logging.Level).To(Equal("warn"))
		})

		It("should reject a non-numeric worker count", func() {
			GinkgoT().Setenv(config.EnvExamplesWorkers, "many")
			err := config.ApplyEnv(config.DefaultConfig())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(config.EnvExamplesWorkers))
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Source.ReferenceDir).To(Equal("Reference/api_en"))
			Expect(cfg.Source.TutorialsDir).To(Equal("Tutorials"))
			Expect(cfg.Output.Directory).To(Equal("generated"))
			Expect(cfg.Templates.Directory).To(Equal("template"))
			Expect(cfg.Static.Directory).To(Equal("content"))
			Expect(cfg.Examples.Enabled).To(BeFalse())
			Expect(cfg.Examples.PollDuration()).To(Equal(100 * time.Millisecond))
			Expect(cfg.DryRun).To(BeFalse())
		})

		It("should pass validation", func() {
			Expect(config.Validate(config.DefaultConfig())).To(Succeed())
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = config.DefaultConfig()
		})

		It("should fail when reference_dir is empty", func() {
			cfg.Source.ReferenceDir = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("source.reference_dir"))
		})

		It("should fail when extension has no dot", func() {
			cfg.Source.Extension = "xml"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("source.extension must start with a dot")))
		})

		It("should fail when output directory is empty", func() {
			cfg.Output.Directory = ""
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("output.directory")))
		})

		It("should fail on an exclusion rule that selects nothing", func() {
			cfg.Build.Exclude = []config.ExcludeRule{{Reason: "no pattern"}}
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("build.exclude[0] needs an identifier pattern or a category")))
		})

		It("should fail on an exclusion rule with a bad regex", func() {
			cfg.Build.Exclude = []config.ExcludeRule{{Identifier: "(unclosed"}}
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("build.exclude[0].identifier is not a valid regex")))
		})

		It("should require a command when examples are enabled", func() {
			cfg.Examples.Enabled = true
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("examples.command")))
		})

		It("should fail on zero workers", func() {
			cfg.Examples.Workers = 0
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("examples.workers must be at least 1")))
		})

		It("should fail on a bad poll interval", func() {
			cfg.Examples.PollInterval = "soon"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("examples.poll_interval")))
		})

		It("should fail on an out of range port", func() {
			cfg.Preview.Port = 70000
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("preview.port out of range")))
		})

		It("should fail on invalid logging level", func() {
			cfg.Logging.Level = "verbose"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("logging.level")))
		})

		It("should report every problem at once", func() {
			cfg.Source.ReferenceDir = ""
			cfg.Output.Directory = ""
			err := config.Validate(cfg)
			Expect(err).To(MatchError(And(
				ContainSubstring("source.reference_dir"),
				ContainSubstring("output.directory"),
			)))
		})
	})
})

var _ = Describe("SplitCommand", func() {
	DescribeTable("splits runner command lines",
		func(line string, want []string) {
			got, err := config.SplitCommand(line)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("plain words", "python3 runner.py", []string{"python3", "runner.py"}),
		Entry("extra whitespace", "  java\t-jar  runner.jar ", []string{"java", "-jar", "runner.jar"}),
		Entry("double quotes", `sh "/opt/my runner/run.sh"`, []string{"sh", "/opt/my runner/run.sh"}),
		Entry("single quotes", `jython -Dpython.path='a b' gen.py`, []string{"jython", "-Dpython.path=a b", "gen.py"}),
		Entry("empty quoted argument", `run ""`, []string{"run", ""}),
		Entry("empty line", "   ", nil),
	)

	It("should reject an unterminated quote", func() {
		_, err := config.SplitCommand(`sh "runner.sh`)
		Expect(err).To(HaveOccurred())
	})
})
