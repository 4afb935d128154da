package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/chain-router/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Address: ":8080", Environment: config.EnvDev},
		Logging: config.LoggingConfig{Level: config.LogLevelInfo},
		Metrics: config.MetricsConfig{BufferSize: 10},
		Chains:  config.DefaultChains(),
	}
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tempDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
		os.Unsetenv("LOGGING_LEVEL")
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  address: ":9090"
  environment: "staging"

logging:
  level: "debug"

metrics:
  buffer_size: 50

chains:
  - name: "approval"
    handlers:
      - name: "TeamLead"
        kind: "max"
        max: 2
      - name: "ProjectManager"
        kind: "max"
        max: 5
  - name: "refunds"
    handlers:
      - name: "Clerk"
        kind: "range"
        min: 0
        max: 50
      - name: "Manager"
        kind: "any"
`
				err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":9090"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvStaging))
				Expect(cfg.Metrics.BufferSize).To(Equal(50))
			})

			It("should keep chains and handlers in file order", func() {
				cfg, _ := config.Load()
				Expect(cfg.Chains).To(HaveLen(2))
				Expect(cfg.Chains[0].Name).To(Equal("approval"))
				Expect(cfg.Chains[0].Handlers[1]).To(Equal(config.HandlerConfig{Name: "ProjectManager", Kind: "max", Max: 5}))
				Expect(cfg.Chains[1].Handlers[0]).To(Equal(config.HandlerConfig{Name: "Clerk", Kind: "range", Min: 0, Max: 50}))
				Expect(cfg.Chains[1].Handlers[1].Kind).To(Equal(config.KindAny))
			})

			It("should let environment variables override the file", func() {
				os.Setenv("LOGGING_LEVEL", "warn")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelWarn))
			})
		})

		Context("without a config file", func() {
			It("should use defaults and the approval chain", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":8080"))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Metrics.BufferSize).To(Equal(1000))
				Expect(cfg.Chains).To(Equal(config.DefaultChains()))
			})
		})

		Context("with an invalid chain definition", func() {
			It("should fail validation", func() {
				content := `
chains:
  - name: "approval"
    handlers:
      - name: "TeamLead"
        kind: "weighted"
`
				Expect(os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(content), 0644)).To(Succeed())

				cfg, err := config.Load()
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())
			})
		})
	})

	Describe("Validate", func() {
		It("should accept the defaults", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		DescribeTable("rejecting invalid settings",
			func(mutate func(*config.Config)) {
				cfg := validConfig()
				mutate(cfg)
				Expect(cfg.Validate()).NotTo(Succeed())
			},
			Entry("unknown environment", func(c *config.Config) { c.Server.Environment = "qa" }),
			Entry("bad address", func(c *config.Config) { c.Server.Address = "nope" }),
			Entry("bad timeout", func(c *config.Config) { c.Server.ReadTimeout = "soon" }),
			Entry("unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }),
			Entry("zero metrics buffer", func(c *config.Config) { c.Metrics.BufferSize = 0 }),
			Entry("no chains", func(c *config.Config) { c.Chains = nil }),
			Entry("duplicate chain names", func(c *config.Config) {
				c.Chains = append(c.Chains, config.DefaultChains()...)
			}),
			Entry("unnamed chain", func(c *config.Config) { c.Chains[0].Name = "" }),
			Entry("empty handler list", func(c *config.Config) { c.Chains[0].Handlers = nil }),
			Entry("duplicate handler names", func(c *config.Config) {
				c.Chains[0].Handlers[1].Name = c.Chains[0].Handlers[0].Name
			}),
			Entry("unnamed handler", func(c *config.Config) { c.Chains[0].Handlers[0].Name = "" }),
			Entry("unknown handler kind", func(c *config.Config) { c.Chains[0].Handlers[0].Kind = "priority" }),
			Entry("inverted range", func(c *config.Config) {
				c.Chains[0].Handlers[0] = config.HandlerConfig{Name: "r", Kind: config.KindRange, Min: 5, Max: 1}
			}),
		)
	})

	Describe("Duration", func() {
		It("should parse valid durations", func() {
			Expect(config.Duration("3s", time.Second)).To(Equal(3 * time.Second))
		})

		It("should fall back for empty or invalid values", func() {
			Expect(config.Duration("", time.Second)).To(Equal(time.Second))
			Expect(config.Duration("never", time.Second)).To(Equal(time.Second))
		})
	})
})
