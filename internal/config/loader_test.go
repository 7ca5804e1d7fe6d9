package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

const sampleConfig = `
[mlx_api]
dev = "https://api-dev.example.com"
qa = "https://api-qa.example.com"
stg = "https://api-stg.example.com"
prod = "https://api.example.com"

[launcher_api]
launcher_url_v2 = "https://launcher.example.com:45001/api/v2"
launcher_url_v1 = "https://launcher.example.com:45001/api/v1"
qa = "https://launcher-qa.example.com/api/v2"

[path]
user_data = "fixtures/user_data.json"
`

var _ = Describe("Resolve", func() {
	var (
		tmpDir string
		cfg    *config.Configuration
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		configFile := filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(configFile, []byte(sampleConfig), 0600)).To(Succeed())

		cfg = config.NewConfigurationWithOptionsAndDefaults(
			config.WithConfigFile(configFile),
			config.WithDotEnvFile(filepath.Join(tmpDir, ".env")),
		)
		os.Unsetenv("ENV")
		os.Unsetenv("DEV")
		os.Unsetenv("QA")
	})

	AfterEach(func() {
		os.Unsetenv("ENV")
		os.Unsetenv("DEV")
		os.Unsetenv("QA")
		os.RemoveAll(tmpDir)
	})

	It("should apply defaults", func() {
		Expect(cfg.LogLevel).To(Equal("info"))
		Expect(cfg.Emp.Username).To(Equal("admin"))
		Expect(cfg.Signup.EmailDomain).To(Equal("@multilogin.com"))
		Expect(cfg.Signup.StopDelay).To(Equal(3 * time.Second))
		Expect(cfg.Signup.FolderName).To(Equal("Default folder"))
		Expect(cfg.Sandbox.HTTPPort).To(Equal(8090))
	})

	// Given no environment selected
	// When the configuration is resolved
	// Then the DEV keys of each section are used
	It("should default to DEV", func() {
		Expect(config.Resolve(cfg)).To(Succeed())

		Expect(cfg.Env).To(Equal(config.EnvDev))
		Expect(cfg.Services.MlxURL).To(Equal("https://api-dev.example.com"))
		Expect(cfg.Services.EmpURL).To(Equal("https://api-dev.example.com"))
		Expect(cfg.Services.LauncherURL).To(Equal("https://launcher.example.com:45001/api/v2"))
		Expect(cfg.Services.LauncherV1URL).To(Equal("https://launcher.example.com:45001/api/v1"))
		Expect(cfg.Paths.UserData).To(Equal("fixtures/user_data.json"))
		Expect(cfg.Paths.EmailIndex).To(Equal("index.txt"))
	})

	It("should select the environment from $ENV", func() {
		os.Setenv("ENV", "qa")

		Expect(config.Resolve(cfg)).To(Succeed())

		Expect(cfg.Env).To(Equal(config.EnvQA))
		Expect(cfg.Services.MlxURL).To(Equal("https://api-qa.example.com"))
		Expect(cfg.Services.LauncherURL).To(Equal("https://launcher-qa.example.com/api/v2"))
	})

	It("should prefer values already set over the file", func() {
		cfg.Services.MlxURL = "http://localhost:9999"

		Expect(config.Resolve(cfg)).To(Succeed())
		Expect(cfg.Services.MlxURL).To(Equal("http://localhost:9999"))
	})

	It("should read the EMP secret from the variable named after the environment", func() {
		os.Setenv("DEV", "dev-secret")

		Expect(config.Resolve(cfg)).To(Succeed())
		Expect(cfg.Emp.Password).To(Equal("dev-secret"))
	})

	It("should load secrets from the .env file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("QA=qa-secret\n"), 0600)).To(Succeed())
		cfg.Env = "QA"

		Expect(config.Resolve(cfg)).To(Succeed())
		Expect(cfg.Emp.Password).To(Equal("qa-secret"))
	})

	It("should reject unsupported environments", func() {
		cfg.Env = "LOCAL"

		err := config.Resolve(cfg)
		Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("unsupported environment: LOCAL")))
	})

	It("should fail validation when no URL is known", func() {
		cfg.ConfigFile = ""

		err := config.Resolve(cfg)
		Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("invalid configuration")))
	})

	// Given a config path that was named explicitly
	// When the file does not exist
	// Then Resolve reports the missing file instead of a validation error
	It("should report an explicitly named config file that does not exist", func() {
		missing := filepath.Join(tmpDir, "missing.toml")
		cfg.ConfigFile = missing

		err := config.Resolve(cfg)
		Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("config file " + missing + " does not exist")))
	})

	It("should tolerate a missing default config file", func() {
		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
		DeferCleanup(os.Chdir, wd)
		Expect(os.Remove(filepath.Join(tmpDir, config.DefaultConfigFile))).To(Succeed())

		cfg.ConfigFile = config.DefaultConfigFile
		cfg.Services.MlxURL = "https://api.example.com"
		cfg.Services.LauncherURL = "https://launcher.example.com/api/v2"

		Expect(config.Resolve(cfg)).To(Succeed())
		Expect(cfg.Env).To(Equal(config.EnvDev))
	})

	It("should report unreadable config files", func() {
		Expect(os.WriteFile(cfg.ConfigFile, []byte("[mlx_api\ndev ="), 0600)).To(Succeed())

		err := config.Resolve(cfg)
		Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
	})
})
