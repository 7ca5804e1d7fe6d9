package main

import (
	"flag"
	"log"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/scenario"
)

type configuration struct {
	*config.Configuration
	UseSandbox bool
	Password   string
}

var (
	cfg    configuration
	stack  *Stack
	emails *scenario.EmailSequence
	drawn  bool
)

// nextEmail draws from the counter shared by every suite of the run.
func nextEmail() (string, error) {
	drawn = true
	return emails.Next()
}

var _ = AfterSuite(func() {
	if drawn {
		Expect(emails.Commit()).To(Succeed(), "failed to write the email counter")
	}
})

func main() {
	cfg.Configuration = config.NewConfigurationWithOptionsAndDefaults()

	flag.StringVar(&cfg.Env, "env", "", "Target environment: DEV, QA, STG or PROD (falls back to $ENV, then DEV)")
	flag.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to the TOML config file")
	flag.StringVar(&cfg.DotEnvFile, "env-file", cfg.DotEnvFile, "Path to a .env file with per-environment secrets")
	flag.StringVar(&cfg.Paths.UserData, "user-data", "", "Path to the credential document")
	flag.StringVar(&cfg.Paths.EmailIndex, "email-index", "", "Path to the signup email counter file")
	flag.StringVar(&cfg.Emp.Password, "emp-password", "", "EMP basic auth password (defaults to the variable named after the environment)")
	flag.StringVar(&cfg.Password, "password", "", "Password of the new account (defaults to the stored owner's password)")
	flag.BoolVar(&cfg.Signup.KeepProfile, "keep-profile", false, "Keep the created profile after the suite (useful for debugging)")
	flag.DurationVar(&cfg.Signup.StopDelay, "stop-delay", 3*time.Second, "Wait between launching and stopping the profile")
	flag.BoolVar(&cfg.UseSandbox, "sandbox", false, "Run against an in-process sandbox instead of the configured services")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if cfg.UseSandbox {
		stack, err = NewSandboxStack(cfg.Configuration)
		if err != nil {
			log.Fatalf("failed to start sandbox: %v", err)
		}
		defer stack.Stop()
		if cfg.Password == "" {
			cfg.Password = "sandbox-password"
		}
	}

	if err := config.Resolve(cfg.Configuration); err != nil {
		log.Fatalf("failed to resolve configuration: %v", err)
	}

	if cfg.Password == "" {
		cfg.Password, err = storedOwnerPassword(cfg.Paths.UserData)
		if err != nil {
			log.Fatalf("failed to read the owner's password: %v", err)
		}
	}

	emails = scenario.NewEmailSequence(cfg.Paths.EmailIndex, cfg.Signup.EmailPrefix, cfg.Signup.EmailDomain)

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
