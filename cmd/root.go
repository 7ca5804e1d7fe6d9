package cmd

import (
	"fmt"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mlx-qa/mlx-e2e/internal/config"
)

const envPrefix = "MLX"

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:           "mlx-e2e",
		Short:         "End-to-end checks for the MLX account, EMP and launcher APIs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: cobrautil.CommandStack(
			bindEnvironment,
			setupLogging(cfg),
		),
	}

	root.AddCommand(
		NewRunCommand(cfg),
		NewRefreshCommand(cfg),
		NewDecodeCommand(cfg),
		NewSandboxCommand(cfg),
	)

	return root
}

// bindEnvironment applies MLX_* variables to every flag not set on the command line.
func bindEnvironment(cmd *cobra.Command, args []string) error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
	return nil
}

func setupLogging(cfg *config.Configuration) cobrautil.CobraRunFunc {
	return func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	}
}

// newLogger writes to stderr and, when file is set, to file.
func newLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	outputs := []string{"stderr"}
	if file != "" {
		outputs = append(outputs, file)
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Development = false
	zcfg.DisableStacktrace = true
	zcfg.OutputPaths = outputs
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg.Build()
}

// registerCommonFlags binds the flags shared by every command.
func registerCommonFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().StringVar(&cfg.Env, "env", cfg.Env, "Target environment: DEV, QA, STG or PROD (falls back to $ENV, then DEV)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to the TOML config file")
	cmd.Flags().StringVar(&cfg.DotEnvFile, "env-file", cfg.DotEnvFile, "Path to a .env file with per-environment secrets")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file, written alongside stderr")
	cmd.Flags().StringVar(&cfg.Paths.UserData, "user-data", cfg.Paths.UserData, "Path to the credential document")
}

func registerServiceFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().StringVar(&cfg.Services.MlxURL, "mlx-url", cfg.Services.MlxURL, "Base URL of the MLX account API")
	cmd.Flags().StringVar(&cfg.Services.EmpURL, "emp-url", cfg.Services.EmpURL, "Base URL of the EMP API (defaults to the MLX URL)")
	cmd.Flags().StringVar(&cfg.Services.LauncherURL, "launcher-url", cfg.Services.LauncherURL, "Base URL of the launcher v2 API")
	cmd.Flags().StringVar(&cfg.Services.LauncherV1URL, "launcher-v1-url", cfg.Services.LauncherV1URL, "Base URL of the launcher v1 API")
}

func registerSandboxFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().IntVar(&cfg.Sandbox.HTTPPort, "sandbox-http-port", cfg.Sandbox.HTTPPort, "Port of the sandbox server")
	cmd.Flags().StringVar(&cfg.Sandbox.ServerMode, "sandbox-mode", cfg.Sandbox.ServerMode, "Sandbox server mode: dev or prod")
	cmd.Flags().BoolVar(&cfg.Sandbox.TLS, "sandbox-tls", cfg.Sandbox.TLS, "Serve the sandbox over HTTPS with a self-signed certificate")
	cmd.Flags().DurationVar(&cfg.Sandbox.TokenTTL, "sandbox-token-ttl", cfg.Sandbox.TokenTTL, "Lifetime of tokens issued by the sandbox")
	cmd.Flags().StringVar(&cfg.Sandbox.SigningKey, "sandbox-signing-key", cfg.Sandbox.SigningKey, "HS256 key of tokens issued by the sandbox")
}
