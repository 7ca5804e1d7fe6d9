package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

const (
	DefaultConfigFile     = "config.toml"
	DefaultUserDataPath   = "data/user_data.json"
	defaultEmailIndexPath = "index.txt"

	mlxSection      = "mlx_api"
	empSection      = "emp_api"
	launcherSection = "launcher_api"
	pathSection     = "path"
)

// Resolve completes cfg from the environment and the config file, then validates it.
//
// Values already set (flags, MLX_* variables) win over the file. The active
// environment is cfg.Env, else $ENV, else DEV. For DEV the section's default key
// is read (dev, launcher_url_v2); any other environment reads the key named
// after it (qa, stg, prod).
func Resolve(cfg *Configuration) error {
	if err := loadDotEnv(cfg.DotEnvFile); err != nil {
		return err
	}

	env := cfg.Env
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = EnvDev
	}
	env = strings.ToUpper(env)
	if !slices.Contains(Environments, env) {
		return srvErrors.NewUnsupportedEnvironmentError(env)
	}
	cfg.Env = env

	if err := readConfigFile(cfg); err != nil {
		return err
	}

	if cfg.Services.EmpURL == "" {
		cfg.Services.EmpURL = cfg.Services.MlxURL
	}
	if cfg.Paths.UserData == "" {
		cfg.Paths.UserData = DefaultUserDataPath
	}
	if cfg.Paths.EmailIndex == "" {
		cfg.Paths.EmailIndex = defaultEmailIndexPath
	}
	if cfg.Emp.Password == "" {
		// the EMP secret of each environment is exported under the environment's name
		cfg.Emp.Password = os.Getenv(cfg.Env)
	}

	return Validate(cfg)
}

// Validate checks the validate tags of cfg.
func Validate(cfg *Configuration) error {
	if err := validator.New().Struct(cfg); err != nil {
		return srvErrors.NewConfigurationError("invalid configuration: %v", err)
	}
	return nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return srvErrors.NewConfigurationError("failed to load %s: %v", path, err)
	}
	return nil
}

func readConfigFile(cfg *Configuration) error {
	if cfg.ConfigFile == "" {
		return nil
	}
	// only the default file is optional; a path named explicitly must exist
	if _, err := os.Stat(cfg.ConfigFile); errors.Is(err, os.ErrNotExist) {
		if cfg.ConfigFile == DefaultConfigFile {
			return nil
		}
		return srvErrors.NewConfigurationError("config file %s does not exist", cfg.ConfigFile)
	}

	v := viper.New()
	v.SetConfigFile(cfg.ConfigFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return srvErrors.NewConfigurationError("failed to read config file %s: %v", cfg.ConfigFile, err)
	}

	lookup := func(section, defaultKey string) string {
		key := defaultKey
		if cfg.Env != EnvDev {
			key = strings.ToLower(cfg.Env)
		}
		return v.GetString(fmt.Sprintf("%s.%s", section, key))
	}

	setIfEmpty(&cfg.Services.MlxURL, lookup(mlxSection, "dev"))
	setIfEmpty(&cfg.Services.EmpURL, lookup(empSection, "dev"))
	setIfEmpty(&cfg.Services.LauncherURL, lookup(launcherSection, "launcher_url_v2"))
	setIfEmpty(&cfg.Services.LauncherV1URL, v.GetString(launcherSection+".launcher_url_v1"))
	setIfEmpty(&cfg.Paths.UserData, v.GetString(pathSection+".user_data"))
	setIfEmpty(&cfg.Paths.EmailIndex, v.GetString(pathSection+".email_index"))

	return nil
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
