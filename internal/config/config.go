package config

import "time"

//go:generate go tool optgen -output zz_generated.configuration_options.go . Configuration

const (
	EnvDev  = "DEV"
	EnvQA   = "QA"
	EnvStg  = "STG"
	EnvProd = "PROD"
)

// Environments lists the environments a run can target.
var Environments = []string{EnvDev, EnvQA, EnvStg, EnvProd}

type Configuration struct {
	Env        string `validate:"required,oneof=DEV QA STG PROD"`
	ConfigFile string `default:"config.toml"`
	DotEnvFile string `default:".env"`
	LogLevel   string `default:"info" validate:"oneof=debug info warn error"`
	LogFile    string `default:"e2e.log"`
	Services   Services
	Paths      Paths
	Emp        Emp
	Signup     Signup
	Sandbox    Sandbox
}

type Services struct {
	MlxURL        string `validate:"required,url"`
	EmpURL        string `validate:"omitempty,url"`
	LauncherURL   string `validate:"required,url"`
	LauncherV1URL string `validate:"omitempty,url"`
}

type Paths struct {
	UserData   string `validate:"required"`
	EmailIndex string `validate:"required"`
}

type Emp struct {
	Username string `default:"admin"`
	Password string
}

type Signup struct {
	EmailPrefix  string        `default:"andrey.nguyenmain"`
	EmailDomain  string        `default:"@multilogin.com" validate:"startswith=@"`
	KeepProfile  bool          `default:"false"`
	PersistOwner bool          `default:"false"`
	StopDelay    time.Duration `default:"3s"`
	FolderName   string        `default:"Default folder"`
}

type Sandbox struct {
	HTTPPort   int           `default:"8090" validate:"min=1,max=65535"`
	ServerMode string        `default:"dev" validate:"oneof=dev prod"`
	TLS        bool          `default:"false"`
	TokenTTL   time.Duration `default:"1h"`
	SigningKey string        `default:"sandbox-signing-key"`
}
