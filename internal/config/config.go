package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDataFolder() string
	GetDatasetBaseURL() string
	GetDatasetFetchTimeout() time.Duration
	GetDatasetBreakerEnabled() bool
	GetDashboardPath() string
	GetSignupURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Session
}

var loadDotEnv sync.Once

// New returns the environment backed configuration, loading a .env file from the
// working directory first if there is one. Variables already set take precedence.
func New() Config {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})
	return mainConfig{}
}
