package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	appNameVar           = "APP_NAME"
	envVar               = "ENV"
	logLevelVar          = "LOG_LEVEL"
	folderEnvVar         = "FOLDER"
	datasetBaseURLVar    = "DATASET_BASE_URL"
	datasetFetchTimeout  = "DATASET_FETCH_TIMEOUT"
	dashboardPathVar     = "DASHBOARD_PATH"
	signupURLVar         = "SIGNUP_URL"
	defaultFetchTimeout  = 10 * time.Second
	defaultDashboardPath = "/dashboard"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Delivery Sign-In")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// GetDataFolder is the folder holding the credential datasets
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetDatasetBaseURL is the absolute URL datasets are fetched from. When empty the datasets
// are read from the data folder.
func (EnvVars) GetDatasetBaseURL() string {
	return GetEnv(datasetBaseURLVar, "")
}

func (EnvVars) GetDatasetFetchTimeout() time.Duration {
	return GetDurationEnv(datasetFetchTimeout, defaultFetchTimeout)
}

// GetDatasetBreakerEnabled wraps the dataset source in a circuit breaker
func (EnvVars) GetDatasetBreakerEnabled() bool {
	return GetBoolEnv("DATASET_BREAKER_ENABLED", false)
}

func (EnvVars) GetDashboardPath() string {
	return GetEnv(dashboardPathVar, defaultDashboardPath)
}

func (EnvVars) GetSignupURL() string {
	return GetEnv(signupURLVar, "/signup.html")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetIntEnv(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetBoolEnv(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
