package config

import "time"

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetEnableRateLimiting() bool
	GetLoginAttemptsPerMinute() int
	GetLoginBurst() int
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetMaxSessionAge is the idle lifetime of a server side session partition
func (Security) GetMaxSessionAge() time.Duration {
	return GetDurationEnv("SESSION_MAX_AGE", 30*time.Minute)
}

func (Security) GetEnableRateLimiting() bool {
	return GetBoolEnv("RATE_LIMIT_ENABLED", true)
}

func (Security) GetLoginAttemptsPerMinute() int {
	return GetIntEnv("LOGIN_ATTEMPTS_PER_MINUTE", 30)
}

func (Security) GetLoginBurst() int {
	return GetIntEnv("LOGIN_BURST", 5)
}
