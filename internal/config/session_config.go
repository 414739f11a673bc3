package config

import "strings"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type SessionConfig interface {
	GetSessionStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionStore is "memory" or "redis"
func (Session) GetSessionStore() string {
	return strings.ToLower(GetEnv("SESSION_STORE", SessionStoreMemory))
}

func (Session) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Session) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Session) GetRedisDB() int {
	return GetIntEnv("REDIS_DB", 0)
}
