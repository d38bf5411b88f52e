package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env                    string
	Port                   string
	DBURL                  string
	RedisAddr              string
	RedisPassword          string
	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessExpiryMin        int
	RefreshExpiryMin       int
	LoginMaxAttempts       int
	LockoutWindowMin       int
	BcryptCost             int
	IdentityCacheTTLSec    int
	MaxActiveRefreshTokens int
}

func Load() *Config {
	return &Config{
		Env:                    getEnv("ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		DBURL:                  mustGetEnv("DB_URL"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		AccessTokenSecret:      mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:     mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:        getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:       getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		LoginMaxAttempts:       getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LockoutWindowMin:       getEnvAsInt("LOGIN_LOCKOUT_WINDOW", 15),
		BcryptCost:             getEnvAsInt("BCRYPT_COST", 10),
		IdentityCacheTTLSec:    getEnvAsInt("IDENTITY_CACHE_TTL", 60),
		MaxActiveRefreshTokens: getEnvAsInt("MAX_ACTIVE_REFRESH_TOKENS", 5),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
