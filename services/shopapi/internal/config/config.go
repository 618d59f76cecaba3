package config

import (
	"time"

	"github.com/Skotchmaster/friendly_mart/pkg/config"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       []byte
	RefreshSecret   []byte
	AccessTTL       time.Duration
	KafkaBrokers    []string
	ESURL           string
	ESUser          string
	ESPassword      string
	LoginRatePerMin int
	LogLevel        string
	SeedCategories  []string
	AdminUsername   string
	AdminPassword   string
}

// Load exits the process when JWT_SECRET is missing, or when
// ADMIN_USERNAME is set without ADMIN_PASSWORD.
func Load() *Config {
	config.LoadDotEnv()

	jwtSecret := []byte(config.EnvDefault("JWT_SECRET", ""))
	config.MustNonEmptyBytes(jwtSecret, "JWT_SECRET")
	adminUser := config.EnvDefault("ADMIN_USERNAME", "")
	if adminUser != "" {
		config.MustNonEmpty(config.EnvDefault("ADMIN_PASSWORD", ""), "ADMIN_PASSWORD")
	}

	return &Config{
		Port:            config.EnvDefault("SERVER_PORT", "8000"),
		DatabaseURL:     config.EnvDefault("DATABASE_URL", "sqlite:shop.db"),
		JWTSecret:       jwtSecret,
		RefreshSecret:   []byte(config.EnvDefault("REFRESH_SECRET", "")),
		AccessTTL:       config.EnvDurationDefault("ACCESS_TTL", 15*time.Minute),
		KafkaBrokers:    config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		ESURL:           config.EnvDefault("ES_URL", ""),
		ESUser:          config.EnvDefault("ES_USER", ""),
		ESPassword:      config.EnvDefault("ES_PASSWORD", ""),
		LoginRatePerMin: config.EnvIntDefault("LOGIN_RATE_PER_MIN", 20),
		LogLevel:        config.EnvDefault("LOG_LEVEL", "info"),
		SeedCategories:  config.CSV(config.EnvDefault("SEED_CATEGORIES", "")),
		AdminUsername:   adminUser,
		AdminPassword:   config.EnvDefault("ADMIN_PASSWORD", ""),
	}
}
