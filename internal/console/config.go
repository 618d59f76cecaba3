package console

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/pkg/config"
)

type Config struct {
	APIURL      string
	Role        session.Role
	Storage     storage.Type
	StoragePath string
	RedisAddr   string
	NoticeTTL   time.Duration
	PricingFile string
	LogLevel    string
	Timeout     time.Duration
}

// LoadConfig reads MART_* variables, optionally from a .env file.
func LoadConfig() (Config, error) {
	config.LoadDotEnv()

	role, err := session.ParseRole(config.EnvDefault("MART_ROLE", string(session.Customer)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:      config.EnvDefault("MART_API_URL", "http://localhost:8000/api"),
		Role:        role,
		Storage:     storage.Type(config.EnvDefault("MART_STORAGE", string(storage.TypeFile))),
		StoragePath: os.Getenv("MART_STORAGE_PATH"),
		RedisAddr:   config.EnvDefault("REDIS_ADDR", "localhost:6379"),
		NoticeTTL:   config.EnvDurationDefault("MART_NOTICE_TTL", dispatch.DefaultNoticeTTL),
		PricingFile: os.Getenv("MART_PRICING_FILE"),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),
		Timeout:     config.EnvDurationDefault("MART_HTTP_TIMEOUT", 10*time.Second),
	}
	if cfg.Storage == storage.TypeFile && cfg.StoragePath == "" {
		cfg.StoragePath = DefaultStoragePath(role)
	}
	switch cfg.Storage {
	case storage.TypeMemory, storage.TypeFile, storage.TypeRedis:
	default:
		return Config{}, fmt.Errorf("MART_STORAGE must be memory, file or redis, got %q", cfg.Storage)
	}
	return cfg, nil
}

// DefaultStoragePath is one JSON file per role under the user config dir.
func DefaultStoragePath(role session.Role) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "friendly_mart", string(role)+".json")
}
