package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/roletapro/roleta-client/internal/pkg/validate"
)

// Token store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	APIURL      string        `env:"ROLETA_API_URL,      default=http://localhost:8000" validate:"required,url"`
	Profile     string        `env:"ROLETA_PROFILE,      default=default"               validate:"required,max=64,excludesall=/\\"`
	Output      string        `env:"ROLETA_OUTPUT,       default=json"                  validate:"oneof=json yaml table"`
	HTTPTimeout time.Duration `env:"ROLETA_HTTP_TIMEOUT, default=0s"                    validate:"gte=0"`

	Log        LogConfig
	TokenStore TokenStoreConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Relay      RelayConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type TokenStoreConfig struct {
	Kind       string `env:"ROLETA_TOKEN_STORE, default=file" validate:"oneof=memory file redis mongo"`
	Dir        string `env:"ROLETA_TOKEN_DIR"`
	Passphrase string `env:"ROLETA_TOKEN_PASSPHRASE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=roleta"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type RelayConfig struct {
	Port          string        `env:"RELAY_PORT,           default=8080"       validate:"required"`
	ProbeSchedule string        `env:"RELAY_PROBE_SCHEDULE, default=@every 30s" validate:"required"`
	DedupTTL      time.Duration `env:"RELAY_DEDUP_TTL,      default=72h"        validate:"gte=0"`
	DedupEnabled  bool          `env:"RELAY_DEDUP_ENABLED,  default=true"`
	MongoCheck    bool          `env:"RELAY_MONGO_CHECK,    default=false"`
	OpsJWTSecret  string        `env:"RELAY_OPS_JWT_SECRET"`
}

// Load reads the given .env files (".env" when none are named; missing files
// are skipped), then the environment. Variables already set in the
// environment win over .env entries.
func Load(ctx context.Context, dotenv ...string) (*Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// TokenDir returns the directory for the file token store: ROLETA_TOKEN_DIR,
// else <user config dir>/roleta.
func (c *Config) TokenDir() (string, error) {
	if c.TokenStore.Dir != "" {
		return c.TokenStore.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate token dir: %w", err)
	}
	return filepath.Join(base, "roleta"), nil
}
