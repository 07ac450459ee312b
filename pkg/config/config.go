package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SORVETES"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv         = "SORVETES_APP_ENV"
	EnvStorageBackend = "SORVETES_STORAGE_BACKEND"
	EnvStoragePath    = "SORVETES_STORAGE_PATH"
	EnvStorageDSN     = "SORVETES_STORAGE_DSN"
	EnvRedisURL       = "SORVETES_REDIS_URL"
)

// Storage backend selectors accepted by StorageConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Redis   RedisConfig
	Seed    SeedConfig
}

// Load reads a .env file when present and then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SORVETES_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"SORVETES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SORVETES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects and parameterizes the key-value backend.
type StorageConfig struct {
	Backend string `envconfig:"SORVETES_STORAGE_BACKEND" default:"file"`
	Path    string `envconfig:"SORVETES_STORAGE_PATH" default:"storefront.db.json"`
	DSN     string `envconfig:"SORVETES_STORAGE_DSN"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case BackendMemory, BackendRedis:
		return nil
	case BackendFile, BackendSQLite:
		if s.Path == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvStoragePath, s.Backend)
		}
		return nil
	case BackendPostgres:
		if s.DSN == "" {
			return fmt.Errorf("%s is required for the postgres backend", EnvStorageDSN)
		}
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"SORVETES_REDIS_URL"`
	Address      string        `envconfig:"SORVETES_REDIS_ADDR"`
	Password     string        `envconfig:"SORVETES_REDIS_PASSWORD"`
	DB           int           `envconfig:"SORVETES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SORVETES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SORVETES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SORVETES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SORVETES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SORVETES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SeedConfig struct {
	Disable bool `envconfig:"SORVETES_SEED_DISABLE" default:"false"`
}
