// Package config reads the service configuration from an optional YAML file
// and the environment.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/goliatone/go-productivity/cache"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string      `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string      `yaml:"log_level" env:"LOG_LEVEL"`
	HTTP     HTTPConfig  `yaml:"http"`
	Store    StoreConfig `yaml:"store"`
	Cache    CacheConfig `yaml:"cache"`
	Auth     AuthConfig  `yaml:"auth"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver" env:"STORE_DRIVER" env-default:"memory"`
	DSN         string `yaml:"dsn" env:"STORE_DSN"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"STORE_AUTO_MIGRATE" env-default:"false"`
}

type CacheConfig struct {
	Enabled            bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	Capacity           int           `yaml:"capacity" env:"CACHE_CAPACITY" env-default:"10000"`
	Shards             int           `yaml:"shards" env:"CACHE_SHARDS" env-default:"256"`
	EvictionPercentage int           `yaml:"eviction_percentage" env:"CACHE_EVICTION_PERCENTAGE" env-default:"10"`
	EvictionInterval   time.Duration `yaml:"eviction_interval" env:"CACHE_EVICTION_INTERVAL" env-default:"1m"`
	TTLShort           time.Duration `yaml:"ttl_short" env:"CACHE_TTL_SHORT" env-default:"5m"`
	TTLMedium          time.Duration `yaml:"ttl_medium" env:"CACHE_TTL_MEDIUM" env-default:"30m"`
	TTLLong            time.Duration `yaml:"ttl_long" env:"CACHE_TTL_LONG" env-default:"1h"`
	TTLDaily           time.Duration `yaml:"ttl_daily" env:"CACHE_TTL_DAILY" env-default:"24h"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"AUTH_ISSUER" env-default:"productivityd"`
	Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
}

// Load reads path when it is not empty, then applies the environment on top.
func Load(path string) (*Config, error) {
	cfg := new(Config)
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required, validation.In(EnvLocal, EnvDev, EnvProd)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.HTTP),
		validation.Field(&c.Store),
		validation.Field(&c.Cache),
		validation.Field(&c.Auth),
	)
}

func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

func (c StoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMemory, DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.When(c.Driver != DriverMemory, validation.Required)),
	)
}

func (c CacheConfig) Validate() error {
	return c.ToCache().Validate()
}

func (c AuthConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(16, 0)),
	)
}

// ToCache converts the settings into a cache.Config.
func (c CacheConfig) ToCache() cache.Config {
	return cache.Config{
		Enabled:            c.Enabled,
		Capacity:           c.Capacity,
		NumShards:          c.Shards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		TTL: cache.TTLs{
			Short:  c.TTLShort,
			Medium: c.TTLMedium,
			Long:   c.TTLLong,
			Daily:  c.TTLDaily,
		},
	}
}
