package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr        string
		FrontendURL string
	}
	Log struct {
		Level string
	}
	Store struct {
		Driver  string
		Timeout time.Duration
	}
	Mongo struct {
		URI        string
		Database   string
		Collection string
	}
	SQLite struct {
		Path string
	}
	Redis struct {
		URL string
		Key string
	}
	Seed struct {
		Path     string
		Bucket   string
		Key      string
		Region   string
		Endpoint string
	}
	AWS struct {
		Profile string
	}
	NATS struct {
		URL     string
		Subject string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// a missing .env is fine; variables already set win
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.frontendurl", "http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "donations")
	v.SetDefault("mongo.collection", "users")
	v.SetDefault("sqlite.path", "data/donations.db")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.key", "donations:users")
	v.SetDefault("seed.path", "fixtures/users.json")
	v.SetDefault("seed.bucket", "")
	v.SetDefault("seed.key", "")
	v.SetDefault("seed.region", "us-east-1")
	v.SetDefault("seed.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "donations.activity")
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	switch cfg.Store.Driver {
	case DriverMongo, DriverSQLite, DriverRedis, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.Timeout <= 0 {
		return Config{}, fmt.Errorf("store timeout must be positive")
	}

	return cfg, nil
}
