package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel           string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr           string        `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	JWTSecret          string        `yaml:"jwt-secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL           time.Duration `yaml:"token-ttl" env:"TOKEN_TTL" env-default:"72h"`
	SessionIdleTimeout time.Duration `yaml:"session-idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
	Otel               Otel          `yaml:"otel"`
}

type Otel struct {
	Enabled        bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint       string `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictactoe-bot"`
	ServiceVersion string `yaml:"service-version" env:"OTEL_SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads path when it exists and falls back to the environment otherwise.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
		return config, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}
	return config, nil
}

// MustLoad - load configuration or panic.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
