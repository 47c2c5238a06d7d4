package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Addr      string        `env:"ADDR" envDefault:":8080"`
	DSN       string        `env:"DB_DSN,required"`
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
