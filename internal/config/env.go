// Package config reads environment overrides. Flags beat env vars, env vars
// beat stored settings; the merge happens in main.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Env holds the environment-variable overrides ritual understands. A .env
// file in the working directory is honored when present.
type Env struct {
	// ServerURL overrides the stored server base URL.
	ServerURL string `env:"RITUAL_SERVER_URL"`
	// APIToken bypasses the OS keyring, for headless machines and CI.
	APIToken string `env:"RITUAL_API_TOKEN"`
	// DB overrides the database path or connection string.
	DB string `env:"RITUAL_DB"`
	// Offline pins the connectivity monitor offline regardless of probes.
	Offline bool `env:"RITUAL_OFFLINE" envDefault:"false"`
	Debug   bool `env:"RITUAL_DEBUG" envDefault:"false"`
}

// Load parses the environment, after best-effort loading a local .env file.
func Load() (Env, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return e, nil
}
