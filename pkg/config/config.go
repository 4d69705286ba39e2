// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsing is returned when the environment cannot be parsed into
	// the config struct.
	ErrParsing = errors.New("config: failed to parse environment")

	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil pointer provided")
)

var dotenvOnce sync.Once

// Load populates cfg from environment variables based on `env` field tags.
// The first call loads a .env file if one exists; a missing file is fine.
//
//	type MongoConfig struct {
//	    URL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg MongoConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if cfg == nil {
		return ErrNilPointer
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. Use for configuration without
// which the process cannot start.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}
