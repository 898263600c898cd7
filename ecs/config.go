package ecs

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// DefaultMaxEntities is the entity capacity of a World built without options.
const DefaultMaxEntities = 5000

// Config holds the sizing and registration policy of a World.
type Config struct {
	MaxEntities        uint32 `config:"ECS_MAX_ENTITIES"`
	StrictRegistration bool   `config:"ECS_STRICT_REGISTRATION"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{MaxEntities: DefaultMaxEntities}
}

// LoadConfig reads ECS_MAX_ENTITIES and ECS_STRICT_REGISTRATION from the
// environment on top of DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "loading ecs config from environment")
	}
	if cfg.MaxEntities == 0 {
		cfg.MaxEntities = DefaultMaxEntities
	}
	return cfg, nil
}
