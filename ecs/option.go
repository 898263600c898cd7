package ecs

import "github.com/rs/zerolog"

// Option configures a World at construction.
type Option func(*World)

// WithConfig replaces the World's configuration wholesale.
func WithConfig(cfg Config) Option {
	return func(w *World) {
		w.cfg = cfg
	}
}

// WithMaxEntities sets how many entities may be alive at once. It also bounds
// every component store and interest group.
func WithMaxEntities(n uint32) Option {
	return func(w *World) {
		w.cfg.MaxEntities = n
	}
}

// WithStrictRegistration makes generic component access fail with
// ErrComponentNotRegistered for types that were not registered up front.
func WithStrictRegistration() Option {
	return func(w *World) {
		w.cfg.StrictRegistration = true
	}
}

// WithLogger sets the logger registration and refresh events are written to.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}
