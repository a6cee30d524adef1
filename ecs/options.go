package ecs

import "github.com/rs/zerolog"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for lifecycle debug output and invariant
// violations. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// WithEntityCapacity sizes the entity index up front.
func WithEntityCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.entityCapacity = n
		}
	}
}

// WithComponentCapacity sizes the value pool and each per-type index up front.
func WithComponentCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.componentCapacity = n
		}
	}
}
