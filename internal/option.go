package internal

import "time"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config        *Config
	statsThrottle time.Duration
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStatsThrottle overrides the minimum interval between broadcast
// statistics.updated events. Zero keeps the default.
func WithStatsThrottle(d time.Duration) Option {
	return func(a *application) {
		a.statsThrottle = d
	}
}
