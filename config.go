package keypath

import "log/slog"

// Config holds configuration options for a [Cache].
type Config struct {
	// Logger receives cache and compilation events at Debug level and
	// pattern warnings at Warn level.
	// If nil, logging is discarded.
	Logger *slog.Logger

	// LazySetter defers compiling the setter of an expression until its
	// first Set call. By default both getter and setter are compiled when
	// the expression is created, so Set never reports compile errors.
	LazySetter bool
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}
