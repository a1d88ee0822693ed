package agent

import (
	"log/slog"

	"github.com/spetersoncode/webagent/retry"
)

// DefaultMaxTurns bounds a run when no turn budget is configured.
const DefaultMaxTurns = 50

// Option configures a Controller.
type Option func(*Controller)

// WithMaxTurns sets the turn budget. Values below 1 are ignored.
func WithMaxTurns(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxTurns = n
		}
	}
}

// WithLogger sets the structured logger receiving run events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryConfig sets the retry policy for LLM queries.
func WithRetryConfig(config retry.Config) Option {
	return func(c *Controller) {
		c.retryConfig = config
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.runID = id
		}
	}
}
