package notes

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the save and refresh period.
const DefaultInterval = 2 * time.Second

// Option is a functional option for configuring a Controller.
type Option func(*Controller)

// WithInterval sets the polling interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock sets the clock driving timestamps and the ticker.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger used for tick failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
