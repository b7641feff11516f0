package pool

import (
	"time"

	"github.com/martopia/genpool/internal/refcell"
	"github.com/rs/zerolog"
)

// Retention selects whether the runtime may reclaim an idle pooled value
// ahead of the pool noticing it should be destroyed.
type Retention = refcell.Mode

const (
	// Strong pins every pooled value for as long as the pool holds it.
	Strong = refcell.Strong
	// Soft permits reclamation once the process looks to be under
	// memory pressure.
	Soft = refcell.Soft
	// Weak permits reclamation as soon as nothing else holds a strong
	// reference to the value.
	Weak = refcell.Weak
)

// Factory constructs a new pooled value. Errors propagate to the caller
// of acquire; the live counter's speculative reservation is rolled back
// first.
type Factory[A any] func() (A, error)

// config holds the resolved settings for a Pool, assembled by New from
// its defaults plus any Options.
type config[A any] struct {
	capacity    int
	retention   Retention
	maxIdleTime time.Duration // zero means no expiry (simple variant)
	reset       func(A)
	dispose     func(A)
	healthCheck func(A) bool
	logger      zerolog.Logger
	metrics     *Metrics
}

func defaultConfig[A any]() config[A] {
	return config[A]{
		retention:   Strong,
		reset:       func(A) {},
		dispose:     func(A) {},
		healthCheck: func(A) bool { return true },
		logger:      zerolog.Nop(),
	}
}

// Option customizes a Pool at construction time.
type Option[A any] func(*config[A])

// WithRetention sets the reference-cell retention mode for pooled values.
// The default is Strong.
func WithRetention[A any](r Retention) Option[A] {
	return func(c *config[A]) { c.retention = r }
}

// WithMaxIdleTime bounds how long an item may sit idle before it is
// evicted and disposed. A zero (or unset) duration means items never
// expire from idleness alone, selecting the simple pool variant; any
// positive duration selects the expiring variant.
func WithMaxIdleTime[A any](d time.Duration) Option[A] {
	return func(c *config[A]) { c.maxIdleTime = d }
}

// WithReset installs a callback run each time a value enters, or
// re-enters, the idle set.
func WithReset[A any](f func(A)) Option[A] {
	return func(c *config[A]) { c.reset = f }
}

// WithDispose installs a callback run exactly once per value when it
// leaves the pool permanently.
func WithDispose[A any](f func(A)) Option[A] {
	return func(c *config[A]) { c.dispose = f }
}

// WithHealthCheck installs a callback consulted on extraction from the
// idle queue; a false result disposes the value and continues the
// search rather than handing it to the caller.
func WithHealthCheck[A any](f func(A) bool) Option[A] {
	return func(c *config[A]) { c.healthCheck = f }
}

// WithLogger attaches structured logging to the pool's lifecycle events.
// The default is a no-op logger.
func WithLogger[A any](logger zerolog.Logger) Option[A] {
	return func(c *config[A]) { c.logger = logger }
}

// WithMetrics attaches a Metrics collector. The default is nil, meaning
// no metrics are collected.
func WithMetrics[A any](m *Metrics) Option[A] {
	return func(c *config[A]) { c.metrics = m }
}

// Stats is a point-in-time snapshot of a Pool's population.
type Stats struct {
	Size     int
	Live     int
	Leased   int
	Capacity int
}
