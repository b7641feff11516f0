package pool

import (
	"errors"

	"github.com/martopia/genpool/internal/queue"
)

// New constructs a Pool bounded to capacity live objects, built by
// factory. It selects the expiring variant when WithMaxIdleTime is given
// a positive duration, and the simple variant otherwise — the only
// axis that distinguishes the two pool shapes the rest of this package
// implements.
func New[A any](capacity int, factory Factory[A], opts ...Option[A]) (*Pool[A], error) {
	if capacity <= 0 {
		return nil, errors.New("pool: capacity must be positive")
	}
	if factory == nil {
		return nil, errors.New("pool: factory must not be nil")
	}

	cfg := defaultConfig[A]()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool[A]{
		capacity: capacity,
		factory:  factory,
		cfg:      cfg,
		items:    queue.New[item[A]](capacity),
		live:     newLiveCounter(capacity),
	}

	if cfg.maxIdleTime > 0 {
		p.expiry = newExpiryManager(p, cfg.maxIdleTime)
	}

	return p, nil
}
