package sampler

import (
	"time"

	"codeberg.org/tovald/powerlogd/internal/errors"
)

const (
	defaultInterval     = 10 * time.Second
	defaultDrainTimeout = 5 * time.Second
)

type Config struct {
	// Interval between ticks
	Interval time.Duration
	// DrainTimeout bounds the sink drain during shutdown
	DrainTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:     defaultInterval,
		DrainTimeout: defaultDrainTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.DrainTimeout <= 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "drain timeout must be positive")
	}

	return nil
}
