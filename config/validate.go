package config

import (
	"github.com/LdDl/coin-counter/logger"
	"github.com/pkg/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Detection.Threshold < 0 || c.Detection.Threshold > 255 {
		return errors.Errorf("detection.threshold must be in [0, 255], got %d", c.Detection.Threshold)
	}
	if c.Exclusion.Capacity <= 0 {
		return errors.Errorf("exclusion.capacity must be > 0, got %d", c.Exclusion.Capacity)
	}
	if c.Exclusion.Radius <= 0 {
		return errors.Errorf("exclusion.radius must be > 0, got %d", c.Exclusion.Radius)
	}
	// Zero disables summaries
	if c.Detection.SummaryEvery < 0 {
		return errors.Errorf("detection.summary_every must be >= 0, got %d", c.Detection.SummaryEvery)
	}
	if c.Detection.ReleaseBand.Enabled && c.Detection.ReleaseBand.MaxY < c.Detection.ReleaseBand.MinY {
		return errors.Errorf("detection.release_band is empty: [%d, %d]", c.Detection.ReleaseBand.MinY, c.Detection.ReleaseBand.MaxY)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	cfg := c.CoinsConfig()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "Can't validate detection config")
	}
	return nil
}
