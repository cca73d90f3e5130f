package jobs

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BackfillDelay    time.Duration `envconfig:"BACKFILL_DELAY" default:"5s"`
	CompactAfterDays int           `envconfig:"COMPACT_AFTER_DAYS" default:"8"`
	RetentionMonths  int           `envconfig:"RETENTION_MONTHS" default:"2"`
	// StoreLocation is the wall-clock zone of stored tick timestamps.
	StoreLocation string `envconfig:"STORE_LOCATION" default:"Europe/Berlin"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// Validate checks the retention settings and resolves the store location.
func (c Config) Validate() (*time.Location, error) {
	if c.CompactAfterDays < 1 {
		return nil, fmt.Errorf("COMPACT_AFTER_DAYS must be positive, got %d", c.CompactAfterDays)
	}
	if c.RetentionMonths < 1 {
		return nil, fmt.Errorf("RETENTION_MONTHS must be positive, got %d", c.RetentionMonths)
	}
	if c.BackfillDelay < 0 {
		return nil, fmt.Errorf("BACKFILL_DELAY must not be negative, got %s", c.BackfillDelay)
	}
	loc, err := time.LoadLocation(c.StoreLocation)
	if err != nil {
		return nil, fmt.Errorf("STORE_LOCATION %q: %w", c.StoreLocation, err)
	}
	return loc, nil
}
