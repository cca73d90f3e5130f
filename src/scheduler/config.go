package scheduler

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// MarketTimezone is the exchange zone of the ingestion windows.
	MarketTimezone      string `envconfig:"MARKET_TIMEZONE" default:"America/New_York"`
	MaintenanceTimezone string `envconfig:"MAINTENANCE_TIMEZONE" default:"Europe/Berlin"`
	Enabled             bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

func (c Config) Validate() error {
	for name, zone := range map[string]string{
		"MARKET_TIMEZONE":      c.MarketTimezone,
		"MAINTENANCE_TIMEZONE": c.MaintenanceTimezone,
	} {
		if _, err := time.LoadLocation(zone); err != nil {
			return fmt.Errorf("%s %q: %w", name, zone, err)
		}
	}
	return nil
}
