package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	QuoteCommand     string        `envconfig:"QUOTE_COMMAND" default:"python3"`
	QuoteCurrentArgs string        `envconfig:"QUOTE_CURRENT_ARGS" default:"./python_scripts/yFinance_data_search.py"`
	QuoteHistoryArgs string        `envconfig:"QUOTE_HISTORY_ARGS" default:"./python_scripts/yFinance_old_data_search.py"`
	QuoteTimeout     time.Duration `envconfig:"QUOTE_TIMEOUT" default:"2m"`

	ExecutionBaseURL string        `envconfig:"EXECUTION_BASE_URL" default:"http://localhost:8080"`
	ExecutionSecret  string        `envconfig:"EXECUTION_SECRET"`
	SeasonCode       string        `envconfig:"SEASON_CODE" default:"1234-swift"`
	ExecutionTimeout time.Duration `envconfig:"EXECUTION_TIMEOUT" default:"15s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
