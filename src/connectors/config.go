package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	MarketAPIKey     string `envconfig:"MARKET_API_KEY"`
	MarketAPIBaseURL string `envconfig:"MARKET_API_BASE_URL" default:"https://prediction-market-api.jup.ag/api/v1"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
