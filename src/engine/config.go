package engine

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// AutoExecute fills every valid order at submission time. Turning it
	// off leaves orders resting in PENDING so they can be cancelled, which
	// also keeps the state machine honest for future deferred execution.
	AutoExecute bool `envconfig:"AUTO_EXECUTE_ORDERS" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
