package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// parseEnv overlays environment variables onto the Config. Variable names
// come from the struct's env tags; unset variables leave the current values
// untouched.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("error parsing env config: %w", err)
	}
	return nil
}
