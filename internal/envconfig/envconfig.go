// Package envconfig reads the SCHEMATIC_* environment variables that seed
// the command-line defaults.
package envconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "SCHEMATIC_"

// Defaults are the environment-provided fallbacks for CLI flags.
type Defaults struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
	Output     string `env:"OUTPUT" envDefault:"text"`
	Workers    int    `env:"WORKERS" envDefault:"4"`
	LedgerPath string `env:"LEDGER_PATH"`
}

// Load parses Defaults from the process environment.
func Load() (Defaults, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses Defaults from the given variables instead of the process
// environment. Keys include the prefix.
func LoadFrom(vars map[string]string) (Defaults, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Defaults, error) {
	var d Defaults
	if err := env.ParseWithOptions(&d, opts); err != nil {
		return Defaults{}, fmt.Errorf("parse env: %w", err)
	}
	return d, nil
}
