package config

import "context"

// Loader is implemented by format-specific configuration loaders.
type Loader interface {
	// Load reads every configuration file found under paths and merges them
	// into a single Model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
