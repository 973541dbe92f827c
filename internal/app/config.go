package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenarioPath string // hcl files describing blueprints, datasets and outputs
	ModulesPath  string // module manifests (hcl) matching the compiled-in handlers

	LogFormat   string
	LogLevel    string
	WorkerCount int
	// Seed makes sampling generators reproducible. Zero means a
	// time-derived seed.
	Seed int64
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenarioPath == "" {
		return nil, errors.New("ScenarioPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("WorkerCount cannot be negative")
	}
	return &cfg, nil
}
