package app

import (
	"errors"
	"fmt"

	"github.com/vk/schematic/internal/report"
	"github.com/vk/schematic/internal/schematic"
)

// Config holds everything an App instance needs to run.
type Config struct {
	InputPath    string // single schematic file
	ConfigPath   string // hcl run file or directory
	Computations []schematic.Computation

	Output     string
	LogFormat  string
	LogLevel   string
	Workers    int
	LedgerPath string // overrides any ledger block; empty keeps it
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" && cfg.ConfigPath == "" {
		return nil, errors.New("an input path or a config path is required")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	switch cfg.Output {
	case "":
		cfg.Output = report.FormatText
	case report.FormatText, report.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid output %q: must be 'text' or 'json'", cfg.Output)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	format, err := parseLogFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	cfg.LogFormat = format
	if len(cfg.Computations) == 0 {
		cfg.Computations = schematic.AllComputations
	}
	return &cfg, nil
}
