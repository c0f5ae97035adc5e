package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/schematic/internal/app"
	"github.com/vk/schematic/internal/envconfig"
	"github.com/vk/schematic/internal/schematic"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments on top of the environment defaults.
// It returns the application config, whether the program should exit cleanly
// (help was requested or nothing to do), or an *ExitError.
func Parse(args []string, output io.Writer, defaults envconfig.Defaults) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("schematic", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
schematic - sums part numbers and gear ratios of an engine schematic.

Usage:
  schematic [options] [INPUT_PATH]
  schematic [options] -config RUN_FILE

Arguments:
  INPUT_PATH
    Path to a schematic text file, one grid row per line.

Environment:
  SCHEMATIC_LOG_LEVEL, SCHEMATIC_LOG_FORMAT, SCHEMATIC_OUTPUT,
  SCHEMATIC_WORKERS, SCHEMATIC_LEDGER_PATH provide the option defaults.

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Path to the schematic file.")
	iFlag := flagSet.String("i", "", "Path to the schematic file (shorthand).")
	configFlag := flagSet.String("config", "", "Path to an HCL run file or a directory of run files.")
	cFlag := flagSet.String("c", "", "Path to an HCL run file or directory (shorthand).")
	partFlag := flagSet.String("part", "all", "Computations for INPUT_PATH: 'part1', 'part2', 'all', or a comma list of part_sum,gear_ratio_sum.")
	outputFlag := flagSet.String("output", defaults.Output, "Report format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", defaults.Workers, "Maximum number of runs evaluated concurrently.")
	ledgerFlag := flagSet.String("ledger", defaults.LedgerPath, "Path to the SQLite run history. Empty disables it unless a run file declares one.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	input := firstNonEmpty(*inputFlag, *iFlag)
	if input == "" && flagSet.NArg() > 0 {
		input = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one INPUT_PATH, got %d", flagSet.NArg())
	}
	configPath := firstNonEmpty(*configFlag, *cFlag)
	slog.Debug("Paths determined.", "input", input, "config", configPath)

	if input == "" && configPath == "" {
		slog.Debug("No input or run file provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	comps, err := schematic.ParseComputations(strings.Split(*partFlag, ","))
	if err != nil {
		return nil, false, usageError("invalid part: %v", err)
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		InputPath:    input,
		ConfigPath:   configPath,
		Computations: comps,
		Output:       strings.ToLower(*outputFlag),
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Workers:      *workersFlag,
		LedgerPath:   *ledgerFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
