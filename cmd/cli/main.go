package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/schematic/internal/app"
	"github.com/vk/schematic/internal/cli"
	"github.com/vk/schematic/internal/envconfig"
	"github.com/vk/schematic/internal/hclconfig"
)

// main is the entrypoint for the schematic command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	defaults, err := envconfig.Load()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	appConfig, shouldExit, err := cli.Parse(args, outW, defaults)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, logW, appConfig, hclconfig.NewLoader()).Run(ctx)
}
