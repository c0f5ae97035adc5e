// Package run executes a single configured run: it loads the input, builds
// the grid and evaluates the selected computations.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/schematic"
	"github.com/vk/schematic/internal/source"
)

// Outcome is the result of one run together with what produced it.
type Outcome struct {
	Name       string            `json:"name"`
	InputPath  string            `json:"input"`
	Digest     string            `json:"digest"`
	Rows       int               `json:"rows"`
	Result     *schematic.Result `json:"result"`
	ComputedAt time.Time         `json:"computed_at"`
}

// Execute performs r. Input loading failures keep their source.ErrIO kind.
func Execute(ctx context.Context, r *config.Run) (*Outcome, error) {
	ctx = ctxlog.With(ctx, "run", r.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Run started.", "input", r.Input, "computations", r.Computations)

	in, err := source.Load(ctx, r.Input)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", r.Name, err)
	}
	return Evaluate(ctx, r, in)
}

// Evaluate performs r against already-loaded input.
func Evaluate(ctx context.Context, r *config.Run, in *source.Input) (*Outcome, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	grid := schematic.Parse(in.Text)
	res, err := schematic.Evaluate(ctx, grid, r.Computations)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", r.Name, err)
	}
	for _, g := range res.Gears {
		logger.Debug("Gear found.", "row", g.Position.Row, "col", g.Position.Col, "ratio", g.Ratio)
	}

	logger.Info("Run finished.",
		"rows", grid.Height(),
		"numbers", res.Numbers,
		"part_sum", res.PartSum,
		"gear_ratio_sum", res.GearRatioSum,
		"duration", time.Since(start),
	)

	return &Outcome{
		Name:       r.Name,
		InputPath:  in.Path,
		Digest:     in.Digest,
		Rows:       grid.Height(),
		Result:     res,
		ComputedAt: time.Now().UTC(),
	}, nil
}
