package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/ledger"
	"github.com/vk/schematic/internal/report"
	"github.com/vk/schematic/internal/run"
	"golang.org/x/sync/errgroup"
)

// Run resolves and performs every configured run, records and reports the
// outcomes, then publishes them. A publish failure does not hide the report;
// all publish errors are returned joined after it has been written.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loadModel(ctx)
	if err != nil {
		return err
	}
	if len(model.Runs) == 0 {
		return errors.New("no runs configured")
	}

	store, err := a.openLedger(ctx, model)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	publishers := make([]Publisher, 0, len(model.Publishers))
	for _, cfg := range model.Publishers {
		p, err := a.newPublisher(cfg)
		if err != nil {
			return fmt.Errorf("failed to configure publisher: %w", err)
		}
		publishers = append(publishers, p)
	}

	a.logger.Info("🚀 Starting runs...", "runs", len(model.Runs), "workers", a.config.Workers)
	outcomes, err := a.execute(ctx, model.Runs)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Runs finished.")

	if store != nil {
		for _, o := range outcomes {
			if err := a.record(ctx, store, o); err != nil {
				return err
			}
		}
	}

	if err := report.Write(a.outW, a.config.Output, outcomes); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	var publishErrs []error
	for _, p := range publishers {
		for _, o := range outcomes {
			if err := p.Publish(ctx, o); err != nil {
				a.logger.Error("Publish failed", "publisher", p.Name(), "run", o.Name, "error", err)
				publishErrs = append(publishErrs, err)
			}
		}
	}

	a.logger.Debug("App.Run method finished.")
	return errors.Join(publishErrs...)
}

// loadModel merges the run file model with the run implied by InputPath.
func (a *App) loadModel(ctx context.Context) (*config.Model, error) {
	model := &config.Model{}
	if a.config.ConfigPath != "" {
		loaded, err := a.loader.Load(ctx, a.config.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		model = loaded
		a.logger.Debug("Configuration loaded.", "runs", len(model.Runs), "publishers", len(model.Publishers))
	}

	if a.config.InputPath != "" {
		name := filepath.Base(a.config.InputPath)
		if model.Run(name) != nil {
			return nil, fmt.Errorf("input %s collides with a configured run named %q", a.config.InputPath, name)
		}
		model.Runs = append(model.Runs, &config.Run{
			Name:         name,
			Input:        a.config.InputPath,
			Computations: a.config.Computations,
		})
	}
	return model, nil
}

func (a *App) openLedger(ctx context.Context, model *config.Model) (*ledger.Store, error) {
	path := a.config.LedgerPath
	if path == "" && model.Ledger != nil {
		path = model.Ledger.Path
	}
	if path == "" {
		a.logger.Debug("Ledger disabled.")
		return nil, nil
	}

	store, err := ledger.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	a.logger.Debug("Ledger opened.", "path", path)
	return store, nil
}

// execute performs runs with at most Workers in flight. The first failure
// cancels the runs that have not started yet. Outcomes keep the run order.
func (a *App) execute(ctx context.Context, runs []*config.Run) ([]*run.Outcome, error) {
	outcomes := make([]*run.Outcome, len(runs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.config.Workers)
	for i, r := range runs {
		eg.Go(func() error {
			o, err := run.Execute(egCtx, r)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *App) record(ctx context.Context, store *ledger.Store, o *run.Outcome) error {
	logger := a.logger.With("run", o.Name)

	prev, err := store.Latest(ctx, o.Digest)
	switch {
	case err == nil:
		logger.Info("Input evaluated before.", "previous_run", prev.RunName, "previous_at", prev.ComputedAt,
			"previous_part_sum", prev.PartSum, "previous_gear_ratio_sum", prev.GearRatioSum)
	case !errors.Is(err, ledger.ErrNotFound):
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	id, err := store.Record(ctx, ledger.EntryFromOutcome(o))
	if err != nil {
		return fmt.Errorf("failed to record run %q: %w", o.Name, err)
	}
	logger.Debug("Outcome recorded.", "ledger_id", id)
	return nil
}
