package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/publish"
	"github.com/vk/schematic/internal/run"
)

// Publisher delivers an outcome to an external consumer.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, o *run.Outcome) error
}

// PublisherFactory builds a Publisher from its configuration.
type PublisherFactory func(cfg *config.Publisher) (Publisher, error)

func newSocketIOPublisher(cfg *config.Publisher) (Publisher, error) {
	return publish.NewSocketIO(cfg)
}

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	loader       config.Loader
	newPublisher PublisherFactory
}

// Option customizes an App.
type Option func(*App)

// WithPublisherFactory replaces the Socket.IO publisher factory.
func WithPublisherFactory(f PublisherFactory) Option {
	return func(a *App) { a.newPublisher = f }
}

// NewApp creates an App that writes reports to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		loader:       loader,
		newPublisher: newSocketIOPublisher,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
