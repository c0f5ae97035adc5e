// Package publish delivers run outcomes to Socket.IO endpoints.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/run"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Payload is the event body sent for one outcome.
type Payload struct {
	Run          string   `json:"run"`
	Input        string   `json:"input"`
	Digest       string   `json:"digest"`
	Computations []string `json:"computations"`
	Numbers      int      `json:"numbers"`
	PartSum      string   `json:"part_sum"`
	GearRatioSum string   `json:"gear_ratio_sum"`
	ComputedAt   string   `json:"computed_at"`
}

// NewPayload flattens o into the wire payload. Sums are decimal strings
// because JSON numbers lose precision beyond 2^53 in most consumers.
func NewPayload(o *run.Outcome) Payload {
	comps := make([]string, len(o.Result.Computed))
	for i, c := range o.Result.Computed {
		comps[i] = string(c)
	}
	return Payload{
		Run:          o.Name,
		Input:        o.InputPath,
		Digest:       o.Digest,
		Computations: comps,
		Numbers:      o.Result.Numbers,
		PartSum:      strconv.FormatUint(o.Result.PartSum, 10),
		GearRatioSum: strconv.FormatUint(o.Result.GearRatioSum, 10),
		ComputedAt:   o.ComputedAt.UTC().Format(time.RFC3339Nano),
	}
}

// toMap renders p as the generic map the Socket.IO encoder serializes.
func (p Payload) toMap() map[string]any {
	return map[string]any{
		"run":            p.Run,
		"input":          p.Input,
		"digest":         p.Digest,
		"computations":   p.Computations,
		"numbers":        p.Numbers,
		"part_sum":       p.PartSum,
		"gear_ratio_sum": p.GearRatioSum,
		"computed_at":    p.ComputedAt,
	}
}

// SocketIO publishes to one configured endpoint. Each Publish opens its own
// connection over the WebSocket transport and closes it when done.
type SocketIO struct {
	cfg     *config.Publisher
	baseURL string
	path    string
}

// NewSocketIO validates cfg and returns a publisher for it.
func NewSocketIO(cfg *config.Publisher) (*SocketIO, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("publisher %q: failed to parse URL: %w", cfg.Name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("publisher %q: URL %q must be absolute", cfg.Name, cfg.URL)
	}
	if cfg.Event == "" {
		return nil, fmt.Errorf("publisher %q: event is required", cfg.Name)
	}
	return &SocketIO{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:    u.Path,
	}, nil
}

// Name returns the configured publisher name.
func (p *SocketIO) Name() string { return p.cfg.Name }

// Publish emits o. Without an ack event it returns once the event has been
// handed to the connected socket; with one it waits for the server to emit
// the ack event back. Either way it gives up after the configured timeout.
func (p *SocketIO) Publish(ctx context.Context, o *run.Outcome) error {
	logger := ctxlog.FromContext(ctx).With("publisher", p.cfg.Name, "url", p.cfg.URL, "event", p.cfg.Event)
	logger.Debug("Publish started.")
	defer logger.Debug("Publish finished.")

	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultPublishTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if p.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := p.cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	var connected atomic.Bool
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	payload := NewPayload(o).toMap()
	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Connected, emitting result", "namespace", namespace, "sid", io.Id())
		io.Emit(p.cfg.Event, payload)
		if p.cfg.AckEvent == "" {
			finish(nil)
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		finish(connectError(errs))
	})
	if p.cfg.AckEvent != "" {
		io.On(types.EventName(p.cfg.AckEvent), func(...any) {
			logger.Debug("Ack received", "ack_event", p.cfg.AckEvent)
			finish(nil)
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return fmt.Errorf("publisher %q: timed out after connecting while waiting for %q", p.cfg.Name, p.cfg.AckEvent)
		}
		return fmt.Errorf("publisher %q: timed out while waiting for initial connection", p.cfg.Name)
	case err := <-done:
		if err != nil {
			return fmt.Errorf("publisher %q: %w", p.cfg.Name, err)
		}
		return nil
	}
}

func connectError(errs []any) error {
	if len(errs) > 0 {
		if err, ok := errs[0].(error); ok {
			return err
		}
		return fmt.Errorf("connect error: %v", errs[0])
	}
	return errors.New("connect error")
}
