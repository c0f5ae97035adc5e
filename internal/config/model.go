package config

import (
	"time"

	"github.com/vk/schematic/internal/schematic"
)

// DefaultPublishTimeout bounds a publisher that sets no timeout of its own.
const DefaultPublishTimeout = 10 * time.Second

// Model is the merged configuration of one invocation.
type Model struct {
	Runs       []*Run
	Publishers []*Publisher
	Ledger     *Ledger // nil when results are not recorded
}

// Run evaluates one schematic input.
type Run struct {
	Name         string
	Input        string
	Computations []schematic.Computation
}

// Publisher is a Socket.IO endpoint that receives every result.
type Publisher struct {
	Name               string
	URL                string
	Namespace          string
	Event              string
	AckEvent           string // when set, wait for the server to emit it back
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Ledger locates the SQLite run history.
type Ledger struct {
	Path string
}

// Run returns the run with the given name, or nil.
func (m *Model) Run(name string) *Run {
	for _, r := range m.Runs {
		if r.Name == name {
			return r
		}
	}
	return nil
}
