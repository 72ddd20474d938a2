package chain

import (
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/status"
)

// Session bundles one chain with its coordinator, event queue and metrics
type Session struct {
	Config   Config
	Events   *event.Queue
	Metrics  *status.Registry
	Chain    *Manager
	Crossing *Coordinator
}

// NewSession wires a manager and coordinator over a shared queue and registry
func NewSession(cfg Config) (*Session, error) {
	events := event.NewQueue(0)
	metrics := status.NewRegistry()

	m, err := NewManager(cfg, events, metrics)
	if err != nil {
		return nil, err
	}
	cfg.Seed = m.Seed()

	return &Session{
		Config:   cfg,
		Events:   events,
		Metrics:  metrics,
		Chain:    m,
		Crossing: NewCoordinator(m, events, metrics),
	}, nil
}

// Start places the player in segment 0
func (s *Session) Start() (Crossing, error) {
	return s.Crossing.Start()
}

// Restart returns a fresh, unstarted session seeded with the next seed
// Host callbacks are not carried over
func (s *Session) Restart() (*Session, error) {
	cfg := s.Config
	cfg.Seed++
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return NewSession(cfg)
}
