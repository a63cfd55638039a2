// Package connectivity tracks whether the ritual server is reachable and
// notifies subscribers on online/offline edges.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/ritualapp/ritual-cli/internal/logger"
)

// ProbeFunc checks server reachability; nil means online. The API client's
// Ping is the production probe.
type ProbeFunc func(ctx context.Context) error

// Listener receives the state on subscription and once per edge after that.
type Listener func(online bool)

// Monitor holds the current online/offline state. State only changes are
// delivered: repeating the same state never re-notifies.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu        sync.Mutex
	online    bool
	forced    bool // forced offline ignores probe results
	listeners []Listener
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInitialState sets the state reported before the first probe completes.
func WithInitialState(online bool) Option {
	return func(m *Monitor) { m.online = online }
}

// ForcedOffline pins the monitor offline regardless of probe results, for
// an explicit offline mode.
func ForcedOffline() Option {
	return func(m *Monitor) {
		m.online = false
		m.forced = true
	}
}

func NewMonitor(probe ProbeFunc, interval time.Duration, opts ...Option) *Monitor {
	m := &Monitor{probe: probe, interval: interval}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Online returns the current state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a listener. The current state is delivered
// synchronously before Subscribe returns, so callers never wait for the
// first transition to learn where they stand.
func (m *Monitor) Subscribe(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	current := m.online
	m.mu.Unlock()
	l(current)
}

// SetOnline records an observed state. Only an actual edge notifies
// listeners.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.forced && online {
		m.mu.Unlock()
		return
	}
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	logger.Debug("Connectivity changed", "online", online)
	for _, l := range listeners {
		l(online)
	}
}

// Probe runs one reachability check and folds the result into the state.
func (m *Monitor) Probe(ctx context.Context) bool {
	if m.probe == nil {
		return m.Online()
	}
	err := m.probe(ctx)
	m.SetOnline(err == nil)
	return err == nil
}

// Run probes on an interval until the context is canceled. An immediate
// probe runs first so the state is fresh from the start.
func (m *Monitor) Run(ctx context.Context) {
	m.Probe(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}
