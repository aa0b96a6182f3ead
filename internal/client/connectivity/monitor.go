// Package connectivity watches server reachability so background sync can
// react to the device coming back online.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/goodnightlabs/goodnight/internal/logging"
)

// Pinger probes the remote. An error means unreachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the remote and publishes an event on each offline-to-online
// transition. It is edge triggered: staying online produces no events, so a
// consumer that drains the channel sees at most one event per outage.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	logger   logging.Logger

	mu        sync.RWMutex
	reachable bool

	events chan struct{}
}

// NewMonitor builds a monitor probing pinger every interval.
func NewMonitor(pinger Pinger, interval time.Duration, logger logging.Logger) *Monitor {
	return &Monitor{
		pinger:   pinger,
		interval: interval,
		logger:   logger,
		events:   make(chan struct{}, 1),
	}
}

// Events returns the restored-connectivity channel. Buffered with capacity 1;
// an event that arrives while one is already pending is coalesced.
func (m *Monitor) Events() <-chan struct{} {
	return m.events
}

// Reachable reports the result of the most recent probe.
func (m *Monitor) Reachable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reachable
}

// Run probes until ctx is cancelled. The first probe fires immediately so a
// device that starts online syncs without waiting a full interval.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	up := m.pinger.Ping(probeCtx) == nil

	m.mu.Lock()
	wasUp := m.reachable
	m.reachable = up
	m.mu.Unlock()

	if up == wasUp {
		return
	}

	if up {
		m.logger.Info(ctx, "connectivity restored")
		select {
		case m.events <- struct{}{}:
		default:
		}
	} else {
		m.logger.Info(ctx, "connectivity lost")
	}
}
