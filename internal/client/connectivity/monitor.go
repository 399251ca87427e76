// Package connectivity tracks whether the server is reachable.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// Pinger is satisfied by client.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 3 * time.Second

// Monitor pings the server on an interval and reports transitions.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	logger   logging.Logger

	mu       sync.RWMutex
	online   bool
	onChange []func(online bool)
}

func NewMonitor(p Pinger, interval time.Duration, l logging.Logger) *Monitor {
	return &Monitor{pinger: p, interval: interval, logger: l}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// OnChange registers fn for every online/offline transition. Callbacks run
// on the monitor goroutine.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Check pings once and updates the state.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := m.pinger.Ping(pctx)
	cancel()

	online := err == nil

	m.mu.Lock()
	changed := m.online != online
	m.online = online
	subs := append([]func(bool){}, m.onChange...)
	m.mu.Unlock()

	if changed {
		if online {
			m.logger.Info(ctx, "Switched to online mode")
		} else {
			m.logger.Info(ctx, "Switched to offline mode", "error", err)
		}
		for _, fn := range subs {
			fn(online)
		}
	}
	return online
}

// Run checks immediately, then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
