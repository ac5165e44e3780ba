package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ProbeTimeout bounds a single dependency probe.
const ProbeTimeout = 2 * time.Second

// Probe checks one dependency.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ProbeResult is the outcome of one probe. Err is nil when healthy.
type ProbeResult struct {
	Name string
	Err  error
}

// HealthMonitor periodically probes the store and the cache and logs
// transitions between healthy and unhealthy, so an unreachable cache shows
// up in the logs even when every request still succeeds from the store.
type HealthMonitor struct {
	Probes   []Probe
	Logger   *slog.Logger
	Interval time.Duration

	mu   sync.Mutex
	last map[string]bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHealthMonitor returns a monitor for probes. A non-positive interval
// defaults to 30 seconds.
func NewHealthMonitor(logger *slog.Logger, interval time.Duration, probes ...Probe) *HealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &HealthMonitor{
		Probes:   probes,
		Logger:   logger,
		Interval: interval,
		last:     make(map[string]bool, len(probes)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop to end it.
func (m *HealthMonitor) Start() {
	go m.run()
	m.Logger.Info("health monitor started", "interval", m.Interval, "probes", len(m.Probes))
}

// Stop ends the loop and waits for an in-flight round to finish.
func (m *HealthMonitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
	m.Logger.Info("health monitor stopped")
}

func (m *HealthMonitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	m.round()

	for {
		select {
		case <-ticker.C:
			m.round()
		case <-m.stopCh:
			return
		}
	}
}

func (m *HealthMonitor) round() {
	for _, r := range m.Check(context.Background()) {
		m.record(r)
	}
}

// Check runs every probe once, each under ProbeTimeout.
func (m *HealthMonitor) Check(ctx context.Context) []ProbeResult {
	out := make([]ProbeResult, 0, len(m.Probes))
	for _, p := range m.Probes {
		pctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		err := p.Check(pctx)
		cancel()
		out = append(out, ProbeResult{Name: p.Name, Err: err})
	}
	return out
}

func (m *HealthMonitor) record(r ProbeResult) {
	m.mu.Lock()
	healthy := r.Err == nil
	prev, seen := m.last[r.Name]
	m.last[r.Name] = healthy
	m.mu.Unlock()

	switch {
	case !healthy && (!seen || prev):
		m.Logger.Warn("dependency unhealthy", "probe", r.Name, "error", r.Err)
	case healthy && seen && !prev:
		m.Logger.Info("dependency recovered", "probe", r.Name)
	case !healthy:
		m.Logger.Debug("dependency still unhealthy", "probe", r.Name, "error", r.Err)
	}
}
