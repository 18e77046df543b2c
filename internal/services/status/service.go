package status

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
)

// Target names one polled resource
type Target string

const (
	TargetHealth Target = "health"
	TargetStats  Target = "stats"
)

// Snapshot is what a status view renders: the last good payloads plus the latest poll error.
type Snapshot struct {
	Health      *models.HealthResponse
	HealthError error
	HealthAt    time.Time
	Stats       *models.SystemStatsResponse
	StatsError  error
	StatsAt     time.Time
}

// Monitor owns the health and stats pollers of one page.
// Failed polls keep the previous payload; the schedule continues.
type Monitor struct {
	backend interfaces.BackendService
	cache   interfaces.CacheService
	logger  arbor.ILogger
	pollers map[Target]*Poller

	mu       sync.Mutex
	snapshot Snapshot
	alive    func() bool
	onChange []func(Target, Snapshot)
}

// NewMonitor creates a stopped monitor polling the given targets. Known payloads are seeded from the cache.
func NewMonitor(backend interfaces.BackendService, c interfaces.CacheService, intervals map[Target]time.Duration, logger arbor.ILogger) *Monitor {
	m := &Monitor{
		backend: backend,
		cache:   c,
		logger:  logger,
		pollers: make(map[Target]*Poller),
		alive:   func() bool { return true },
	}

	if health, ok := cache.Peek[*models.HealthResponse](c, interfaces.CacheKeyHealth); ok {
		m.snapshot.Health = health
	}
	if stats, ok := cache.Peek[*models.SystemStatsResponse](c, interfaces.CacheKeyStats); ok {
		m.snapshot.Stats = stats
	}

	for target, interval := range intervals {
		switch target {
		case TargetHealth:
			m.pollers[target] = NewPoller("health", interval, m.pollHealth, logger)
		case TargetStats:
			m.pollers[target] = NewPoller("stats", interval, m.pollStats, logger)
		}
	}

	return m
}

// SetLiveness installs the check consulted before a poll result is applied
func (m *Monitor) SetLiveness(alive func() bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alive = alive
}

// OnChange registers a callback run after each applied poll, outside the monitor lock
func (m *Monitor) OnChange(fn func(Target, Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Start begins polling every target with an immediate first poll
func (m *Monitor) Start() {
	for _, p := range m.pollers {
		p.Start()
	}
}

// Stop halts all pollers; in-flight results are discarded
func (m *Monitor) Stop() {
	for _, p := range m.pollers {
		p.Stop()
	}
}

// Refresh triggers an immediate poll of target. Returns false when throttled, stopped or not polled.
func (m *Monitor) Refresh(target Target) bool {
	p, ok := m.pollers[target]
	if !ok {
		return false
	}
	return p.Trigger()
}

// Snapshot returns the current state
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// PollNow fetches target synchronously, bypassing the schedule (used by the CLI).
func (m *Monitor) PollNow(ctx context.Context, target Target) error {
	switch target {
	case TargetHealth:
		return m.pollHealth(ctx)
	case TargetStats:
		return m.pollStats(ctx)
	}
	return nil
}

// Polls go through the cache as forced fetches, so a result that started before a
// documents change is stored stale and never served as fresh.
func (m *Monitor) pollHealth(ctx context.Context) error {
	resp, err := cache.Fetch(ctx, m.cache, interfaces.CacheKeyHealth, true, m.backend.Health)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.apply(TargetHealth, func(s *Snapshot) {
		s.HealthError = err
		if err == nil {
			s.Health = resp
			s.HealthAt = time.Now()
		}
	})
	return err
}

func (m *Monitor) pollStats(ctx context.Context) error {
	resp, err := cache.Fetch(ctx, m.cache, interfaces.CacheKeyStats, true, m.backend.Stats)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.apply(TargetStats, func(s *Snapshot) {
		s.StatsError = err
		if err == nil {
			s.Stats = resp
			s.StatsAt = time.Now()
		}
	})
	return err
}

func (m *Monitor) apply(target Target, fn func(*Snapshot)) {
	m.mu.Lock()
	if !m.alive() {
		m.mu.Unlock()
		return
	}
	fn(&m.snapshot)
	snap := m.snapshot
	callbacks := append([]func(Target, Snapshot){}, m.onChange...)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(target, snap)
	}
}
