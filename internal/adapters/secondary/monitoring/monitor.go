// Package monitoring tracks runtime and usage figures for a running
// presentation server.
package monitoring

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"
)

const (
	// DefaultInterval is how often runtime figures are sampled
	DefaultInterval = 30 * time.Second

	maxHealthyMemory     = 500 << 20
	maxHealthyGoroutines = 1000
)

// Metrics is a point-in-time copy of what the monitor has seen
type Metrics struct {
	StartedAt time.Time
	SampledAt time.Time

	MemoryBytes int64
	HeapBytes   int64
	Goroutines  int
	GCCycles    uint32

	PageRenders   int64
	AverageRender time.Duration
	HTTPRequests  int64
	Connections   int64
	Navigations   int64
}

// Monitor records usage counters and periodically samples the runtime
type Monitor struct {
	mu       sync.RWMutex
	metrics  Metrics
	interval time.Duration

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewMonitor creates a monitor sampling every DefaultInterval
func NewMonitor() *Monitor {
	return NewMonitorEvery(DefaultInterval)
}

// NewMonitorEvery creates a monitor with a custom sampling interval
func NewMonitorEvery(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		metrics:  Metrics{StartedAt: time.Now()},
		interval: interval,
	}
	m.Sample()
	return m
}

// Start samples in the background until Stop or ctx is done. Starting a
// running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})

	go m.loop(ctx, m.stopCh)
}

// Stop ends background sampling
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

// IsRunning reports whether background sampling is active
func (m *Monitor) IsRunning() bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			m.Sample()
		}
	}
}

// Sample reads memory and goroutine figures now
func (m *Monitor) Sample() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.MemoryBytes = safeUint64ToInt64(mem.Alloc)
	m.metrics.HeapBytes = safeUint64ToInt64(mem.HeapAlloc)
	m.metrics.GCCycles = mem.NumGC
	m.metrics.Goroutines = runtime.NumGoroutine()
	m.metrics.SampledAt = time.Now()
}

// RecordRender records one page render
func (m *Monitor) RecordRender(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.PageRenders++
	if m.metrics.AverageRender == 0 {
		m.metrics.AverageRender = d
		return
	}
	// exponential moving average
	const alpha = 0.1
	m.metrics.AverageRender = time.Duration(float64(m.metrics.AverageRender)*(1-alpha) + float64(d)*alpha)
}

// RecordRequest counts an HTTP request
func (m *Monitor) RecordRequest() {
	m.mu.Lock()
	m.metrics.HTTPRequests++
	m.mu.Unlock()
}

// RecordConnection counts an accepted websocket connection
func (m *Monitor) RecordConnection() {
	m.mu.Lock()
	m.metrics.Connections++
	m.mu.Unlock()
}

// RecordNavigation counts an accepted navigation
func (m *Monitor) RecordNavigation() {
	m.mu.Lock()
	m.metrics.Navigations++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current metrics
func (m *Monitor) Snapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}

// Uptime returns the time since the monitor was created
func (m *Monitor) Uptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.metrics.StartedAt)
}

// IsHealthy applies coarse memory and goroutine limits to the last sample
func (m *Monitor) IsHealthy() bool {
	metrics := m.Snapshot()
	return metrics.MemoryBytes < maxHealthyMemory && metrics.Goroutines < maxHealthyGoroutines
}

// safeUint64ToInt64 caps val at math.MaxInt64
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}
