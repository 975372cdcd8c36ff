// Package telemetry tracks simulation tick timing and load.
package telemetry

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TickMonitor records per-tick cost and entity counts. Counters are atomic so
// the HUD can read them while the loop writes.
type TickMonitor struct {
	tickCount atomic.Uint64
	tickTime  atomic.Int64 // nanoseconds of the last tick
	totalTime atomic.Int64

	enemies     atomic.Int32
	projectiles atomic.Int32
	texts       atomic.Int32

	mutex     sync.RWMutex
	peakTime  time.Duration
	startTime time.Time

	budget time.Duration
}

// NewTickMonitor creates a monitor that flags ticks slower than budget.
func NewTickMonitor(budget time.Duration) *TickMonitor {
	return &TickMonitor{startTime: time.Now(), budget: budget}
}

// TickTimer measures a single tick.
type TickTimer struct {
	monitor   *TickMonitor
	startTime time.Time
}

// StartTick begins tick timing
func (m *TickMonitor) StartTick() *TickTimer {
	return &TickTimer{monitor: m, startTime: time.Now()}
}

// EndTick completes tick timing
func (t *TickTimer) EndTick() time.Duration {
	d := time.Since(t.startTime)
	t.monitor.Record(d)
	return d
}

// Record adds one tick of the given duration.
func (m *TickMonitor) Record(d time.Duration) {
	m.tickTime.Store(int64(d))
	m.totalTime.Add(int64(d))
	m.tickCount.Add(1)

	m.mutex.Lock()
	if d > m.peakTime {
		m.peakTime = d
	}
	m.mutex.Unlock()
}

// UpdateLoad stores the entity counts of the latest snapshot.
func (m *TickMonitor) UpdateLoad(enemies, projectiles, texts int) {
	m.enemies.Store(int32(enemies))
	m.projectiles.Store(int32(projectiles))
	m.texts.Store(int32(texts))
}

// Metrics is a point-in-time copy of the counters.
type Metrics struct {
	Ticks       uint64
	LastTick    time.Duration
	AverageTick time.Duration
	PeakTick    time.Duration
	Enemies     int
	Projectiles int
	Texts       int
	Uptime      time.Duration
}

// GetCurrentMetrics returns current metrics
func (m *TickMonitor) GetCurrentMetrics() Metrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	count := m.tickCount.Load()
	var avg time.Duration
	if count > 0 {
		avg = time.Duration(m.totalTime.Load() / int64(count))
	}
	return Metrics{
		Ticks:       count,
		LastTick:    time.Duration(m.tickTime.Load()),
		AverageTick: avg,
		PeakTick:    m.peakTime,
		Enemies:     int(m.enemies.Load()),
		Projectiles: int(m.projectiles.Load()),
		Texts:       int(m.texts.Load()),
		Uptime:      time.Since(m.startTime),
	}
}

// Alert represents a performance warning
type Alert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
}

// CheckAlerts returns warnings for slow ticks and memory pressure.
func (m *TickMonitor) CheckAlerts() []Alert {
	var alerts []Alert

	last := time.Duration(m.tickTime.Load())
	if m.budget > 0 && last > m.budget {
		alerts = append(alerts, Alert{
			Type:      "slow_tick",
			Message:   "Tick exceeded its time budget",
			Value:     float64(last) / float64(time.Millisecond),
			Threshold: float64(m.budget) / float64(time.Millisecond),
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > 500 {
		alerts = append(alerts, Alert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: 500,
		})
	}
	return alerts
}

// Report logs current alerts as warnings.
func (m *TickMonitor) Report(logger *zap.Logger) {
	for _, a := range m.CheckAlerts() {
		logger.Warn(a.Message,
			zap.String("alert", a.Type),
			zap.Float64("value", a.Value),
			zap.Float64("threshold", a.Threshold))
	}
}

// Reset resets all counters
func (m *TickMonitor) Reset() {
	m.tickCount.Store(0)
	m.tickTime.Store(0)
	m.totalTime.Store(0)
	m.enemies.Store(0)
	m.projectiles.Store(0)
	m.texts.Store(0)

	m.mutex.Lock()
	m.peakTime = 0
	m.startTime = time.Now()
	m.mutex.Unlock()
}
