package wasmhost

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector records host function calls.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordCall is called after each host function call. err is the
	// error the call trapped with, or nil.
	RecordCall(fn string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCall(string, time.Duration, error) {}

type callCounters struct {
	calls      atomic.Int64
	traps      atomic.Int64
	totalNanos atomic.Int64
}

// BasicMetricsCollector keeps per-function counters in memory.
// It is safe for concurrent use.
type BasicMetricsCollector struct {
	mu  sync.RWMutex
	fns map[string]*callCounters
}

// NewBasicMetricsCollector returns an empty collector.
func NewBasicMetricsCollector() *BasicMetricsCollector {
	return &BasicMetricsCollector{fns: make(map[string]*callCounters)}
}

func (b *BasicMetricsCollector) counters(fn string) *callCounters {
	b.mu.RLock()
	c, ok := b.fns[fn]
	b.mu.RUnlock()
	if ok {
		return c
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok = b.fns[fn]; !ok {
		c = &callCounters{}
		b.fns[fn] = c
	}
	return c
}

// RecordCall implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCall(fn string, duration time.Duration, err error) {
	c := b.counters(fn)
	c.calls.Add(1)
	c.totalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.traps.Add(1)
	}
}

// CallStats is a snapshot of the counters of one function.
type CallStats struct {
	Func     string
	Calls    int64
	Traps    int64
	AvgNanos int64
}

// GetStats returns a snapshot of every function called so far, sorted by
// name.
func (b *BasicMetricsCollector) GetStats() []CallStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := make([]CallStats, 0, len(b.fns))
	for fn, c := range b.fns {
		s := CallStats{
			Func:  fn,
			Calls: c.calls.Load(),
			Traps: c.traps.Load(),
		}
		if s.Calls > 0 {
			s.AvgNanos = c.totalNanos.Load() / s.Calls
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Func < stats[j].Func })
	return stats
}
