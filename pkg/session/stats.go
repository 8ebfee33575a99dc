package session

import (
	"sync/atomic"
	"time"
)

// Stats collects registry-wide counters. All fields use atomic
// operations, matching the teacher's pool statistics so Snapshot can be
// called from any goroutine without taking the registry's lock.
type Stats struct {
	registeredTotal atomic.Uint64
	removedTotal    atomic.Uint64
	currentCount    atomic.Int64
	peakCount       atomic.Int64
	createdAt       time.Time
}

func newStats() *Stats {
	return &Stats{createdAt: time.Now()}
}

func (s *Stats) recordRegistered(current int64) {
	s.registeredTotal.Add(1)
	s.currentCount.Store(current)
	s.updatePeak(current)
}

func (s *Stats) recordRemoved(current int64) {
	s.removedTotal.Add(1)
	s.currentCount.Store(current)
}

func (s *Stats) updatePeak(current int64) {
	for {
		peak := s.peakCount.Load()
		if current <= peak {
			return
		}
		if s.peakCount.CompareAndSwap(peak, current) {
			return
		}
	}
}

// StatsSnapshot is an immutable snapshot of registry statistics.
type StatsSnapshot struct {
	Uptime          time.Duration
	CurrentCount    int64
	PeakCount       int64
	RegisteredTotal uint64
	RemovedTotal    uint64
}

// Snapshot returns an immutable snapshot of current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Uptime:          time.Since(s.createdAt),
		CurrentCount:    s.currentCount.Load(),
		PeakCount:       s.peakCount.Load(),
		RegisteredTotal: s.registeredTotal.Load(),
		RemovedTotal:    s.removedTotal.Load(),
	}
}
