// ABOUTME: Request counters for the server
// ABOUTME: Lock-free totals reported by the TUI and debug logs
package server

import (
	"sync/atomic"
	"time"
)

// Stats counts processed uploads. It never influences request handling.
type Stats struct {
	requests    atomic.Int64
	succeeded   atomic.Int64
	failed      atomic.Int64
	bytesIn     atomic.Int64
	lastLatency atomic.Int64 // nanoseconds
	lastError   atomic.Pointer[string]
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	Requests    int64
	Succeeded   int64
	Failed      int64
	BytesIn     int64
	LastLatency time.Duration
	LastError   string
}

// Record adds one finished upload
func (s *Stats) Record(bytesIn int, latency time.Duration, err error) {
	s.requests.Add(1)
	s.bytesIn.Add(int64(bytesIn))
	s.lastLatency.Store(int64(latency))

	if err != nil {
		s.failed.Add(1)
		msg := err.Error()
		s.lastError.Store(&msg)
		return
	}
	s.succeeded.Add(1)
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Requests:    s.requests.Load(),
		Succeeded:   s.succeeded.Load(),
		Failed:      s.failed.Load(),
		BytesIn:     s.bytesIn.Load(),
		LastLatency: time.Duration(s.lastLatency.Load()),
	}
	if msg := s.lastError.Load(); msg != nil {
		snap.LastError = *msg
	}
	return snap
}
