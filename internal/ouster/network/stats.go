package network

import (
	"sync"
	"time"

	"github.com/banshee-data/ouster.report/internal/monitoring"
)

// PacketStats tracks packet throughput for periodic diagnostics.
type PacketStats struct {
	mu         sync.Mutex
	packets    int64
	bytes      int64
	dropped    int64
	lastReport time.Time
}

// AddPacket records one received packet of the given size.
func (s *PacketStats) AddPacket(n int) {
	s.mu.Lock()
	s.packets++
	s.bytes += int64(n)
	s.mu.Unlock()
}

// AddDropped records a packet that could not be processed.
func (s *PacketStats) AddDropped() {
	s.mu.Lock()
	s.dropped++
	s.mu.Unlock()
}

// MaybeLog emits a throughput line if at least interval has passed since the
// previous one.
func (s *PacketStats) MaybeLog(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.lastReport.IsZero() {
		s.lastReport = now
		return
	}
	elapsed := now.Sub(s.lastReport)
	if elapsed < interval {
		return
	}
	rate := float64(s.packets) / elapsed.Seconds()
	monitoring.Logf("packet stats: %d packets (%.1f/s), %d bytes, %d dropped",
		s.packets, rate, s.bytes, s.dropped)
	s.packets = 0
	s.bytes = 0
	s.dropped = 0
	s.lastReport = now
}

// Snapshot returns the counters accumulated since the last report.
func (s *PacketStats) Snapshot() (packets, bytes, dropped int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packets, s.bytes, s.dropped
}
