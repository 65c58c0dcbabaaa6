package watcher

import (
	"sync/atomic"
	"time"
)

// Stats counts watcher activity. Safe for concurrent use.
type Stats struct {
	seen      int64
	processed int64
	failed    int64
	skipped   int64
	totalTime int64
	minTime   int64
	maxTime   int64
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	Seen      int64         `json:"seen"`
	Processed int64         `json:"processed"`
	Failed    int64         `json:"failed"`
	Skipped   int64         `json:"skipped"`
	TotalTime time.Duration `json:"total_time_ns"`
	MinTime   time.Duration `json:"min_time_ns"`
	MaxTime   time.Duration `json:"max_time_ns"`
}

// AverageTime returns the mean processing time
func (s StatsSnapshot) AverageTime() time.Duration {
	if s.Processed == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Processed)
}

func newStats() *Stats {
	return &Stats{minTime: int64(^uint64(0) >> 1)}
}

func (s *Stats) recordSeen() {
	atomic.AddInt64(&s.seen, 1)
}

func (s *Stats) recordSkipped() {
	atomic.AddInt64(&s.skipped, 1)
}

// record records one handled file
func (s *Stats) record(d time.Duration, err error) {
	atomic.AddInt64(&s.processed, 1)
	if err != nil {
		atomic.AddInt64(&s.failed, 1)
	}

	nanos := d.Nanoseconds()
	atomic.AddInt64(&s.totalTime, nanos)

	for {
		current := atomic.LoadInt64(&s.minTime)
		if nanos >= current || atomic.CompareAndSwapInt64(&s.minTime, current, nanos) {
			break
		}
	}
	for {
		current := atomic.LoadInt64(&s.maxTime)
		if nanos <= current || atomic.CompareAndSwapInt64(&s.maxTime, current, nanos) {
			break
		}
	}
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Seen:      atomic.LoadInt64(&s.seen),
		Processed: atomic.LoadInt64(&s.processed),
		Failed:    atomic.LoadInt64(&s.failed),
		Skipped:   atomic.LoadInt64(&s.skipped),
		TotalTime: time.Duration(atomic.LoadInt64(&s.totalTime)),
		MaxTime:   time.Duration(atomic.LoadInt64(&s.maxTime)),
	}
	if snap.Processed > 0 {
		snap.MinTime = time.Duration(atomic.LoadInt64(&s.minTime))
	}
	return snap
}
