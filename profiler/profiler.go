package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Tracker collects timing and byte-volume statistics per named operation.
//
// A Tracker is safe for concurrent use. Batch workers share one Tracker
// and report every item into it.
type Tracker struct {
	mu         sync.RWMutex
	startTime  time.Time
	maxSamples int
	operations map[string]*TimeTracker
}

// TimeTracker tracks timing statistics for one operation.
type TimeTracker struct {
	name      string
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
	failures  int64
	bytesIn   uint64
	bytesOut  uint64
}

// OperationStats is a point-in-time copy of one operation's statistics.
type OperationStats struct {
	Name     string        `json:"name"`
	Count    int64         `json:"count"`
	Failures int64         `json:"failures"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Avg      time.Duration `json:"avg"`
	Total    time.Duration `json:"total"`
	BytesIn  uint64        `json:"bytes_in"`
	BytesOut uint64        `json:"bytes_out"`
}

// Ratio returns BytesOut/BytesIn, or 0 when nothing was read.
func (s OperationStats) Ratio() float64 {
	if s.BytesIn == 0 {
		return 0
	}
	return float64(s.BytesOut) / float64(s.BytesIn)
}

// NewTracker creates a tracker.
//
// Arguments:
// - maxSamples: How many recent durations to keep per operation for the
// average. 0 means 600.
//
// Returns:
// - A ready Tracker.
func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = 600
	}
	return &Tracker{
		startTime:  time.Now(),
		maxSamples: maxSamples,
		operations: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (t *Tracker) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		t.Record(name, time.Since(start))
	}
}

// Record adds one completed operation of the given duration.
func (t *Tracker) Record(name string, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker := t.tracker(name)
	if tracker.count == 0 {
		tracker.minTime = duration
		tracker.maxTime = duration
	}
	tracker.durations = append(tracker.durations, duration)
	if len(tracker.durations) > t.maxSamples {
		// Remove oldest sample
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// RecordFailure counts a failed attempt of an operation.
func (t *Tracker) RecordFailure(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracker(name).failures++
}

// AddBytes adds input and output volume to an operation.
func (t *Tracker) AddBytes(name string, in, out int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker := t.tracker(name)
	tracker.bytesIn += uint64(max(in, 0))
	tracker.bytesOut += uint64(max(out, 0))
}

// tracker returns the entry for name, creating it on first use. Callers hold
// the write lock.
func (t *Tracker) tracker(name string) *TimeTracker {
	tracker, exists := t.operations[name]
	if !exists {
		tracker = &TimeTracker{name: name}
		t.operations[name] = tracker
	}
	return tracker
}

// Stats returns a snapshot of one operation.
func (t *Tracker) Stats(name string) (OperationStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tracker, ok := t.operations[name]
	if !ok {
		return OperationStats{}, false
	}
	return tracker.snapshot(), true
}

// Snapshot returns every operation's statistics sorted by name.
func (t *Tracker) Snapshot() []OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make([]OperationStats, 0, len(t.operations))
	for _, tracker := range t.operations {
		stats = append(stats, tracker.snapshot())
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Name < stats[j].Name
	})
	return stats
}

func (tt *TimeTracker) snapshot() OperationStats {
	s := OperationStats{
		Name:     tt.name,
		Count:    tt.count,
		Failures: tt.failures,
		Min:      tt.minTime,
		Max:      tt.maxTime,
		Total:    tt.totalTime,
		BytesIn:  tt.bytesIn,
		BytesOut: tt.bytesOut,
	}
	if n := len(tt.durations); n > 0 {
		s.Avg = tt.totalTime / time.Duration(n)
	}
	return s
}

// WriteReport prints a human-readable summary of all operations to w.
func (t *Tracker) WriteReport(w io.Writer) error {
	uptime := time.Since(t.startTime).Truncate(time.Millisecond)
	if _, err := fmt.Fprintf(w, "OPERATION REPORT (uptime %v)\n", uptime); err != nil {
		return err
	}

	for _, s := range t.Snapshot() {
		_, err := fmt.Fprintf(w, "  %s: count=%s failures=%d avg=%v min=%v max=%v in=%s out=%s\n",
			s.Name,
			humanize.Comma(s.Count),
			s.Failures,
			s.Avg.Truncate(time.Microsecond),
			s.Min.Truncate(time.Microsecond),
			s.Max.Truncate(time.Microsecond),
			humanize.Bytes(s.BytesIn),
			humanize.Bytes(s.BytesOut),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LogReport writes one Info entry per operation.
func (t *Tracker) LogReport(logger *zap.Logger) {
	for _, s := range t.Snapshot() {
		logger.Info("operation stats",
			zap.String("operation", s.Name),
			zap.Int64("count", s.Count),
			zap.Int64("failures", s.Failures),
			zap.Duration("avg", s.Avg),
			zap.Duration("max", s.Max),
			zap.String("bytes_in", humanize.Bytes(s.BytesIn)),
			zap.String("bytes_out", humanize.Bytes(s.BytesOut)),
		)
	}
}
