// Package instrumentation is the simulator's performance monitor: named
// timers, counters, bandwidth tracking, cache hit-rate accounting, and
// frame metrics, with a threshold-based alerting layer and a report
// generator on top. Grounded on
// original_source/src/performance_monitor.cpp, translated into Go's
// synchronous, no-hidden-state idiom.
package instrumentation

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"gpucoresim/internal/glog"
)

// MaxHistorySize bounds every rolling history this recorder keeps, per
// the source's max_history_size_ default.
const MaxHistorySize = 1000

// Recorder accumulates simulator performance data. Not goroutine-safe;
// callers needing concurrent access must serialize it themselves.
type Recorder struct {
	startTimes    map[string]time.Time
	timingHistory map[string][]float64

	counters map[string]uint64

	bandwidthBytes      map[string]uint64
	bandwidthStartTimes map[string]time.Time

	cacheHits   map[string]uint64
	cacheMisses map[string]uint64

	frameTimes     []float64
	triangleCounts []uint64
	fragmentCounts []uint64

	thresholds map[string]float64

	maxHistorySize int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		startTimes:          make(map[string]time.Time),
		timingHistory:       make(map[string][]float64),
		counters:            make(map[string]uint64),
		bandwidthBytes:      make(map[string]uint64),
		bandwidthStartTimes: make(map[string]time.Time),
		cacheHits:           make(map[string]uint64),
		cacheMisses:         make(map[string]uint64),
		thresholds:          make(map[string]float64),
		maxHistorySize:      MaxHistorySize,
	}
}

// StartTimer marks the start of a named timing event. A second
// StartTimer for the same name before EndTimer overwrites the first,
// matching the source's map-assignment semantics.
func (r *Recorder) StartTimer(event string) {
	r.startTimes[event] = time.Now()
}

// EndTimer closes a named timing event and appends its duration (in
// milliseconds) to that event's bounded history. A call with no
// matching StartTimer is silently ignored.
func (r *Recorder) EndTimer(event string) {
	start, ok := r.startTimes[event]
	if !ok {
		return
	}
	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)
	r.pushHistory(event, elapsedMs)
	delete(r.startTimes, event)
}

func (r *Recorder) pushHistory(event string, ms float64) {
	h := r.timingHistory[event]
	if len(h) >= r.maxHistorySize {
		h = h[1:]
	}
	r.timingHistory[event] = append(h, ms)
}

// GetElapsedTimeMs returns the average recorded duration for event, or
// 0 if the event has no history.
func (r *Recorder) GetElapsedTimeMs(event string) float64 {
	h := r.timingHistory[event]
	if len(h) == 0 {
		return 0
	}
	return stat.Mean(h, nil)
}

// IncrementCounter adds delta to counter, creating it at delta if
// absent.
func (r *Recorder) IncrementCounter(counter string, delta uint64) {
	r.counters[counter] += delta
}

// SetCounter overwrites counter's value.
func (r *Recorder) SetCounter(counter string, value uint64) {
	r.counters[counter] = value
}

// GetCounter returns counter's current value, or 0 if never set.
func (r *Recorder) GetCounter(counter string) uint64 {
	return r.counters[counter]
}

// RecordBandwidthUsage adds bytes to component's running total. The
// first call for a component starts its bandwidth measurement window;
// calculateBandwidthMbps divides by wall-clock time since that call.
func (r *Recorder) RecordBandwidthUsage(component string, bytes uint64) {
	if _, ok := r.bandwidthStartTimes[component]; !ok {
		r.bandwidthStartTimes[component] = time.Now()
	}
	r.bandwidthBytes[component] += bytes
}

// RecordCacheAccess tallies a hit or miss for the named cache.
func (r *Recorder) RecordCacheAccess(cache string, hit bool) {
	if hit {
		r.cacheHits[cache]++
	} else {
		r.cacheMisses[cache]++
	}
}

// RegisterCache pre-declares a cache name with zero hits and misses.
// A cache with no recorded accesses is still left out of reports and
// hit_rate alerts (its hit rate is undefined); it appears once its
// first hit or miss is recorded.
func (r *Recorder) RegisterCache(name string) {
	if _, ok := r.cacheHits[name]; !ok {
		r.cacheHits[name] = 0
	}
	if _, ok := r.cacheMisses[name]; !ok {
		r.cacheMisses[name] = 0
	}
}

// RecordFrameMetrics appends one frame's timing and workload size to
// the bounded frame history.
func (r *Recorder) RecordFrameMetrics(frameTimeMs float64, triangles, fragments uint64) {
	if len(r.frameTimes) >= r.maxHistorySize {
		r.frameTimes = r.frameTimes[1:]
		r.triangleCounts = r.triangleCounts[1:]
		r.fragmentCounts = r.fragmentCounts[1:]
	}
	r.frameTimes = append(r.frameTimes, frameTimeMs)
	r.triangleCounts = append(r.triangleCounts, triangles)
	r.fragmentCounts = append(r.fragmentCounts, fragments)
}

// ResetAllMetrics clears every timer, counter, cache tally, frame
// history and threshold, returning the Recorder to its zero state.
func (r *Recorder) ResetAllMetrics() {
	glog.DebugPrint("instrumentation: resetting all metrics")
	*r = *NewRecorder()
}
