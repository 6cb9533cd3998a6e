package instrumentation

import (
	"fmt"
	"strings"
)

// SetPerformanceThreshold registers or overwrites the alert threshold
// for metric. Two metric shapes are understood by
// CheckPerformanceAlerts: the literal "frame_time_ms", and any name
// ending in "_hit_rate" (the prefix names the cache).
func (r *Recorder) SetPerformanceThreshold(metric string, threshold float64) {
	r.thresholds[metric] = threshold
}

// CheckPerformanceAlerts evaluates every registered threshold against
// current state and returns one message per violation, matching
// check_performance_alerts in the source: frame_time_ms fires when the
// most recent frame exceeds its threshold, "<cache>_hit_rate" fires
// when that cache's hit rate falls below its threshold.
func (r *Recorder) CheckPerformanceAlerts() []string {
	var alerts []string

	for metric, threshold := range r.thresholds {
		switch {
		case metric == "frame_time_ms":
			if len(r.frameTimes) == 0 {
				continue
			}
			current := r.frameTimes[len(r.frameTimes)-1]
			if current > threshold {
				alerts = append(alerts, fmt.Sprintf(
					"Frame time exceeded threshold: %.3f ms > %.3f ms", current, threshold))
			}

		case strings.HasSuffix(metric, "_hit_rate"):
			cacheName := strings.TrimSuffix(metric, "_hit_rate")
			hits := r.cacheHits[cacheName]
			misses := r.cacheMisses[cacheName]
			total := hits + misses
			if total == 0 {
				continue
			}
			hitRate := float64(hits) / float64(total)
			if hitRate < threshold {
				alerts = append(alerts, fmt.Sprintf(
					"%s hit rate below threshold: %.3f%% < %.3f%%",
					cacheName, hitRate*100.0, threshold*100.0))
			}
		}
	}

	return alerts
}
