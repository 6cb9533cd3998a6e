package texcache

// Metrics is the snapshot returned by Cache.Metrics, the spec's
// CacheMetrics with the derived fields already populated.
type Metrics struct {
	CacheHits               uint64
	CacheMisses             uint64
	PrefetchHits            uint64
	PrefetchMisses          uint64
	HitRate                 float64
	PrefetchEfficiency      float64
	BytesTransferred        uint64
	CacheUtilizationPercent float64
}

// counters is the raw accumulator state; Metrics derives HitRate,
// PrefetchEfficiency, and CacheUtilizationPercent from it on demand,
// matching get_metrics() in the source rather than keeping the derived
// fields live-updated on every access.
type counters struct {
	cacheHits        uint64
	cacheMisses      uint64
	prefetchHits     uint64
	prefetchMisses   uint64
	bytesTransferred uint64
}

func (c *counters) hitRate() float64 {
	total := c.cacheHits + c.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(c.cacheHits) / float64(total)
}

func (c *counters) prefetchEfficiency() float64 {
	total := c.prefetchHits + c.prefetchMisses
	if total == 0 {
		return 0
	}
	return float64(c.prefetchHits) / float64(total)
}
