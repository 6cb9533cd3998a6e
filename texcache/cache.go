package texcache

import (
	"time"

	"github.com/rs/xid"

	"gpucoresim/internal/mathutil"
)

// Builder assembles a Cache, mirroring the With<Field> chaining used
// throughout virtualdevice/virtual* in the source repo this package is
// grounded on.
type Builder struct {
	capacityBytes     uint64
	backend           VRAMBackend
	recorder          Recorder
	maxPatternHistory int
}

// MakeBuilder returns a Builder seeded with the source's defaults.
func MakeBuilder() Builder {
	return Builder{
		capacityBytes:     256 * 1024 * 1024,
		maxPatternHistory: DefaultMaxPatternHistory,
	}
}

func (b Builder) WithCapacity(bytes uint64) Builder {
	b.capacityBytes = bytes
	return b
}

func (b Builder) WithBackend(backend VRAMBackend) Builder {
	b.backend = backend
	return b
}

func (b Builder) WithRecorder(r Recorder) Builder {
	b.recorder = r
	return b
}

func (b Builder) WithMaxPatternHistory(n int) Builder {
	b.maxPatternHistory = n
	return b
}

// Build constructs the Cache. backend must be set. With a capacity of
// zero every insert first evicts all resident entries and then admits
// the new one, so the cache holds at most the most recently inserted
// entry.
func (b Builder) Build() *Cache {
	if b.backend == nil {
		panic("texcache: Builder.Build called without a WithBackend backend")
	}
	rec := b.recorder
	if rec == nil {
		rec = noopRecorder{}
	}
	c := &Cache{
		capacityBytes: b.capacityBytes,
		backend:       b.backend,
		recorder:      rec,
		entries:       make(map[uint64]*Entry),
		history:       newHistory(b.maxPatternHistory),
		tuning:        newTuning(),
	}
	rec.SetCounter("texture_cache_size_mb", b.capacityBytes/(1024*1024))
	return c
}

// PreloadEntry is one item of a Preload batch, the supplemented
// "warm the cache before the first frame" feature.
type PreloadEntry struct {
	TextureID uint64
	MipLevel  uint32
	Address   uint64
	Data      []byte
}

// Cache is the spec's adaptive texture cache: byte-addressable,
// keyed by (texture id, mip level), backed by a VRAMBackend, with
// priority-score eviction and pattern-driven prefetching.
//
// Not goroutine-safe; callers needing concurrent access must
// serialize it themselves, matching the rest of this module.
type Cache struct {
	capacityBytes uint64
	usedBytes     uint64

	backend  VRAMBackend
	recorder Recorder

	entries  map[uint64]*Entry
	history  *history
	tuning   tuning
	counters counters
}

func nowUs() int64 {
	return time.Now().UnixNano() / 1000
}

// ReadTexture attempts to satisfy a read of textureID/mipLevel at
// offset into buf from the cache, falling back to the backing store on
// a miss and inserting the fetched line, per spec.md §4.3:
//
//  1. reject mip levels the key packing cannot represent
//  2. record the access in the pattern history
//  3. on a cache hit, copy from the resident entry, bump its stats and,
//     when smart prefetching is enabled and the predictor fires,
//     prefetch the predicted access synchronously
//  4. on a miss, read the full line from the backend, insert it
//     (evicting by priority score if the cache is over capacity), and
//     copy out to the caller
//  5. after a miss, retune prefetchAggressiveness/evictionThreshold once
//     optimizationIntervalMs has elapsed since the last tune
//
// A hit never retunes, and a miss never consults the predictor.
func (c *Cache) ReadTexture(textureID uint64, mipLevel uint32, offset uint64, buf []byte) bool {
	if mipLevel > maxMipLevel {
		return false
	}

	now := nowUs()
	c.history.push(AccessPattern{TextureID: textureID, MipLevel: mipLevel, Timestamp: now})

	k := key(textureID, mipLevel)
	if e, ok := c.entries[k]; ok && offset+uint64(len(buf)) <= uint64(len(e.Data)) {
		copy(buf, e.Data[offset:])
		e.LastAccessTime = now
		e.AccessCount++

		c.counters.cacheHits++
		if e.IsPrefetched {
			c.counters.prefetchHits++
			e.IsPrefetched = false
		}
		c.recorder.RecordCacheAccess("texture_cache", true)
		c.recorder.IncrementCounter("texture_cache_bytes_read", uint64(len(buf)))

		if c.tuning.smartPrefetchingEnabled {
			c.maybePrefetch()
		}
		return true
	}

	c.counters.cacheMisses++
	c.recorder.RecordCacheAccess("texture_cache", false)
	c.recorder.StartTimer("texture_load_from_memory")
	ok := c.fetchAndInsert(textureID, mipLevel, now, false, uint64(len(buf)))
	c.recorder.EndTimer("texture_load_from_memory")
	if !ok {
		return false
	}

	e := c.entries[k]
	if offset+uint64(len(buf)) <= uint64(len(e.Data)) {
		copy(buf, e.Data[offset:])
	}

	if c.tuning.dueForTuning(now) {
		c.retune(now)
	}

	return true
}

// maybePrefetch consults the pattern predictor and, if it fires,
// services a prefetch synchronously.
func (c *Cache) maybePrefetch() {
	if textureID, mip, ok := c.history.predictPrefetch(); ok {
		c.PrefetchTexture(textureID, mip)
	}
}

// fetchAndInsert loads the (textureID, mipLevel) line from the backend
// and inserts it, evicting entries by priority score until there is
// room. The allocated line size is max(minSize, 1MiB), matching the
// source's "assume at least 1MB per texture" sizing.
func (c *Cache) fetchAndInsert(textureID uint64, mipLevel uint32, now int64, prefetched bool, minSize uint64) bool {
	k := key(textureID, mipLevel)

	lineSize := mathutil.MaxU64(minSize, minTextureSize)

	address := c.backend.Allocate(lineSize)
	if address == 0 {
		return false
	}

	data := make([]byte, lineSize)
	if !c.backend.Read(address, data) {
		c.backend.Deallocate(address)
		return false
	}

	c.evictUntilFits(lineSize, now)

	c.entries[k] = &Entry{
		TextureID:      textureID,
		MipLevel:       mipLevel,
		Address:        address,
		Data:           data,
		LastAccessTime: now,
		AccessCount:    1,
		IsPrefetched:   prefetched,
	}
	c.usedBytes += lineSize
	c.counters.bytesTransferred += lineSize
	c.recorder.RecordBandwidthUsage("texture_cache", lineSize)
	return true
}

// minTextureSize is the source's "at least 1MB per texture" floor on
// the allocation a cache miss makes.
const minTextureSize = 1024 * 1024

// evictUntilFits removes the lowest priority-score entries until
// admitting need additional bytes keeps the cache within capacity,
// matching evict_least_valuable_entries in the source. A capacity of
// zero always evicts everything first.
func (c *Cache) evictUntilFits(need uint64, now int64) {
	for c.capacityBytes > 0 && c.usedBytes+need > c.capacityBytes && len(c.entries) > 0 {
		var victimKey uint64
		var victimScore float64
		first := true
		for k, e := range c.entries {
			s := e.priorityScore(now)
			if first || s < victimScore {
				victimKey, victimScore = k, s
				first = false
			}
		}
		victim := c.entries[victimKey]
		if victim.IsPrefetched {
			c.counters.prefetchMisses++
		}
		c.backend.Deallocate(victim.Address)
		c.usedBytes -= uint64(len(victim.Data))
		delete(c.entries, victimKey)
	}
	if c.capacityBytes == 0 {
		for k, e := range c.entries {
			if e.IsPrefetched {
				c.counters.prefetchMisses++
			}
			c.backend.Deallocate(e.Address)
			c.usedBytes -= uint64(len(e.Data))
			delete(c.entries, k)
		}
	}
}

// PrefetchTexture speculatively loads (textureID, mipLevel) if it is
// not already resident. A correlation token is minted per request for
// tracing, per SPEC_FULL.md §6.2's rs/xid wiring; prefetches are
// serviced synchronously since this module models no queueing engine.
func (c *Cache) PrefetchTexture(textureID uint64, mipLevel uint32) {
	if mipLevel > maxMipLevel {
		return
	}
	k := key(textureID, mipLevel)
	if _, resident := c.entries[k]; resident {
		return
	}

	token := xid.New().String()
	c.recorder.StartTimer("prefetch_" + token)
	c.fetchAndInsert(textureID, mipLevel, nowUs(), true, minTextureSize)
	c.recorder.EndTimer("prefetch_" + token)

	c.recorder.IncrementCounter("texture_prefetch_operations", 1)
}

// InvalidateTexture drops every resident mip level for textureID
// without writing back, since texture data is read-only from this
// cache's perspective.
func (c *Cache) InvalidateTexture(textureID uint64) {
	for mip := 0; mip <= maxMipLevel; mip++ {
		k := key(textureID, uint32(mip))
		if e, ok := c.entries[k]; ok {
			c.backend.Deallocate(e.Address)
			c.usedBytes -= uint64(len(e.Data))
			delete(c.entries, k)
		}
	}
}

// Flush evicts every resident entry, returning the cache to empty.
func (c *Cache) Flush() {
	for k, e := range c.entries {
		c.backend.Deallocate(e.Address)
		delete(c.entries, k)
	}
	c.usedBytes = 0
}

// Preload warms the cache with entries whose data is already known,
// bypassing the backend fetch path. The supplemented "load screen"
// feature from SPEC_FULL.md §10; entries beyond capacity are admitted
// and then immediately eligible for eviction on the next access, same
// as any other insert.
func (c *Cache) Preload(entries []PreloadEntry) {
	now := nowUs()
	for _, pe := range entries {
		if pe.MipLevel > maxMipLevel {
			continue
		}
		k := key(pe.TextureID, pe.MipLevel)
		c.evictUntilFits(uint64(len(pe.Data)), now)
		c.entries[k] = &Entry{
			TextureID:      pe.TextureID,
			MipLevel:       pe.MipLevel,
			Address:        pe.Address,
			Data:           pe.Data,
			LastAccessTime: now,
			AccessCount:    0,
			IsPrefetched:   false,
		}
		c.usedBytes += uint64(len(pe.Data))
	}
}

// retune runs the adaptive-caching parameter update and publishes the
// resulting rates as percent-scaled instrumentation counters, per
// spec.md §6's "publish percent-scaled versions of both rates".
func (c *Cache) retune(now int64) {
	if !c.tuning.adaptiveCachingEnabled {
		return
	}
	hitRate := c.counters.hitRate()
	prefetchEff := c.counters.prefetchEfficiency()
	c.tuning.apply(hitRate, prefetchEff, now)

	c.recorder.SetCounter("texture_cache_hit_rate_pct", uint64(hitRate*100))
	c.recorder.SetCounter("texture_prefetch_efficiency_pct", uint64(prefetchEff*100))
}

// Metrics returns a snapshot of the cache's accumulated counters.
func (c *Cache) Metrics() Metrics {
	util := 0.0
	if c.capacityBytes > 0 {
		util = float64(c.usedBytes) / float64(c.capacityBytes) * 100
	}
	return Metrics{
		CacheHits:               c.counters.cacheHits,
		CacheMisses:             c.counters.cacheMisses,
		PrefetchHits:            c.counters.prefetchHits,
		PrefetchMisses:          c.counters.prefetchMisses,
		HitRate:                 c.counters.hitRate(),
		PrefetchEfficiency:      c.counters.prefetchEfficiency(),
		BytesTransferred:        c.counters.bytesTransferred,
		CacheUtilizationPercent: util,
	}
}

// Size reports the number of resident entries, for tests asserting the
// eviction and flush invariants.
func (c *Cache) Size() int {
	return len(c.entries)
}

// IsResident reports whether (textureID, mipLevel) currently has a
// cache entry, the exported counterpart of find_entry in the source.
func (c *Cache) IsResident(textureID uint64, mipLevel uint32) bool {
	_, ok := c.entries[key(textureID, mipLevel)]
	return ok
}
