// Package texcache implements the adaptive texture cache: a
// byte-addressable cache keyed by (texture id, mip level) sitting above
// a memhierarchy.Hierarchy, with priority-score eviction, pattern-based
// prefetching, and periodic self-tuning of its own parameters. It is
// grounded on original_source/src/texture_cache.cpp, translated into
// the synchronous, error-as-value idiom the rest of this module uses.
package texcache

// mipLevelLimit is the source's "reasonable mip level limit" used by
// the mip-walk predictor (predict_future_accesses in the source).
const mipLevelLimit = 16

// maxMipLevel is the largest mip level the (texture_id << 8) | mip_level
// key packing can represent without colliding with the next texture id.
// spec.md §3 flags mip_level >= 256 as a latent source bug; this
// implementation rejects such calls outright instead of silently
// truncating into another texture's key space.
const maxMipLevel = 255

// key packs a (textureID, mipLevel) pair into the single uint64 the
// cache is indexed by, matching the source's
// "(texture_id << 8) | mip_level".
func key(textureID uint64, mipLevel uint32) uint64 {
	return (textureID << 8) | uint64(mipLevel)
}

// Entry is one resident (texture, mip) blob - the spec's
// TextureCacheEntry.
type Entry struct {
	TextureID      uint64
	MipLevel       uint32
	Address        uint64
	Data           []byte
	LastAccessTime int64 // microseconds since epoch
	AccessCount    uint64
	IsPrefetched   bool
}

// priorityScore computes the eviction score for the entry at nowUs,
// exactly reproducing calculate_priority_score in the source:
//
//	recency   = 1 / (1 + (now - lastAccess)/1e6)
//	frequency = ln(1 + accessCount)
//	bonus     = 0.5 if prefetched else 1.0
//	score     = recency * frequency * bonus
//
// The prefetched bonus is deliberately smaller: a comparable prefetched
// entry that has not yet earned a demand hit is evicted before a
// demand-filled one, an anti-pollution policy carried over verbatim
// from the source.
func (e *Entry) priorityScore(nowUs int64) float64 {
	recency := 1.0 / (1.0 + float64(nowUs-e.LastAccessTime)/1_000_000.0)
	frequency := lnOnePlus(e.AccessCount)
	bonus := 1.0
	if e.IsPrefetched {
		bonus = 0.5
	}
	return recency * frequency * bonus
}
