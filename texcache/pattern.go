package texcache

// AccessPattern records one read_texture call for the pattern predictor
// to look back over.
type AccessPattern struct {
	TextureID uint64
	MipLevel  uint32
	Timestamp int64 // microseconds since epoch
}

// history is the bounded FIFO of recent accesses used to drive
// prediction. Bounded the way instrumentation's sample histories are:
// oldest dropped on overflow.
type history struct {
	entries []AccessPattern
	max     int
}

func newHistory(max int) *history {
	return &history{max: max}
}

func (h *history) push(p AccessPattern) {
	if len(h.entries) >= h.max {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, p)
}

func (h *history) len() int {
	return len(h.entries)
}

// predictPrefetch inspects the last two recorded accesses and returns
// the (textureID, mipLevel) to prefetch, matching
// TextureCache::predict_future_accesses in the source:
//
//   - same texture, consecutive read -> prefetch the next mip level,
//     provided it stays under mipLevelLimit ("mip walk").
//   - last.textureID == prev.textureID+1 -> prefetch the next texture
//     at the same mip level ("sequential texture access").
//   - otherwise, no prediction.
//
// Requires at least 3 recorded accesses, per the source.
func (h *history) predictPrefetch() (textureID uint64, mipLevel uint32, ok bool) {
	if h.len() < 3 {
		return 0, 0, false
	}

	n := len(h.entries)
	last := h.entries[n-1]
	prev := h.entries[n-2]

	if prev.TextureID == last.TextureID {
		nextMip := int(last.MipLevel) + 1
		if nextMip < mipLevelLimit {
			return last.TextureID, uint32(nextMip), true
		}
		return 0, 0, false
	}

	if last.TextureID == prev.TextureID+1 {
		return last.TextureID + 1, last.MipLevel, true
	}

	return 0, 0, false
}
