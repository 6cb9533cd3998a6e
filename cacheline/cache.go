package cacheline

import (
	"gpucoresim/internal/glog"
	"gpucoresim/internal/mathutil"
)

// Cache is a set-associative cache with LRU replacement over
// cacheSize/lineSize/associativity geometry, the spec's "GPUCache". It
// knows nothing about what backs a miss - filling a line on a miss is
// the caller's job (see memhierarchy.Hierarchy), matching the source's
// "no fill happens inside read" contract.
type Cache struct {
	lineSize      int
	associativity int
	numSets       int

	sets []*set

	hits     uint64
	misses   uint64
	accesses uint64
}

// NewCache builds a cache of the given geometry. It panics if the
// geometry does not divide evenly into whole sets, the same class of
// construction-time invariant violation the teacher's Directory
// constructors treat as a programmer error rather than a runtime value.
func NewCache(cacheSize, lineSize, associativity int) *Cache {
	if lineSize <= 0 || associativity <= 0 {
		glog.Panicf("cacheline: lineSize and associativity must be positive")
	}
	if cacheSize%(lineSize*associativity) != 0 {
		glog.Panicf("cacheline: cacheSize must divide evenly into lineSize*associativity")
	}

	numSets := cacheSize / (lineSize * associativity)

	c := &Cache{
		lineSize:      lineSize,
		associativity: associativity,
		numSets:       numSets,
		sets:          make([]*set, numSets),
	}
	for i := range c.sets {
		c.sets[i] = newSet(associativity, lineSize)
	}
	return c
}

func (c *Cache) alignedAddress(address uint64) uint64 {
	return address &^ (uint64(c.lineSize) - 1)
}

func (c *Cache) setIndex(address uint64) int {
	return int((address / uint64(c.lineSize)) % uint64(c.numSets))
}

// Read looks up address and, on a hit, copies
// min(len(buf), lineSize-offset) bytes into buf starting at the
// in-line offset. It never fills on a miss - the caller consults the
// next level down.
func (c *Cache) Read(address uint64, buf []byte) bool {
	c.accesses++

	line := c.sets[c.setIndex(address)].find(c.alignedAddress(address))
	if line == nil {
		c.misses++
		return false
	}

	line.LastAccess = c.accesses
	offset := int(address % uint64(c.lineSize))
	n := mathutil.MinInt(len(buf), c.lineSize-offset)
	copy(buf[:n], line.Data[offset:offset+n])

	c.hits++
	return true
}

// Write installs data at address, allocating and evicting a victim line
// if the address is not already resident. Writes never fail.
func (c *Cache) Write(address uint64, data []byte) {
	c.accesses++

	aligned := c.alignedAddress(address)
	s := c.sets[c.setIndex(address)]
	line := s.find(aligned)

	if line != nil {
		c.hits++
	} else {
		line = s.victim()
		*line = Line{
			Address:    aligned,
			Data:       make([]byte, c.lineSize),
			Valid:      true,
			LastAccess: c.accesses,
		}
		c.misses++
	}

	offset := int(address % uint64(c.lineSize))
	n := mathutil.MinInt(len(data), c.lineSize-offset)
	copy(line.Data[offset:offset+n], data[:n])
	line.Dirty = true
	line.LastAccess = c.accesses
}

// Invalidate clears the valid/dirty bits of the line covering address,
// if resident. It is a no-op otherwise.
func (c *Cache) Invalidate(address uint64) {
	line := c.sets[c.setIndex(address)].find(c.alignedAddress(address))
	if line == nil {
		return
	}
	line.Valid = false
	line.Dirty = false
}

// Flush clears every line in every set.
func (c *Cache) Flush() {
	for _, s := range c.sets {
		for _, l := range s.lines {
			l.Valid = false
			l.Dirty = false
		}
	}
}

// Stats returns the running hit/miss/access counters.
func (c *Cache) Stats() (hits, misses, accesses uint64) {
	return c.hits, c.misses, c.accesses
}

// HitRate returns hits/accesses, or 0 when there have been no accesses.
func (c *Cache) HitRate() float64 {
	if c.accesses == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.accesses)
}

// LineSize returns the configured line size, used by callers (the
// memory hierarchy) that need to align deallocation strides.
func (c *Cache) LineSize() int {
	return c.lineSize
}
