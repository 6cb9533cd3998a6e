// Package memhierarchy composes the L1/L2 set-associative caches over a
// backing VRAM byte store and bump allocator - the spec's
// "MemoryHierarchy". It is the synchronous counterpart of the teacher's
// virtualcache package: same fill-on-miss ordering (VRAM -> L2 -> L1),
// same write-through discipline, without the ticking-component/event
// machinery that package needs for its ranked-latency simulation, since
// this subsystem has no suspension points by design (spec.md §5).
package memhierarchy

import (
	"gpucoresim/cacheline"
)

// Default geometry, straight out of spec.md §3/§6.
const (
	L1Size          = 32 * 1024
	L1LineSize      = 64
	L1Associativity = 4

	L2Size          = 512 * 1024
	L2LineSize      = 128
	L2Associativity = 8

	DefaultVRAMSize = 4 * 1024 * 1024 * 1024 // 4 GiB logical

	// Latency constants in "cycles", dimensionless per spec.md §6.
	L1Latency   = 1.0
	L2Latency   = 10.0
	VRAMLatency = 100.0
)

// Options configures a Hierarchy's geometry. Zero fields fall back to
// the spec's defaults, following the original's constructor-parameter
// pattern (§10 of SPEC_FULL.md) rather than hard-coding the sizes.
type Options struct {
	L1Size          int
	L1LineSize      int
	L1Associativity int

	L2Size          int
	L2LineSize      int
	L2Associativity int

	VRAMSize uint64
}

func (o Options) withDefaults() Options {
	if o.L1Size == 0 {
		o.L1Size = L1Size
	}
	if o.L1LineSize == 0 {
		o.L1LineSize = L1LineSize
	}
	if o.L1Associativity == 0 {
		o.L1Associativity = L1Associativity
	}
	if o.L2Size == 0 {
		o.L2Size = L2Size
	}
	if o.L2LineSize == 0 {
		o.L2LineSize = L2LineSize
	}
	if o.L2Associativity == 0 {
		o.L2Associativity = L2Associativity
	}
	if o.VRAMSize == 0 {
		o.VRAMSize = DefaultVRAMSize
	}
	return o
}

// Stats is the snapshot returned by Statistics.
type Stats struct {
	L1Hits           uint64
	L1Misses         uint64
	L2Hits           uint64
	L2Misses         uint64
	VRAMAccesses     uint64
	AvgAccessLatency float64
}

// Hierarchy owns an L1, an L2, a VRAM backing store, and the bump
// allocator that hands out VRAM regions.
type Hierarchy struct {
	l1 *cacheline.Cache
	l2 *cacheline.Cache

	vram  *vram
	alloc *bumpAllocator
}

// NewHierarchy builds a hierarchy with the given options, defaulting
// unset fields to spec.md's geometry.
func NewHierarchy(opts Options) *Hierarchy {
	opts = opts.withDefaults()

	return &Hierarchy{
		l1:    cacheline.NewCache(opts.L1Size, opts.L1LineSize, opts.L1Associativity),
		l2:    cacheline.NewCache(opts.L2Size, opts.L2LineSize, opts.L2Associativity),
		vram:  newVRAM(opts.VRAMSize),
		alloc: newBumpAllocator(opts.VRAMSize),
	}
}

// Read serves address out of L1, falling through to L2 and then VRAM,
// installing the data into higher levels on the way back up so the next
// access to the same line is warmer. Out-of-bounds addressing is the
// only hard failure.
func (h *Hierarchy) Read(address uint64, buf []byte) bool {
	if h.l1.Read(address, buf) {
		return true
	}

	if h.l2.Read(address, buf) {
		h.l1.Write(address, buf)
		return true
	}

	if !h.vram.inBounds(address, len(buf)) {
		return false
	}

	h.vram.read(address, buf)
	h.l2.Write(address, buf)
	h.l1.Write(address, buf)
	return true
}

// Write writes through to L1, L2, and VRAM. Per spec.md §9 note 4, the
// caches capture the write even when the trailing VRAM write is
// out-of-bounds and fails - a documented weaker semantic carried over
// from the source rather than silently patched, since patching it would
// change which addresses observably differ from the reference model.
func (h *Hierarchy) Write(address uint64, data []byte) bool {
	h.l1.Write(address, data)
	h.l2.Write(address, data)

	if !h.vram.inBounds(address, len(data)) {
		return false
	}
	h.vram.write(address, data)
	return true
}

// Allocate rounds size up to a 16-byte multiple and bumps the VRAM
// cursor, returning 0 on exhaustion. Successive successful calls return
// strictly increasing addresses; there is no reuse of freed regions.
func (h *Hierarchy) Allocate(size uint64) uint64 {
	return h.alloc.allocate(size)
}

// Deallocate invalidates every cache line covering the allocation at
// address (strided by the L1 line size, matching the source) and erases
// the bookkeeping record. Deallocating an address that was never
// allocated is a no-op.
func (h *Hierarchy) Deallocate(address uint64) {
	size, ok := h.alloc.deallocate(address)
	if !ok {
		return
	}

	stride := uint64(h.l1.LineSize())
	for a := address; a < address+size; a += stride {
		h.l1.Invalidate(a)
		h.l2.Invalidate(a)
	}
}

// FlushAllCaches flushes L1 then L2, leaving VRAM and the allocation
// table untouched.
func (h *Hierarchy) FlushAllCaches() {
	h.l1.Flush()
	h.l2.Flush()
}

// Statistics synthesizes the aggregate counters spec.md §4.2 describes.
func (h *Hierarchy) Statistics() Stats {
	l1Hits, l1Misses, l1Accesses := h.l1.Stats()
	l2Hits, l2Misses, _ := h.l2.Stats()

	stats := Stats{
		L1Hits:       l1Hits,
		L1Misses:     l1Misses,
		L2Hits:       l2Hits,
		L2Misses:     l2Misses,
		VRAMAccesses: l2Misses,
	}

	if l1Accesses > 0 {
		l1Contribution := float64(l1Hits) / float64(l1Accesses) * L1Latency
		l2Contribution := float64(l2Hits) / float64(l1Accesses) * L2Latency
		vramContribution := float64(stats.VRAMAccesses) / float64(l1Accesses) * VRAMLatency
		stats.AvgAccessLatency = l1Contribution + l2Contribution + vramContribution
	}

	return stats
}

// VRAMSize reports the logical VRAM capacity, used by cmd/gpusim to
// clamp the texture cache capacity to the backing store.
func (h *Hierarchy) VRAMSize() uint64 {
	return h.vram.size
}
