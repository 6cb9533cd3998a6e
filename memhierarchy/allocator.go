package memhierarchy

import (
	"github.com/google/btree"
)

// initialAllocationAddress is the bump allocator's starting cursor,
// matching MemoryHierarchy's next_allocation_address_ in the source
// (256 MiB in).
const initialAllocationAddress = 0x1000_0000

const allocationAlignment = 16

// allocation records one live [base, base+size) region.
type allocation struct {
	base uint64
	size uint64
}

// Less orders allocations by base address, the key deallocate looks a
// record up by. Grounded on
// virtualdevice/virtualcache/internal/set.go, which keeps a
// *btree.BTree of its own blocks ordered by visit time; here the
// ordering key is address instead.
func (a allocation) Less(than btree.Item) bool {
	return a.base < than.(allocation).base
}

// bumpAllocator is a monotonic VRAM allocator: it never reuses freed
// space. The source is explicit that this is a deliberate
// simplification, not an oversight - frees leave holes.
type bumpAllocator struct {
	next        uint64
	vramSize    uint64
	allocations *btree.BTree
}

func newBumpAllocator(vramSize uint64) *bumpAllocator {
	return &bumpAllocator{
		next:        initialAllocationAddress,
		vramSize:    vramSize,
		allocations: btree.New(2),
	}
}

// allocate rounds size up to a multiple of 16 and bumps the cursor,
// returning 0 (the reserved failure sentinel) if the VRAM bound would
// be exceeded.
func (a *bumpAllocator) allocate(size uint64) uint64 {
	size = (size + allocationAlignment - 1) &^ (allocationAlignment - 1)

	base := a.next
	if base+size > a.vramSize {
		return 0
	}

	a.allocations.ReplaceOrInsert(allocation{base: base, size: size})
	a.next = base + size
	return base
}

// deallocate erases the bookkeeping record for base. Deallocating an
// address that was never allocated (or already freed) is a no-op, per
// the source's deallocate().
func (a *bumpAllocator) deallocate(base uint64) (size uint64, ok bool) {
	item := a.allocations.Delete(allocation{base: base})
	if item == nil {
		return 0, false
	}
	rec := item.(allocation)
	return rec.size, true
}
