package memhierarchy

import "gpucoresim/internal/mathutil"

const vramPageSize = 4096

// vram is the flat byte store backing every allocation. The spec calls
// for "4 GiB logical" storage; actually reserving that much memory up
// front would make every test allocate 4 GiB for no reason, so this
// backs the logical address space with lazily-allocated pages the way a
// sparse/virtualized backing is explicitly permitted to (spec.md §3).
// Reads of a page that was never written return zero bytes, which is
// indistinguishable from a real zero-initialized VRAM.
type vram struct {
	size  uint64
	pages map[uint64][]byte
}

func newVRAM(size uint64) *vram {
	return &vram{
		size:  size,
		pages: make(map[uint64][]byte),
	}
}

func (v *vram) inBounds(address uint64, length int) bool {
	return address+uint64(length) <= v.size
}

func (v *vram) page(pageIndex uint64, create bool) []byte {
	p, ok := v.pages[pageIndex]
	if !ok {
		if !create {
			return nil
		}
		p = make([]byte, vramPageSize)
		v.pages[pageIndex] = p
	}
	return p
}

func (v *vram) read(address uint64, buf []byte) {
	remaining := buf
	addr := address
	for len(remaining) > 0 {
		pageIndex := addr / vramPageSize
		offset := addr % vramPageSize
		n := mathutil.MinU64(vramPageSize-offset, uint64(len(remaining)))

		p := v.page(pageIndex, false)
		if p == nil {
			for i := uint64(0); i < n; i++ {
				remaining[i] = 0
			}
		} else {
			copy(remaining[:n], p[offset:offset+n])
		}

		remaining = remaining[n:]
		addr += n
	}
}

func (v *vram) write(address uint64, data []byte) {
	remaining := data
	addr := address
	for len(remaining) > 0 {
		pageIndex := addr / vramPageSize
		offset := addr % vramPageSize
		n := mathutil.MinU64(vramPageSize-offset, uint64(len(remaining)))

		p := v.page(pageIndex, true)
		copy(p[offset:offset+n], remaining[:n])

		remaining = remaining[n:]
		addr += n
	}
}
