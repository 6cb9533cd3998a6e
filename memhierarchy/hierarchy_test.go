package memhierarchy_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gpucoresim/memhierarchy"
)

var _ = Describe("Hierarchy", func() {
	var h *memhierarchy.Hierarchy

	BeforeEach(func() {
		h = memhierarchy.NewHierarchy(memhierarchy.Options{})
	})

	It("round-trips a write through to a fresh read", func() {
		addr := h.Allocate(4096)
		Expect(addr).NotTo(BeZero())

		data := bytes.Repeat([]byte{0xA5}, 4096)
		Expect(h.Write(addr, data)).To(BeTrue())

		buf := make([]byte, 16)
		Expect(h.Read(addr+32, buf)).To(BeTrue())
		Expect(buf).To(Equal(data[32:48]))
	})

	It("fills L1 and L2 on the VRAM path, then hits L1 next time", func() {
		addr := h.Allocate(4096)
		data := bytes.Repeat([]byte{0xA5}, 4096)
		h.Write(addr, data)
		h.FlushAllCaches()

		buf := make([]byte, 16)
		Expect(h.Read(addr+32, buf)).To(BeTrue())
		Expect(h.Read(addr+32, buf)).To(BeTrue())

		stats := h.Statistics()
		Expect(stats.L1Misses).To(BeNumerically(">=", 1))
		Expect(stats.L1Hits).To(BeNumerically(">=", 1))
		Expect(stats.VRAMAccesses).To(BeNumerically(">=", 1))
	})

	It("allocate is monotonic", func() {
		a1 := h.Allocate(64)
		a2 := h.Allocate(64)
		a3 := h.Allocate(64)
		Expect(a2).To(BeNumerically(">", a1))
		Expect(a3).To(BeNumerically(">", a2))
	})

	It("fails allocation once VRAM is exhausted, leaving the cursor unchanged", func() {
		small := memhierarchy.NewHierarchy(memhierarchy.Options{VRAMSize: 0x1000_1000 + 32})
		a1 := small.Allocate(16)
		Expect(a1).NotTo(BeZero())

		failed := small.Allocate(1 << 40)
		Expect(failed).To(BeZero())

		a2 := small.Allocate(16)
		Expect(a2).To(Equal(a1 + 16))
	})

	It("invalidates cached lines on deallocate so a stale hit cannot surface", func() {
		addr := h.Allocate(256)
		data := bytes.Repeat([]byte{0x7}, 256)
		h.Write(addr, data)

		var buf [8]byte
		h.Read(addr, buf[:]) // warm L1

		h.Deallocate(addr)

		// re-allocate the same size; the reused cache lines must not
		// serve the old data as a false hit before this fresh region is
		// itself written.
		addr2 := h.Allocate(256)
		Expect(addr2).NotTo(Equal(addr)) // bump allocator never reuses holes

		var fresh [8]byte
		ok := h.Read(addr, fresh[:])
		// address `addr` is still within VRAM bounds (just deallocated,
		// not reclaimed) so the read succeeds, but it must not still
		// reflect a stale cache line - it must reflect the underlying
		// VRAM byte pattern (still the old bytes on the backing store,
		// since deallocate does not scrub VRAM, only caches).
		Expect(ok).To(BeTrue())
		Expect(fresh).To(Equal([8]byte{7, 7, 7, 7, 7, 7, 7, 7}))
	})

	It("deallocating an unrecorded address is a no-op", func() {
		Expect(func() { h.Deallocate(0xDEADBEEF) }).NotTo(Panic())
	})

	It("reports a zero average latency with no accesses", func() {
		stats := h.Statistics()
		Expect(stats.AvgAccessLatency).To(BeZero())
	})
})
