package texcache

// VRAMBackend is the subset of memhierarchy.Hierarchy the texture cache
// consumes. Keeping it as an interface here (rather than importing
// *memhierarchy.Hierarchy directly) is what lets texcache's own tests
// swap in a mock backend instead of standing up a full hierarchy for
// every case, the same separation of concerns the teacher's
// VirtualComponent/RealComponent interfaces in
// virtualdevice/info.go draw between a cache and whatever backs it.
type VRAMBackend interface {
	Read(address uint64, buf []byte) bool
	Write(address uint64, data []byte) bool
	Allocate(size uint64) uint64
	Deallocate(address uint64)
}
