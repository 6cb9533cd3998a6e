package texcache_test

// fakeBackend is a hand-written VRAMBackend fake: a flat byte-addressable
// store with a bump-style allocator, enough to exercise texcache.Cache
// without standing up a full memhierarchy.Hierarchy. Grounded on the
// gomock.Controller-per-suite pattern in
// mem/cache/internal/tagging/tags_test.go, but since texcache.VRAMBackend
// is a four-method interface this repo defines itself (not a generated
// mock), a direct fake is more useful than a mockgen stub here.
type fakeBackend struct {
	mem  map[uint64][]byte
	next uint64
	oob  uint64 // reads/writes at or beyond this address fail; 0 disables
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{mem: make(map[uint64][]byte), next: 0x1000}
}

func (f *fakeBackend) Allocate(size uint64) uint64 {
	addr := f.next
	f.next += size
	f.mem[addr] = make([]byte, size)
	return addr
}

func (f *fakeBackend) Deallocate(address uint64) {
	delete(f.mem, address)
}

func (f *fakeBackend) Read(address uint64, buf []byte) bool {
	if f.oob != 0 && address >= f.oob {
		return false
	}
	data, ok := f.mem[address]
	if !ok {
		return false
	}
	copy(buf, data)
	return true
}

func (f *fakeBackend) Write(address uint64, data []byte) bool {
	if f.oob != 0 && address >= f.oob {
		return false
	}
	dst, ok := f.mem[address]
	if !ok {
		return false
	}
	copy(dst, data)
	return true
}

// fill seeds the backing byte at address..address+len(data) once
// allocated, so a subsequent cache miss reads back known content.
func (f *fakeBackend) fill(address uint64, data []byte) {
	if dst, ok := f.mem[address]; ok {
		copy(dst, data)
	}
}

// fakeRecorder counts calls instead of forwarding to instrumentation,
// so tests can assert the texture cache reports through Recorder at
// the points spec.md and SPEC_FULL.md require.
type fakeRecorder struct {
	counters      map[string]uint64
	timersStarted []string
	timersEnded   []string
	cacheAccesses []bool
	bandwidth     uint64
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{counters: make(map[string]uint64)}
}

func (r *fakeRecorder) StartTimer(name string) {
	r.timersStarted = append(r.timersStarted, name)
}

func (r *fakeRecorder) EndTimer(name string) {
	r.timersEnded = append(r.timersEnded, name)
}

func (r *fakeRecorder) IncrementCounter(name string, delta uint64) {
	r.counters[name] += delta
}

func (r *fakeRecorder) SetCounter(name string, value uint64) {
	r.counters[name] = value
}

func (r *fakeRecorder) RecordCacheAccess(cache string, hit bool) {
	r.cacheAccesses = append(r.cacheAccesses, hit)
}

func (r *fakeRecorder) RecordBandwidthUsage(component string, bytes uint64) {
	r.bandwidth += bytes
}
