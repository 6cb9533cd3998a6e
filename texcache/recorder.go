package texcache

// Recorder is the narrow slice of instrumentation.Recorder the texture
// cache reports through. Defined here rather than imported from
// instrumentation so texcache stays testable without pulling in the
// whole instrumentation package - the same narrow-interface-at-the-
// consumer idiom as VRAMBackend.
type Recorder interface {
	StartTimer(name string)
	EndTimer(name string)
	IncrementCounter(name string, delta uint64)
	SetCounter(name string, value uint64)
	RecordCacheAccess(cache string, hit bool)
	RecordBandwidthUsage(component string, bytes uint64)
}

// noopRecorder is used when a Cache is built without WithRecorder, so
// call sites never need a nil check.
type noopRecorder struct{}

func (noopRecorder) StartTimer(string)                   {}
func (noopRecorder) EndTimer(string)                     {}
func (noopRecorder) IncrementCounter(string, uint64)     {}
func (noopRecorder) SetCounter(string, uint64)           {}
func (noopRecorder) RecordCacheAccess(string, bool)      {}
func (noopRecorder) RecordBandwidthUsage(string, uint64) {}
