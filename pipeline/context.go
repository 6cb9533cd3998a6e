// Package pipeline is the thin consumer-side glue that owns one memory
// hierarchy, one texture cache, and one instrumentation recorder for a
// simulation run. The graphics pipeline stages themselves (vertex,
// raster, fragment, merger) are out of this module's scope; Context
// exists to give the run something to print an end-of-run summary
// from, the supplemented GetStatistics/PrintStats dump from
// original_source/src/gpu_core.cpp.
package pipeline

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"gpucoresim/instrumentation"
	"gpucoresim/memhierarchy"
	"gpucoresim/texcache"
)

// Context bundles the subsystems a simulation run drives together, the
// way GPUCore does in the source.
type Context struct {
	Memory     *memhierarchy.Hierarchy
	Textures   *texcache.Cache
	Instrument *instrumentation.Recorder
}

// NewContext wires memory, textures, and instrument into a Context.
// Any may be nil; PrintSummary skips sections whose subsystem is nil.
func NewContext(memory *memhierarchy.Hierarchy, textures *texcache.Cache, instrument *instrumentation.Recorder) *Context {
	return &Context{Memory: memory, Textures: textures, Instrument: instrument}
}

// PrintSummary writes a consolidated end-of-run report combining memory
// hierarchy statistics, texture cache metrics, and the instrumentation
// report, matching GPUCore::print_stats in the source.
func (c *Context) PrintSummary(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgYellow)

	header.Fprintln(w, "\n=== GPU Simulation Run Summary ===")

	if c.Memory != nil {
		section.Fprintln(w, "\nMemory Hierarchy:")
		stats := c.Memory.Statistics()
		fmt.Fprintf(w, "  L1: %d hits, %d misses\n", stats.L1Hits, stats.L1Misses)
		fmt.Fprintf(w, "  L2: %d hits, %d misses\n", stats.L2Hits, stats.L2Misses)
		fmt.Fprintf(w, "  VRAM accesses: %d\n", stats.VRAMAccesses)
		fmt.Fprintf(w, "  Average access latency: %.3f cycles\n", stats.AvgAccessLatency)
	}

	if c.Textures != nil {
		section.Fprintln(w, "\nTexture Cache:")
		m := c.Textures.Metrics()
		fmt.Fprintf(w, "  Hits: %d, Misses: %d, HitRate: %.3f%%\n", m.CacheHits, m.CacheMisses, m.HitRate*100)
		fmt.Fprintf(w, "  Prefetch hits: %d, Prefetch misses: %d, Efficiency: %.3f%%\n",
			m.PrefetchHits, m.PrefetchMisses, m.PrefetchEfficiency*100)
		fmt.Fprintf(w, "  Bytes transferred: %d\n", m.BytesTransferred)
		fmt.Fprintf(w, "  Utilization: %.3f%%\n", m.CacheUtilizationPercent)
	}

	if c.Instrument != nil {
		instrumentation.PrintReport(w, c.Instrument.GenerateReport())
	}

	header.Fprintln(w, "\n=== End of Summary ===")
}
