package main

import (
	"flag"
	"os"

	"github.com/tebeka/atexit"

	"gpucoresim/instrumentation"
	"gpucoresim/internal/glog"
	"gpucoresim/memhierarchy"
	"gpucoresim/pipeline"
	"gpucoresim/simconfig"
	"gpucoresim/texcache"
)

func main() {
	flag.Parse()
	glog.EnableDebug(*simconfig.DebugFlag)

	opts := simconfig.Memory()
	memory := memhierarchy.NewHierarchy(memhierarchy.Options{
		L1Size:          opts.L1Size,
		L1LineSize:      opts.L1LineSize,
		L1Associativity: opts.L1Associativity,
		L2Size:          opts.L2Size,
		L2LineSize:      opts.L2LineSize,
		L2Associativity: opts.L2Associativity,
		VRAMSize:        opts.VRAMSize,
	})

	recorder := instrumentation.NewRecorder()
	recorder.SetPerformanceThreshold("frame_time_ms", 16.0)
	recorder.RegisterCache("texture_cache")

	textureCacheBytes := *simconfig.TextureCacheSizeMBFlag * 1024 * 1024
	if textureCacheBytes > memory.VRAMSize() {
		glog.DebugPrint("clamping texture cache capacity %d down to VRAM size %d", textureCacheBytes, memory.VRAMSize())
		textureCacheBytes = memory.VRAMSize()
	}

	textures := texcache.MakeBuilder().
		WithCapacity(textureCacheBytes).
		WithBackend(memory).
		WithRecorder(recorder).
		Build()

	ctx := pipeline.NewContext(memory, textures, recorder)
	atexit.Register(func() { ctx.PrintSummary(os.Stdout) })

	if addr := *simconfig.HTTPAddrFlag; addr != "" {
		srv := instrumentation.NewServer(recorder)
		if err := srv.ListenAndServe(addr); err != nil {
			glog.DebugPrint("instrumentation http server stopped: %v", err)
		}
	}

	atexit.Exit(0)
}
