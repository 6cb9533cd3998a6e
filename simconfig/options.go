// Package simconfig defines the command-line configuration surface for
// a simulation run, package-level flag.Var declarations in the style of
// samples/fulllayer and samples/sampledrunner in the source repo this
// module is grounded on.
package simconfig

import "flag"

var (
	L1SizeFlag          = flag.Int("l1-size", 0, "L1 cache size in bytes (0 = spec default)")
	L1LineSizeFlag      = flag.Int("l1-line-size", 0, "L1 cache line size in bytes (0 = spec default)")
	L1AssociativityFlag = flag.Int("l1-associativity", 0, "L1 cache associativity (0 = spec default)")

	L2SizeFlag          = flag.Int("l2-size", 0, "L2 cache size in bytes (0 = spec default)")
	L2LineSizeFlag      = flag.Int("l2-line-size", 0, "L2 cache line size in bytes (0 = spec default)")
	L2AssociativityFlag = flag.Int("l2-associativity", 0, "L2 cache associativity (0 = spec default)")

	VRAMSizeFlag = flag.Uint64("vram-size", 0, "logical VRAM size in bytes (0 = spec default, 4 GiB)")

	TextureCacheSizeMBFlag = flag.Uint64("texture-cache-mb", 256, "texture cache capacity in megabytes")

	HTTPAddrFlag = flag.String("http-addr", "", "address to serve the instrumentation HTTP API on (empty disables it)")
	DebugFlag    = flag.Bool("debug", false, "enable verbose debug logging")
)

// MemoryOptions returns the memhierarchy.Options implied by the parsed
// flags, encoded as plain ints/uint64 to avoid simconfig importing
// memhierarchy (kept as the lower-level package).
type MemoryOptions struct {
	L1Size          int
	L1LineSize      int
	L1Associativity int
	L2Size          int
	L2LineSize      int
	L2Associativity int
	VRAMSize        uint64
}

// Memory reads the parsed flag values into a MemoryOptions. Call after
// flag.Parse().
func Memory() MemoryOptions {
	return MemoryOptions{
		L1Size:          *L1SizeFlag,
		L1LineSize:      *L1LineSizeFlag,
		L1Associativity: *L1AssociativityFlag,
		L2Size:          *L2SizeFlag,
		L2LineSize:      *L2LineSizeFlag,
		L2Associativity: *L2AssociativityFlag,
		VRAMSize:        *VRAMSizeFlag,
	}
}
