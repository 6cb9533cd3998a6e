// Package mathutil collects the tiny numeric helpers used throughout the
// cache and memory-hierarchy code: clipping a requested byte count to
// what a line/entry can actually hold. For the plain-int case this
// reaches for github.com/pkg/math the same way
// samples/sampledrunner/kernelsampled.go does (math.MinInt(dis1, dis2))
// rather than hand-rolling the comparison.
package mathutil

import (
	pkgmath "github.com/pkg/math"
)

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	return pkgmath.MinInt(a, b)
}

// MinU64 returns the smaller of a and b. github.com/pkg/math only
// covers the signed int family, so the uint64 address/size arithmetic
// used by the memory hierarchy and texture cache is clipped here
// instead of forcing a lossy conversion through int.
func MinU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// MaxU64 returns the larger of a and b.
func MaxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
