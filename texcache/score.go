package texcache

import "math"

// lnOnePlus computes ln(1+n). gonum backs the rest of this simulator's
// statistics (see instrumentation.Report), but a single natural
// logarithm of a scalar has no batch/vector shape for a numerical
// library to help with, so this one term stays on the standard
// library's math.Log rather than reaching for gonum for its own sake.
func lnOnePlus(n uint64) float64 {
	return math.Log(1 + float64(n))
}
