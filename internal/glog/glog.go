// Package glog provides the small logging helpers shared by every
// component in this simulator. It intentionally does not pull in a
// structured logging library: every component here logs the way the
// rest of the codebase does, through the standard library "log" package,
// reserving panic for programmer errors and DebugPrint for optional
// trace output.
package glog

import (
	"fmt"
	"log"
	"runtime"
)

// Debug gates DebugPrint output. Off by default; set to true (or use
// EnableDebug) when tracing a failing scenario by hand.
var Debug = false

// EnableDebug turns on DebugPrint output for every component sharing
// this package.
func EnableDebug(enable bool) {
	Debug = enable
}

// DebugPrint writes a trace line prefixed with the caller's file:line,
// mirroring virtualcache.Writeback.DebugPrint in the teacher's cache
// implementation. It is a no-op unless Debug is true.
func DebugPrint(format string, args ...interface{}) {
	if !Debug {
		return
	}

	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Printf("%s:%d ", file, line)
	}
	fmt.Printf(format, args...)
	fmt.Println()
}

// Panicf logs and panics, the idiom this codebase uses for invariant
// violations that indicate a programming error rather than an expected
// runtime condition (MSHR overflow, double allocation, and similar).
func Panicf(format string, args ...interface{}) {
	log.Panicf(format, args...)
}
