//go:build !graphcore_debug

package debug

// Assert is a no-op in release builds.
func Assert(cond bool, msg string, args ...any) {}
