//go:build graphcore_debug

package debug

import "fmt"

// Assert panics with the formatted message when cond is false.
func Assert(cond bool, msg string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(msg, args...))
	}
}
