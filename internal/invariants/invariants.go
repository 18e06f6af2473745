// Package invariants gates assertions that are too expensive for release
// builds. Callers guard each check with Enabled so the compiler drops it.
package invariants

import "fmt"

// Checkf panics with the formatted message if cond is false.
func Checkf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("arrayvec invariant violated: "+format, args...))
	}
}
