package latchtree

import "fmt"

// assert panics if cond is false. It guards internal invariants that
// should never fail on well-formed input; it is not for user-triggered
// negative outcomes, which are reported through return values instead.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("latchtree: assertion failed: "+format, args...))
	}
}

// ceilDiv returns the ceiling of x/y, used for the minimum-occupancy and
// split-point calculations on both node kinds.
func ceilDiv(x, y int) int {
	assert(x > 0, "ceilDiv: x must be positive, got %d", x)
	return 1 + (x-1)/y
}
