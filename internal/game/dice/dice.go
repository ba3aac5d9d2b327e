// Package dice provides the seedable randomness handle used when building
// teams and tower rosters.
package dice

import "fmt"

// Source is the randomness provider for all draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Draw holds the audit trail for a single bounded integer draw.
type Draw struct {
	Low   int
	High  int
	Value int
}

// String returns a human-readable audit string in the format "[1..6] → 4".
func (d Draw) String() string {
	return fmt.Sprintf("[%d..%d] → %d", d.Low, d.High, d.Value)
}

// RandInt returns a uniformly distributed int in [lo, hi] drawn from src.
//
// Precondition: lo <= hi; src must be non-nil. Panics if hi < lo.
// Postcondition: lo <= result <= hi.
func RandInt(src Source, lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("dice: RandInt called with empty range [%d, %d]", lo, hi))
	}
	return lo + src.Intn(hi-lo+1)
}
