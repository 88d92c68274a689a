// Package mathx holds small numeric helpers shared by economy, combat and
// capacity code so those packages don't each reinvent clamp/sum.
package mathx

import "cmp"

// Clamp restricts v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sum adds up a slice of int, int64 or float64 values.
func Sum[T int | int64 | float64](vs []T) T {
	var total T
	for _, v := range vs {
		total += v
	}
	return total
}

// Max returns the larger of a and b.
func Max[T cmp.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min[T cmp.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// RoundHalfUp rounds a float to the nearest integer, ties away from zero.
// Production/tax/damage math in the combat and economy config tables is
// specified in integer points; this is the one rounding rule used
// throughout so results are reproducible across platforms.
func RoundHalfUp(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
