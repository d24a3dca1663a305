// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"sync/atomic"
)

// growthIncrement holds the process-wide fixed growth increment.
// Zero means geometric doubling, the default.
var growthIncrement atomic.Int64

// SetGrowthIncrement configures the growth strategy for all arrays in
// the process. With n > 0, an array whose capacity is exhausted grows
// by adding n slots at a time until it fits; with n <= 0 the default
// doubling strategy is restored. Builders are unaffected: they always
// double for amortized O(1) appends.
func SetGrowthIncrement(n int) {
	if n < 0 {
		n = 0
	}
	growthIncrement.Store(int64(n))
}

// growCapacity returns the new capacity for an array that currently
// has current slots and needs at least needed.
func growCapacity(current, needed int) int {
	if inc := int(growthIncrement.Load()); inc > 0 {
		for current < needed {
			current += inc
		}
		return current
	}
	return doubleCapacity(current, needed)
}

// doubleCapacity doubles from a floor of one slot until needed fits.
// Builders use this unconditionally.
func doubleCapacity(current, needed int) int {
	if current == 0 {
		current = 1
	}
	for current < needed {
		current *= 2
	}
	return current
}
