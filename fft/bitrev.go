package fft

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrNotPowerOfTwo = errors.New("fft: slice length is not a power of two")

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// ReverseBitsLimited reverses the bits of value within the bit width of
// order, which must be a power of two. For order 2^k the low k bits of
// value are mirrored.
func ReverseBitsLimited(order, value uint64) uint64 {
	unused := uint64(bits.LeadingZeros64(order)) + 1
	return bits.Reverse64(value) >> unused
}

// BitReversalPermutation reorders vals in place so that the element at
// index i moves to the index whose bits are the reversal of i. The
// length must be a power of two. Applying it twice restores the
// original order.
func BitReversalPermutation[T any](vals []T) error {
	n := uint64(len(vals))
	if !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}
	shift := uint64(bits.LeadingZeros64(n)) + 1
	for i := uint64(0); i < n; i++ {
		j := bits.Reverse64(i) >> shift
		if j > i {
			vals[i], vals[j] = vals[j], vals[i]
		}
	}
	return nil
}
