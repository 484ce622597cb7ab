package bls

import (
	"errors"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// MaxWindowBits bounds the window width of a fixed-base table. Table
// memory grows as O(2^w) per point, with diminishing speed returns
// beyond 8 or so bits.
const MaxWindowBits = 15

// scalarBits is the bit length of the scalar field order.
const scalarBits = fr.Bits

var ErrBadWindowBits = errors.New("bls: window bits out of range")

// FixedBaseTable holds precomputed multiples of a fixed set of G1 points
// for windowed multi-scalar multiplication. For window width w, each
// point stores the multiples [1]P .. [2^w-1]P, so a table costs
// (2^w - 1) * len(points) affine points of memory and a MultiExp costs
// one table addition per point per window plus w doublings per window.
type FixedBaseTable struct {
	wbits     uint64
	numPoints int
	// multiples[i] holds [d]points[i] at index d-1, for d in [1, 2^wbits).
	multiples [][]bls12381.G1Affine
}

// NewFixedBaseTable precomputes window multiples for the given points.
// wbits must be in [1, MaxWindowBits].
func NewFixedBaseTable(points []bls12381.G1Affine, wbits uint64) (*FixedBaseTable, error) {
	if wbits == 0 || wbits > MaxWindowBits {
		return nil, fmt.Errorf("%w: %d", ErrBadWindowBits, wbits)
	}
	tableLen := (1 << wbits) - 1
	t := &FixedBaseTable{
		wbits:     wbits,
		numPoints: len(points),
		multiples: make([][]bls12381.G1Affine, len(points)),
	}
	for i := range points {
		var base, run bls12381.G1Jac
		base.FromAffine(&points[i])
		run.Set(&base)
		t.multiples[i] = make([]bls12381.G1Affine, tableLen)
		for d := 0; d < tableLen; d++ {
			t.multiples[i][d].FromJacobian(&run)
			run.AddAssign(&base)
		}
	}
	return t, nil
}

// MultiExp computes sum scalars[i]*points[i] over the table's fixed
// points. The result is identical to a general multi-scalar
// multiplication over the same points.
func (t *FixedBaseTable) MultiExp(scalars []fr.Element) (bls12381.G1Affine, error) {
	if len(scalars) != t.numPoints {
		return bls12381.G1Affine{}, ErrLengthMismatch
	}

	regular := make([][4]uint64, len(scalars))
	for i := range scalars {
		regular[i] = scalars[i].Bits()
	}

	w := int(t.wbits)
	numWindows := (scalarBits + w - 1) / w

	var acc bls12381.G1Jac
	for win := numWindows - 1; win >= 0; win-- {
		for k := 0; k < w; k++ {
			acc.DoubleAssign()
		}
		for i := range regular {
			d := windowDigit(&regular[i], win*w, w)
			if d != 0 {
				acc.AddMixed(&t.multiples[i][d-1])
			}
		}
	}

	var out bls12381.G1Affine
	out.FromJacobian(&acc)
	return out, nil
}

// windowDigit extracts w bits of a 256-bit little-endian limb vector
// starting at bit offset `bit`.
func windowDigit(limbs *[4]uint64, bit, w int) uint64 {
	limb := bit >> 6
	shift := uint(bit & 63)
	d := limbs[limb] >> shift
	if shift+uint(w) > 64 && limb+1 < 4 {
		d |= limbs[limb+1] << (64 - shift)
	}
	return d & ((1 << uint(w)) - 1)
}
