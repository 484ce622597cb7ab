// Package fft implements the finite-field FFT engine used by the
// commitment and cell engines: precomputed power-of-two evaluation
// domains over the BLS12-381 scalar field, forward and inverse
// transforms over field elements and over G1 points, coset transforms
// for the erasure-recovery path, and bit-reversal permutation helpers.
package fft

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// PrimitiveRoot generates the multiplicative subgroup from which every
// evaluation domain is derived. 7 is the smallest generator of the
// BLS12-381 scalar field's full multiplicative group.
const PrimitiveRoot = 7

var (
	ErrBadWidth   = errors.New("fft: domain width must be a power of two >= 2")
	ErrBadLength  = errors.New("fft: length must be a nonzero power of two within the domain")
	ErrBadRoot    = errors.New("fft: root of unity has wrong order")
	ErrTwoAdicity = errors.New("fft: domain width exceeds the field's two-adic subgroup")
)

// maxTwoAdicity is the largest k such that 2^k divides r-1 for the
// BLS12-381 scalar field; no multiplicative subgroup of order 2^(k+1)
// exists.
const maxTwoAdicity = 32

// Domain holds the precomputed roots of unity for a power-of-two
// evaluation domain. It is immutable once built and safe for concurrent
// use.
type Domain struct {
	// Width is the maximum transform size, a power of two.
	Width uint64

	// RootsOfUnity holds [w^0, w^1, ..., w^Width] where w is a primitive
	// Width-th root of unity. The extra trailing entry equals w^0 and
	// lets w^-i be read at index Width-i.
	RootsOfUnity []fr.Element

	// ReverseRootsOfUnity holds the inverse roots in the same layout,
	// used by the inverse transform.
	ReverseRootsOfUnity []fr.Element

	// BRPRootsOfUnity holds the first Width roots in bit-reversal
	// permuted order, matching the layout of Lagrange-form polynomials.
	BRPRootsOfUnity []fr.Element
}

// NewDomain builds the evaluation domain of the given width. The width
// must be a power of two between 2 and 2^32.
func NewDomain(width uint64) (*Domain, error) {
	if width < 2 || !IsPowerOfTwo(width) {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	if width > 1<<maxTwoAdicity {
		return nil, fmt.Errorf("%w: %d", ErrTwoAdicity, width)
	}

	root := rootOfUnity(width)
	roots, err := expandRootOfUnity(&root, width)
	if err != nil {
		return nil, err
	}

	d := &Domain{
		Width:               width,
		RootsOfUnity:        roots,
		ReverseRootsOfUnity: make([]fr.Element, width+1),
		BRPRootsOfUnity:     make([]fr.Element, width),
	}
	for i := uint64(0); i <= width; i++ {
		d.ReverseRootsOfUnity[i] = roots[width-i]
	}
	copy(d.BRPRootsOfUnity, roots[:width])
	if err := BitReversalPermutation(d.BRPRootsOfUnity); err != nil {
		return nil, err
	}
	return d, nil
}

// rootOfUnity returns a primitive width-th root of unity, computed as
// PrimitiveRoot^((r-1)/width).
func rootOfUnity(width uint64) fr.Element {
	exp := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	exp.Div(exp, new(big.Int).SetUint64(width))
	var base, out fr.Element
	base.SetUint64(PrimitiveRoot)
	out.Exp(base, exp)
	return out
}

// expandRootOfUnity returns [root^0, root^1, ..., root^width], checking
// that root has exact order width.
func expandRootOfUnity(root *fr.Element, width uint64) ([]fr.Element, error) {
	out := make([]fr.Element, width+1)
	out[0] = fr.One()
	out[1] = *root

	var i uint64
	for i = 2; i <= width; i++ {
		out[i].Mul(&out[i-1], root)
		if out[i].IsOne() {
			break
		}
	}
	if i != width || !out[width].IsOne() {
		return nil, ErrBadRoot
	}
	return out, nil
}

// checkLength validates a transform length against the domain.
func (d *Domain) checkLength(n uint64) error {
	if n == 0 || n > d.Width || !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d (domain width %d)", ErrBadLength, n, d.Width)
	}
	return nil
}
