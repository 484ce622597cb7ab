// Package bls wraps the BLS12-381 arithmetic from gnark-crypto with the
// helpers the commitment engine needs: canonical byte codecs for scalars
// and group points, batch field inversion, power sequences, linear
// combinations of G1 points, and the pairing equality check.
//
// Scalar field elements are encoded as 32 big-endian bytes and must be
// strictly less than the field modulus r. Group points use the 48-byte
// (G1) and 96-byte (G2) ZCash compressed encodings; decoding validates
// that the point is on the curve and in the correct subgroup.
package bls

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Byte widths of the canonical encodings.
const (
	BytesPerFieldElement = fr.Bytes // 32
	BytesPerG1           = 48
	BytesPerG2           = 96
)

var (
	ErrNonCanonicalScalar = errors.New("bls: scalar not a canonical field element")
	ErrZeroInversion      = errors.New("bls: batch inversion of zero")
	ErrLengthMismatch     = errors.New("bls: points and scalars have different lengths")
)

// scalarNull is an out-of-field sentinel (all limbs 0xff..ff) used to mark
// an element slot as unset. No field operation can produce this pattern.
var scalarNull = fr.Element{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}

// ScalarNull returns the sentinel value marking a missing field element.
func ScalarNull() fr.Element {
	return scalarNull
}

// ScalarIsNull reports whether a holds the missing-element sentinel.
func ScalarIsNull(a *fr.Element) bool {
	return a.Equal(&scalarNull)
}

// ScalarFromBytes deserializes a 32-byte big-endian scalar, rejecting
// values greater than or equal to the field modulus.
func ScalarFromBytes(b [BytesPerFieldElement]byte) (fr.Element, error) {
	var e fr.Element
	if err := e.SetBytesCanonical(b[:]); err != nil {
		return fr.Element{}, fmt.Errorf("%w: %v", ErrNonCanonicalScalar, err)
	}
	return e, nil
}

// ScalarToBytes serializes a scalar to its canonical 32-byte big-endian form.
func ScalarToBytes(a *fr.Element) [BytesPerFieldElement]byte {
	return a.Bytes()
}

// HashToScalar maps 32 arbitrary bytes to a field element by interpreting
// them as a big-endian integer and reducing modulo r. Unlike
// ScalarFromBytes this accepts any input; it is used for Fiat-Shamir
// challenges where the input is a hash output.
func HashToScalar(b [BytesPerFieldElement]byte) fr.Element {
	var e fr.Element
	e.SetBytes(b[:])
	return e
}

// BatchInverse computes the multiplicative inverses of all elements in a
// using Montgomery's trick (one inversion plus 3(n-1) multiplications).
// Any zero element in the input is an error.
func BatchInverse(a []fr.Element) ([]fr.Element, error) {
	for i := range a {
		if a[i].IsZero() {
			return nil, ErrZeroInversion
		}
	}
	return fr.BatchInvert(a), nil
}

// ComputePowers returns [x^0, x^1, ..., x^(n-1)].
func ComputePowers(x *fr.Element, n int) []fr.Element {
	out := make([]fr.Element, n)
	power := fr.One()
	for i := 0; i < n; i++ {
		out[i] = power
		power.Mul(&power, x)
	}
	return out
}
