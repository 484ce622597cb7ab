package bls

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var ErrInvalidPoint = errors.New("bls: invalid group point encoding")

var g1Gen, g2Gen = func() (bls12381.G1Affine, bls12381.G2Affine) {
	_, _, g1, g2 := bls12381.Generators()
	return g1, g2
}()

// G1Generator returns the standard G1 generator.
func G1Generator() bls12381.G1Affine {
	return g1Gen
}

// G2Generator returns the standard G2 generator.
func G2Generator() bls12381.G2Affine {
	return g2Gen
}

// G1FromBytes deserializes a 48-byte compressed G1 point, verifying that
// it is on the curve and in the correct subgroup. The point at infinity
// is accepted.
func G1FromBytes(b [BytesPerG1]byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(b[:]); err != nil {
		return bls12381.G1Affine{}, errors.Join(ErrInvalidPoint, err)
	}
	return p, nil
}

// G1ToBytes serializes a G1 point to its 48-byte compressed form.
func G1ToBytes(p *bls12381.G1Affine) [BytesPerG1]byte {
	return p.Bytes()
}

// G2FromBytes deserializes a 96-byte compressed G2 point with on-curve
// and subgroup validation.
func G2FromBytes(b [BytesPerG2]byte) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(b[:]); err != nil {
		return bls12381.G2Affine{}, errors.Join(ErrInvalidPoint, err)
	}
	return p, nil
}

// G2ToBytes serializes a G2 point to its 96-byte compressed form.
func G2ToBytes(p *bls12381.G2Affine) [BytesPerG2]byte {
	return p.Bytes()
}

// G1Mul returns [b]a.
func G1Mul(a *bls12381.G1Affine, b *fr.Element) bls12381.G1Affine {
	var bi big.Int
	b.BigInt(&bi)
	var out bls12381.G1Affine
	out.ScalarMultiplication(a, &bi)
	return out
}

// G2Mul returns [b]a.
func G2Mul(a *bls12381.G2Affine, b *fr.Element) bls12381.G2Affine {
	var bi big.Int
	b.BigInt(&bi)
	var out bls12381.G2Affine
	out.ScalarMultiplication(a, &bi)
	return out
}

// G1LincombFast computes sum scalars[i]*points[i] with a Pippenger
// multi-scalar multiplication.
func G1LincombFast(points []bls12381.G1Affine, scalars []fr.Element) (bls12381.G1Affine, error) {
	if len(points) != len(scalars) {
		return bls12381.G1Affine{}, ErrLengthMismatch
	}
	var out bls12381.G1Affine
	if len(points) == 0 {
		return out, nil // identity
	}
	if _, err := out.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return bls12381.G1Affine{}, err
	}
	return out, nil
}

// G1LincombNaive computes sum scalars[i]*points[i] with one scalar
// multiplication per term. Only worthwhile for small inputs, where it
// avoids the bucketing overhead of G1LincombFast.
func G1LincombNaive(points []bls12381.G1Affine, scalars []fr.Element) (bls12381.G1Affine, error) {
	if len(points) != len(scalars) {
		return bls12381.G1Affine{}, ErrLengthMismatch
	}
	var acc bls12381.G1Jac
	var bi big.Int
	for i := range points {
		var term bls12381.G1Affine
		scalars[i].BigInt(&bi)
		term.ScalarMultiplication(&points[i], &bi)
		acc.AddMixed(&term)
	}
	var out bls12381.G1Affine
	out.FromJacobian(&acc)
	return out, nil
}

// PairingsVerify reports whether e(a1, a2) == e(b1, b2).
func PairingsVerify(a1 *bls12381.G1Affine, a2 *bls12381.G2Affine, b1 *bls12381.G1Affine, b2 *bls12381.G2Affine) bool {
	var a1Neg bls12381.G1Affine
	a1Neg.Neg(a1)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{a1Neg, *b1},
		[]bls12381.G2Affine{*a2, *b2},
	)
	return err == nil && ok
}
