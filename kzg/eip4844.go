package kzg

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
)

// BlobToKZGCommitment commits to the blob polynomial: the linear
// combination of the Lagrange setup points with the blob's field
// elements.
func (s *Settings) BlobToKZGCommitment(blob *Blob) (KZGCommitment, error) {
	if s.g1LagrangeBRP == nil {
		return KZGCommitment{}, ErrSetupNotLoaded
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return KZGCommitment{}, err
	}
	commitment, err := bls.G1LincombFast(s.g1LagrangeBRP, poly)
	if err != nil {
		return KZGCommitment{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return KZGCommitment(bls.G1ToBytes(&commitment)), nil
}

// ComputeKZGProof opens the blob polynomial at an arbitrary point z,
// returning the proof and the claimed evaluation y.
func (s *Settings) ComputeKZGProof(blob *Blob, zBytes Bytes32) (KZGProof, Bytes32, error) {
	if s.g1LagrangeBRP == nil {
		return KZGProof{}, Bytes32{}, ErrSetupNotLoaded
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return KZGProof{}, Bytes32{}, err
	}
	z, err := bls.ScalarFromBytes(zBytes)
	if err != nil {
		return KZGProof{}, Bytes32{}, fmt.Errorf("%w: evaluation point", ErrBadScalar)
	}
	proof, y, err := s.computeKZGProofImpl(poly, &z)
	if err != nil {
		return KZGProof{}, Bytes32{}, err
	}
	return KZGProof(bls.G1ToBytes(&proof)), Bytes32(bls.ScalarToBytes(&y)), nil
}

// ComputeBlobKZGProof produces the proof for a blob at its Fiat-Shamir
// evaluation challenge, for use with VerifyBlobKZGProof. The commitment
// must correspond to the blob.
func (s *Settings) ComputeBlobKZGProof(blob *Blob, commitmentBytes Bytes48) (KZGProof, error) {
	if s.g1LagrangeBRP == nil {
		return KZGProof{}, ErrSetupNotLoaded
	}
	if _, err := bls.G1FromBytes(commitmentBytes); err != nil {
		return KZGProof{}, fmt.Errorf("%w: commitment", ErrBadPoint)
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return KZGProof{}, err
	}
	challenge := computeChallenge(blob, &commitmentBytes)
	proof, _, err := s.computeKZGProofImpl(poly, &challenge)
	if err != nil {
		return KZGProof{}, err
	}
	return KZGProof(bls.G1ToBytes(&proof)), nil
}

// VerifyKZGProof checks one opening proof: that the polynomial behind
// commitment evaluates to y at z.
func (s *Settings) VerifyKZGProof(commitmentBytes Bytes48, zBytes, yBytes Bytes32, proofBytes Bytes48) (bool, error) {
	if s.g2Monomial == nil {
		return false, ErrSetupNotLoaded
	}
	commitment, err := bls.G1FromBytes(commitmentBytes)
	if err != nil {
		return false, fmt.Errorf("%w: commitment", ErrBadPoint)
	}
	z, err := bls.ScalarFromBytes(zBytes)
	if err != nil {
		return false, fmt.Errorf("%w: evaluation point", ErrBadScalar)
	}
	y, err := bls.ScalarFromBytes(yBytes)
	if err != nil {
		return false, fmt.Errorf("%w: claimed value", ErrBadScalar)
	}
	proof, err := bls.G1FromBytes(proofBytes)
	if err != nil {
		return false, fmt.Errorf("%w: proof", ErrBadPoint)
	}
	return s.verifyKZGProofImpl(&commitment, &z, &y, &proof), nil
}

// VerifyBlobKZGProof checks a blob proof produced by
// ComputeBlobKZGProof against the blob and its commitment.
func (s *Settings) VerifyBlobKZGProof(blob *Blob, commitmentBytes, proofBytes Bytes48) (bool, error) {
	if s.g2Monomial == nil {
		return false, ErrSetupNotLoaded
	}
	commitment, err := bls.G1FromBytes(commitmentBytes)
	if err != nil {
		return false, fmt.Errorf("%w: commitment", ErrBadPoint)
	}
	proof, err := bls.G1FromBytes(proofBytes)
	if err != nil {
		return false, fmt.Errorf("%w: proof", ErrBadPoint)
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return false, err
	}
	challenge := computeChallenge(blob, &commitmentBytes)
	y, err := s.evaluatePolynomialInEvaluationForm(poly, &challenge)
	if err != nil {
		return false, err
	}
	return s.verifyKZGProofImpl(&commitment, &challenge, &y, &proof), nil
}

// VerifyBlobKZGProofBatch checks a batch of blob proofs with a single
// pairing by combining them with random powers. The empty batch is
// valid; a single-element batch falls back to direct verification.
func (s *Settings) VerifyBlobKZGProofBatch(blobs []Blob, commitmentsBytes, proofsBytes []Bytes48) (bool, error) {
	if len(blobs) != len(commitmentsBytes) || len(blobs) != len(proofsBytes) {
		return false, ErrLengthMismatch
	}
	if len(blobs) == 0 {
		return true, nil
	}
	if len(blobs) == 1 {
		return s.VerifyBlobKZGProof(&blobs[0], commitmentsBytes[0], proofsBytes[0])
	}
	if s.g2Monomial == nil {
		return false, ErrSetupNotLoaded
	}

	n := len(blobs)
	commitments := make([]bls12381.G1Affine, n)
	proofs := make([]bls12381.G1Affine, n)
	zs := make([]fr.Element, n)
	ys := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		c, err := bls.G1FromBytes(commitmentsBytes[i])
		if err != nil {
			return false, fmt.Errorf("%w: commitment %d", ErrBadPoint, i)
		}
		commitments[i] = c
		p, err := bls.G1FromBytes(proofsBytes[i])
		if err != nil {
			return false, fmt.Errorf("%w: proof %d", ErrBadPoint, i)
		}
		proofs[i] = p
		poly, err := blobToPolynomial(&blobs[i])
		if err != nil {
			return false, err
		}
		zs[i] = computeChallenge(&blobs[i], &commitmentsBytes[i])
		y, err := s.evaluatePolynomialInEvaluationForm(poly, &zs[i])
		if err != nil {
			return false, err
		}
		ys[i] = y
	}

	rPowers := computeRPowers(commitmentsBytes, zs, ys, proofsBytes)
	return s.verifyKZGProofBatch(commitments, zs, ys, proofs, rPowers)
}

// verifyKZGProofImpl checks e(C - [y]G1, G2) == e(proof, [s-z]G2).
func (s *Settings) verifyKZGProofImpl(commitment *bls12381.G1Affine, z, y *fr.Element, proof *bls12381.G1Affine) bool {
	g2Gen := bls.G2Generator()
	zG2 := bls.G2Mul(&g2Gen, z)
	var sMinusZ bls12381.G2Jac
	sMinusZ.FromAffine(&s.g2Monomial[1])
	var zG2Jac bls12381.G2Jac
	zG2Jac.FromAffine(&zG2)
	sMinusZ.SubAssign(&zG2Jac)
	var sMinusZAff bls12381.G2Affine
	sMinusZAff.FromJacobian(&sMinusZ)

	g1Gen := bls.G1Generator()
	yG1 := bls.G1Mul(&g1Gen, y)
	var cMinusY, yJac bls12381.G1Jac
	cMinusY.FromAffine(commitment)
	yJac.FromAffine(&yG1)
	cMinusY.SubAssign(&yJac)
	var cMinusYAff bls12381.G1Affine
	cMinusYAff.FromJacobian(&cMinusY)

	return bls.PairingsVerify(&cMinusYAff, &s.g2Monomial[0], proof, &sMinusZAff)
}

// verifyKZGProofBatch folds n openings into one pairing check:
//
//	e(Σ r_i proof_i, [s]G2) == e(Σ r_i (C_i - [y_i]G1 + z_i proof_i), G2)
func (s *Settings) verifyKZGProofBatch(commitments []bls12381.G1Affine, zs, ys []fr.Element, proofs []bls12381.G1Affine, rPowers []fr.Element) (bool, error) {
	n := len(commitments)

	proofLincomb, err := bls.G1LincombFast(proofs, rPowers)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	g1Gen := bls.G1Generator()
	cMinusY := make([]bls12381.G1Affine, n)
	rTimesZ := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		yG1 := bls.G1Mul(&g1Gen, &ys[i])
		var tmp bls12381.G1Jac
		tmp.FromAffine(&commitments[i])
		var yJac bls12381.G1Jac
		yJac.FromAffine(&yG1)
		tmp.SubAssign(&yJac)
		cMinusY[i].FromJacobian(&tmp)
		rTimesZ[i].Mul(&rPowers[i], &zs[i])
	}

	proofZLincomb, err := bls.G1LincombFast(proofs, rTimesZ)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	cMinusYLincomb, err := bls.G1LincombFast(cMinusY, rPowers)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var rhs bls12381.G1Jac
	rhs.FromAffine(&cMinusYLincomb)
	rhs.AddMixed(&proofZLincomb)
	var rhsAff bls12381.G1Affine
	rhsAff.FromJacobian(&rhs)

	return bls.PairingsVerify(&proofLincomb, &s.g2Monomial[1], &rhsAff, &s.g2Monomial[0]), nil
}

// evaluatePolynomialInEvaluationForm computes p(z) from the Lagrange
// form via the barycentric formula. When z lies on the domain the
// stored evaluation is returned directly.
func (s *Settings) evaluatePolynomialInEvaluationForm(poly []fr.Element, z *fr.Element) (fr.Element, error) {
	roots := s.blobDomain.BRPRootsOfUnity

	denoms := make([]fr.Element, FieldElementsPerBlob)
	for i := 0; i < FieldElementsPerBlob; i++ {
		if z.Equal(&roots[i]) {
			return poly[i], nil
		}
		denoms[i].Sub(z, &roots[i])
	}
	inverses, err := bls.BatchInverse(denoms)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var out, tmp fr.Element
	for i := 0; i < FieldElementsPerBlob; i++ {
		tmp.Mul(&inverses[i], &roots[i])
		tmp.Mul(&tmp, &poly[i])
		out.Add(&out, &tmp)
	}

	// Scale by (z^width - 1) / width.
	var factor fr.Element
	factor.Exp(*z, big.NewInt(FieldElementsPerBlob))
	one := fr.One()
	factor.Sub(&factor, &one)
	var widthInv fr.Element
	widthInv.SetUint64(FieldElementsPerBlob)
	widthInv.Inverse(&widthInv)
	factor.Mul(&factor, &widthInv)
	out.Mul(&out, &factor)
	return out, nil
}

// computeKZGProofImpl evaluates the polynomial at z and commits to the
// quotient (p(X) - y) / (X - z) in evaluation form. When z coincides
// with a domain root the quotient value at that root is recovered from
// the remaining evaluations.
func (s *Settings) computeKZGProofImpl(poly []fr.Element, z *fr.Element) (bls12381.G1Affine, fr.Element, error) {
	y, err := s.evaluatePolynomialInEvaluationForm(poly, z)
	if err != nil {
		return bls12381.G1Affine{}, fr.Element{}, err
	}
	roots := s.blobDomain.BRPRootsOfUnity

	quotient := make([]fr.Element, FieldElementsPerBlob)
	denoms := make([]fr.Element, FieldElementsPerBlob)
	m := 0
	for i := 0; i < FieldElementsPerBlob; i++ {
		if z.Equal(&roots[i]) {
			m = i + 1
			denoms[i] = fr.One()
			continue
		}
		quotient[i].Sub(&poly[i], &y)
		denoms[i].Sub(&roots[i], z)
	}
	inverses, err := bls.BatchInverse(denoms)
	if err != nil {
		return bls12381.G1Affine{}, fr.Element{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	for i := 0; i < FieldElementsPerBlob; i++ {
		quotient[i].Mul(&quotient[i], &inverses[i])
	}

	if m != 0 {
		// z is the (m-1)-th domain root. The quotient there is
		// Σ_{i≠m-1} (p_i - y) ω_i / (z (z - ω_i)).
		m--
		quotient[m].SetZero()
		for i := 0; i < FieldElementsPerBlob; i++ {
			if i == m {
				denoms[i] = fr.One()
				continue
			}
			denoms[i].Sub(z, &roots[i])
			denoms[i].Mul(&denoms[i], z)
		}
		inverses, err = bls.BatchInverse(denoms)
		if err != nil {
			return bls12381.G1Affine{}, fr.Element{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		var tmp fr.Element
		for i := 0; i < FieldElementsPerBlob; i++ {
			if i == m {
				continue
			}
			tmp.Sub(&poly[i], &y)
			tmp.Mul(&tmp, &roots[i])
			tmp.Mul(&tmp, &inverses[i])
			quotient[m].Add(&quotient[m], &tmp)
		}
	}

	proof, err := bls.G1LincombFast(s.g1LagrangeBRP, quotient)
	if err != nil {
		return bls12381.G1Affine{}, fr.Element{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return proof, y, nil
}
