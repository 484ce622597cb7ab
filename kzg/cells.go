package kzg

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
	"github.com/eth2030/kzg/fft"
)

// lagrangeToMonomial converts a polynomial from bit-reversal permuted
// evaluation form over the given domain to monomial coefficients.
func lagrangeToMonomial(domain *fft.Domain, poly []fr.Element) ([]fr.Element, error) {
	evals := make([]fr.Element, len(poly))
	copy(evals, poly)
	if err := fft.BitReversalPermutation(evals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	coeffs, err := domain.FFTFr(evals, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return coeffs, nil
}

// extendPolynomial evaluates the monomial-form blob polynomial over the
// doubled domain, returning the extended evaluations in bit-reversal
// permuted order. The first half of the result reproduces the blob.
func (s *Settings) extendPolynomial(coeffs []fr.Element) ([]fr.Element, error) {
	ext := make([]fr.Element, FieldElementsPerExtBlob)
	copy(ext, coeffs)
	evals, err := s.extDomain.FFTFr(ext, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := fft.BitReversalPermutation(evals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return evals, nil
}

// evalsToCells slices extended evaluations in bit-reversal permuted
// order into cells.
func evalsToCells(evals []fr.Element) []Cell {
	cells := make([]Cell, CellsPerExtBlob)
	for i := 0; i < CellsPerExtBlob; i++ {
		cells[i] = fieldElementsToCell(evals[i*FieldElementsPerCell : (i+1)*FieldElementsPerCell])
	}
	return cells
}

// ComputeCells erasure-extends the blob and splits the extended
// evaluations into CellsPerExtBlob cells. The first CellsPerBlob cells
// contain the blob's own data.
func (s *Settings) ComputeCells(blob *Blob) ([]Cell, error) {
	if s.g1LagrangeBRP == nil {
		return nil, ErrSetupNotLoaded
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return nil, err
	}
	coeffs, err := lagrangeToMonomial(s.blobDomain, poly)
	if err != nil {
		return nil, err
	}
	evals, err := s.extendPolynomial(coeffs)
	if err != nil {
		return nil, err
	}
	return evalsToCells(evals), nil
}

// ComputeCellsAndKZGProofs computes the cells of the extended blob
// together with one opening proof per cell, each proving the cell's 64
// evaluations against the blob commitment.
func (s *Settings) ComputeCellsAndKZGProofs(blob *Blob) ([]Cell, []KZGProof, error) {
	if s.g1LagrangeBRP == nil {
		return nil, nil, ErrSetupNotLoaded
	}
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return nil, nil, err
	}
	coeffs, err := lagrangeToMonomial(s.blobDomain, poly)
	if err != nil {
		return nil, nil, err
	}
	evals, err := s.extendPolynomial(coeffs)
	if err != nil {
		return nil, nil, err
	}

	proofPoints, err := s.computeFK20CellProofs(coeffs)
	if err != nil {
		return nil, nil, err
	}
	if err := fft.BitReversalPermutation(proofPoints); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	proofs := make([]KZGProof, CellsPerExtBlob)
	for i := range proofPoints {
		proofs[i] = KZGProof(bls.G1ToBytes(&proofPoints[i]))
	}
	return evalsToCells(evals), proofs, nil
}
