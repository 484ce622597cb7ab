package kzg

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
	"github.com/eth2030/kzg/fft"
)

// RecoverCellsAndKZGProofs reconstructs the full extended blob and all
// cell proofs from any subset of at least half the cells. cellIndices
// gives the position of each provided cell; indices must be unique and
// below CellsPerExtBlob.
func (s *Settings) RecoverCellsAndKZGProofs(cellIndices []uint64, cells []Cell) ([]Cell, []KZGProof, error) {
	if s.g1LagrangeBRP == nil {
		return nil, nil, ErrSetupNotLoaded
	}
	if len(cellIndices) != len(cells) {
		return nil, nil, ErrLengthMismatch
	}
	if len(cells) > CellsPerExtBlob {
		return nil, nil, fmt.Errorf("%w: more cells than an extended blob holds", ErrBadArgs)
	}
	if len(cells) < CellsPerExtBlob/2 {
		return nil, nil, ErrTooFewCells
	}
	for _, idx := range cellIndices {
		if idx >= CellsPerExtBlob {
			return nil, nil, fmt.Errorf("%w: %d", ErrBadCellIndex, idx)
		}
	}

	// Scatter the provided cells into the extended evaluation vector,
	// marking absent entries with the null sentinel. A slot that is
	// already set reveals a duplicate index.
	extEvals := make([]fr.Element, FieldElementsPerExtBlob)
	for i := range extEvals {
		extEvals[i] = bls.ScalarNull()
	}
	for i := range cells {
		evals, err := cellToFieldElements(&cells[i])
		if err != nil {
			return nil, nil, err
		}
		base := cellIndices[i] * FieldElementsPerCell
		for j := 0; j < FieldElementsPerCell; j++ {
			if !bls.ScalarIsNull(&extEvals[base+uint64(j)]) {
				return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateCell, cellIndices[i])
			}
			extEvals[base+uint64(j)] = evals[j]
		}
	}

	var recoveredCells []Cell
	if len(cells) == CellsPerExtBlob {
		// Nothing is missing.
		recoveredCells = make([]Cell, CellsPerExtBlob)
		copy(recoveredCells, cells)
	} else {
		recovered, err := s.recoverCells(cellIndices, extEvals)
		if err != nil {
			return nil, nil, err
		}
		extEvals = recovered
		recoveredCells = evalsToCells(extEvals)
	}

	coeffs, err := lagrangeToMonomial(s.extDomain, extEvals)
	if err != nil {
		return nil, nil, err
	}
	proofPoints, err := s.computeFK20CellProofs(coeffs[:FieldElementsPerBlob])
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
	return recoveredCells, proofs, nil
}

// recoverCells reconstructs the full extended evaluation vector from a
// partially filled one. Missing evaluations hold the null sentinel;
// extEvals is in cell order, field elements of cell k at offset k*64.
func (s *Settings) recoverCells(cellIndices []uint64, extEvals []fr.Element) ([]fr.Element, error) {
	provided := make(map[uint64]bool, len(cellIndices))
	for _, idx := range cellIndices {
		provided[idx] = true
	}
	// The vanishing polynomial works over the standard-order domain, so
	// missing cell indices are bit-reversed first.
	var missing []uint64
	for i := uint64(0); i < CellsPerExtBlob; i++ {
		if !provided[i] {
			missing = append(missing, fft.ReverseBitsLimited(CellsPerExtBlob, i))
		}
	}

	vanishingCoeffs, err := s.vanishingPolynomialForMissingCells(missing)
	if err != nil {
		return nil, err
	}
	vanishingEvals, err := s.extDomain.FFTFr(vanishingCoeffs, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// (E*Z)(x) in evaluation form over the domain in standard order.
	// E agrees with the wanted polynomial P wherever data exists, and Z
	// zeroes the rest, so (E*Z) == (P*Z) everywhere.
	evals := make([]fr.Element, FieldElementsPerExtBlob)
	copy(evals, extEvals)
	if err := fft.BitReversalPermutation(evals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	timesZero := make([]fr.Element, FieldElementsPerExtBlob)
	for i := range evals {
		if bls.ScalarIsNull(&evals[i]) {
			continue
		}
		timesZero[i].Mul(&evals[i], &vanishingEvals[i])
	}
	timesZeroCoeffs, err := s.extDomain.FFTFr(timesZero, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Divide (P*Z) by Z in evaluation form over a coset, where Z has no
	// roots.
	evalsOverCoset, err := s.extDomain.CosetFFTFr(timesZeroCoeffs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	vanishingOverCoset, err := s.extDomain.CosetFFTFr(vanishingCoeffs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	inverses, err := bls.BatchInverse(vanishingOverCoset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	for i := range evalsOverCoset {
		evalsOverCoset[i].Mul(&evalsOverCoset[i], &inverses[i])
	}

	recoveredCoeffs, err := s.extDomain.CosetIFFTFr(evalsOverCoset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	recovered, err := s.extDomain.FFTFr(recoveredCoeffs, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := fft.BitReversalPermutation(recovered); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return recovered, nil
}

// vanishingPolynomialForMissingCells builds the monomial coefficients
// of the polynomial vanishing on every evaluation point of the missing
// cells. Each missing cell index selects one root from the subgroup of
// order CellsPerExtBlob; substituting x^FieldElementsPerCell spreads
// each root over the cell's full coset.
func (s *Settings) vanishingPolynomialForMissingCells(missingBRPIndices []uint64) ([]fr.Element, error) {
	if len(missingBRPIndices) == 0 || len(missingBRPIndices) >= CellsPerExtBlob {
		return nil, fmt.Errorf("%w: vanishing polynomial needs 1 to %d roots", ErrBadArgs, CellsPerExtBlob-1)
	}

	stride := uint64(FieldElementsPerExtBlob / CellsPerExtBlob)
	roots := make([]fr.Element, len(missingBRPIndices))
	for i, idx := range missingBRPIndices {
		roots[i] = s.extDomain.RootsOfUnity[idx*stride]
	}
	short := vanishingPolynomialFromRoots(roots)

	coeffs := make([]fr.Element, FieldElementsPerExtBlob)
	for i := range short {
		coeffs[i*FieldElementsPerCell] = short[i]
	}
	return coeffs, nil
}

// vanishingPolynomialFromRoots multiplies out prod (x - r_i), returning
// len(roots)+1 coefficients in monomial order.
func vanishingPolynomialFromRoots(roots []fr.Element) []fr.Element {
	poly := make([]fr.Element, len(roots)+1)
	poly[0].Neg(&roots[0])

	var negRoot fr.Element
	for i := 1; i < len(roots); i++ {
		negRoot.Neg(&roots[i])
		poly[i].Add(&negRoot, &poly[i-1])
		for j := i - 1; j > 0; j-- {
			poly[j].Mul(&poly[j], &negRoot)
			poly[j].Add(&poly[j], &poly[j-1])
		}
		poly[0].Mul(&poly[0], &negRoot)
	}
	poly[len(roots)] = fr.One()
	return poly
}
