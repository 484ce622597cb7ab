package kzg

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
	"github.com/eth2030/kzg/fft"
)

// VerifyCellKZGProofBatch verifies a batch of cell proofs against their
// blob commitments with a single pairing. Entry i claims that cell
// cells[i] sits at index cellIndices[i] of the extended blob committed
// to by commitmentsBytes[i]. The empty batch is valid.
func (s *Settings) VerifyCellKZGProofBatch(commitmentsBytes []Bytes48, cellIndices []uint64, cells []Cell, proofsBytes []Bytes48) (bool, error) {
	if len(commitmentsBytes) != len(cells) || len(cellIndices) != len(cells) || len(proofsBytes) != len(cells) {
		return false, ErrLengthMismatch
	}
	if len(cells) == 0 {
		return true, nil
	}
	if s.g2Monomial == nil {
		return false, ErrSetupNotLoaded
	}
	for _, idx := range cellIndices {
		if idx >= CellsPerExtBlob {
			return false, fmt.Errorf("%w: %d", ErrBadCellIndex, idx)
		}
	}

	numCells := len(cells)
	uniqueCommitments, commitmentIndices := deduplicateCommitments(commitmentsBytes)

	// The challenge binds everything the prover controls.
	r := computeCellChallenge(uniqueCommitments, commitmentIndices, cellIndices, cells, proofsBytes)
	rPowers := bls.ComputePowers(&r, numCells)

	proofs := make([]bls12381.G1Affine, numCells)
	for i := 0; i < numCells; i++ {
		p, err := bls.G1FromBytes(proofsBytes[i])
		if err != nil {
			return false, fmt.Errorf("%w: proof %d", ErrBadPoint, i)
		}
		proofs[i] = p
	}

	proofLincomb, err := bls.G1LincombFast(proofs, rPowers)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	commitmentSum, err := s.weightedSumOfCommitments(uniqueCommitments, commitmentIndices, rPowers)
	if err != nil {
		return false, err
	}

	interpolationCommit, err := s.aggregatedInterpolationCommitment(rPowers, cellIndices, cells)
	if err != nil {
		return false, err
	}

	weightedProofSum, err := s.weightedSumOfProofs(proofs, rPowers, cellIndices)
	if err != nil {
		return false, err
	}

	// final = Σ r_i C_i - RLI + Σ r_i h_k^n proof_i
	var finalSum, tmp bls12381.G1Jac
	finalSum.FromAffine(&commitmentSum)
	tmp.FromAffine(&interpolationCommit)
	finalSum.SubAssign(&tmp)
	finalSum.AddMixed(&weightedProofSum)
	var finalSumAff bls12381.G1Affine
	finalSumAff.FromJacobian(&finalSum)

	g2Gen := bls.G2Generator()
	powerOfS := s.g2Monomial[FieldElementsPerCell]
	return bls.PairingsVerify(&finalSumAff, &g2Gen, &proofLincomb, &powerOfS), nil
}

// deduplicateCommitments collapses repeated commitments, returning the
// unique list and, per input entry, the index of its commitment in that
// list.
func deduplicateCommitments(commitments []Bytes48) ([]Bytes48, []uint64) {
	unique := make([]Bytes48, 0, len(commitments))
	indices := make([]uint64, len(commitments))
	seen := make(map[Bytes48]uint64, len(commitments))
	for i, c := range commitments {
		idx, ok := seen[c]
		if !ok {
			idx = uint64(len(unique))
			seen[c] = idx
			unique = append(unique, c)
		}
		indices[i] = idx
	}
	return unique, indices
}

// weightedSumOfCommitments computes Σ_i r_i C_{index(i)} by summing the
// powers per unique commitment first, keeping the MSM small.
func (s *Settings) weightedSumOfCommitments(uniqueCommitments []Bytes48, commitmentIndices []uint64, rPowers []fr.Element) (bls12381.G1Affine, error) {
	points := make([]bls12381.G1Affine, len(uniqueCommitments))
	for i := range uniqueCommitments {
		p, err := bls.G1FromBytes(uniqueCommitments[i])
		if err != nil {
			return bls12381.G1Affine{}, fmt.Errorf("%w: commitment %d", ErrBadPoint, i)
		}
		points[i] = p
	}
	weights := make([]fr.Element, len(uniqueCommitments))
	for i, idx := range commitmentIndices {
		weights[idx].Add(&weights[idx], &rPowers[i])
	}
	sum, err := bls.G1LincombFast(points, weights)
	if err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return sum, nil
}

// aggregatedInterpolationCommitment commits to the sum over used
// columns of the interpolation polynomial of the r-weighted column
// aggregate: RLI = [Σ_k r^k interpolation_poly_k(s)].
func (s *Settings) aggregatedInterpolationCommitment(rPowers []fr.Element, cellIndices []uint64, cells []Cell) (bls12381.G1Affine, error) {
	// Collapse all cells of the same column into one r-weighted column.
	aggregated := make([]fr.Element, FieldElementsPerExtBlob)
	used := make([]bool, CellsPerExtBlob)
	for i := range cells {
		column := cellIndices[i]
		used[column] = true
		evals, err := cellToFieldElements(&cells[i])
		if err != nil {
			return bls12381.G1Affine{}, err
		}
		var scaled fr.Element
		for j := 0; j < FieldElementsPerCell; j++ {
			idx := column*FieldElementsPerCell + uint64(j)
			scaled.Mul(&evals[j], &rPowers[i])
			aggregated[idx].Add(&aggregated[idx], &scaled)
		}
	}

	// Interpolate each used column over its coset. The cell's points
	// are h_k * H for the 64-element subgroup H, so interpolate over H
	// and unshift by h_k^{-1}.
	aggregatedPoly := make([]fr.Element, FieldElementsPerCell)
	for i := uint64(0); i < CellsPerExtBlob; i++ {
		if !used[i] {
			continue
		}
		column := aggregated[i*FieldElementsPerCell : (i+1)*FieldElementsPerCell]
		if err := fft.BitReversalPermutation(column); err != nil {
			return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		columnPoly, err := s.blobDomain.FFTFr(column, true)
		if err != nil {
			return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		invCosetFactor := s.invCosetShiftForCell(i)
		fft.ShiftPoly(columnPoly, &invCosetFactor)
		for k := 0; k < FieldElementsPerCell; k++ {
			aggregatedPoly[k].Add(&aggregatedPoly[k], &columnPoly[k])
		}
	}

	commit, err := bls.G1LincombFast(s.g1Monomial[:FieldElementsPerCell], aggregatedPoly)
	if err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return commit, nil
}

// weightedSumOfProofs computes Σ_i r_i h_k^n proof_i where h_k is the
// coset factor of cell i's column and n the cell width, matching the
// x^n term each cell proof opens against.
func (s *Settings) weightedSumOfProofs(proofs []bls12381.G1Affine, rPowers []fr.Element, cellIndices []uint64) (bls12381.G1Affine, error) {
	weighted := make([]fr.Element, len(proofs))
	for i := range proofs {
		hkPow := s.cosetShiftPowForCell(cellIndices[i])
		weighted[i].Mul(&rPowers[i], &hkPow)
	}
	sum, err := bls.G1LincombFast(proofs, weighted)
	if err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return sum, nil
}

// invCosetShiftForCell returns h_k^{-1} for the cell's coset factor
// h_k, read from the reflected position in the roots table.
func (s *Settings) invCosetShiftForCell(cellIndex uint64) fr.Element {
	rbl := fft.ReverseBitsLimited(CellsPerExtBlob, cellIndex)
	return s.extDomain.RootsOfUnity[FieldElementsPerExtBlob-rbl]
}

// cosetShiftPowForCell returns h_k^n for the cell's coset factor,
// where n is FieldElementsPerCell.
func (s *Settings) cosetShiftPowForCell(cellIndex uint64) fr.Element {
	rbl := fft.ReverseBitsLimited(CellsPerExtBlob, cellIndex)
	return s.extDomain.RootsOfUnity[rbl*FieldElementsPerCell]
}
