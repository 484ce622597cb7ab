package kzg

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"

	"github.com/eth2030/kzg/bls"
)

// circulantSize is the order of the circulant embedding of the FK20
// Toeplitz matrices, twice the number of matrix rows.
const circulantSize = 2 * CellsPerBlob

// initFK20 precomputes the transformed setup points for FK20 cell
// proofs. For each coefficient stride offset the relevant monomial
// setup points are zero-extended and transformed once; the results are
// stored transposed, one point row per circulant index, so that proof
// computation reduces to one small MSM per row.
func (s *Settings) initFK20() error {
	s.xExtFFTColumns = make([][]bls12381.G1Affine, circulantSize)
	for i := range s.xExtFFTColumns {
		s.xExtFFTColumns[i] = make([]bls12381.G1Affine, FieldElementsPerCell)
	}

	var infinity bls12381.G1Jac
	infinity.X.SetOne()
	infinity.Y.SetOne()

	x := make([]bls12381.G1Jac, circulantSize)
	for offset := 0; offset < FieldElementsPerCell; offset++ {
		start := FieldElementsPerBlob - FieldElementsPerCell - 1 - offset
		for i := 0; i < CellsPerBlob-1; i++ {
			x[i].FromAffine(&s.g1Monomial[start-i*FieldElementsPerCell])
		}
		for i := CellsPerBlob - 1; i < circulantSize; i++ {
			x[i].Set(&infinity)
		}
		points, err := s.extDomain.FFTG1(x, false)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		for row := 0; row < circulantSize; row++ {
			s.xExtFFTColumns[row][offset].FromJacobian(&points[row])
		}
	}

	if s.wbits > 0 {
		s.tables = make([]*bls.FixedBaseTable, circulantSize)
		for row := 0; row < circulantSize; row++ {
			table, err := bls.NewFixedBaseTable(s.xExtFFTColumns[row], s.wbits)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			s.tables[row] = table
		}
	}
	return nil
}

// toeplitzCoeffsStride extracts the strided coefficient diagonal for
// one FK20 Toeplitz matrix, embedded in a circulant of twice the size.
func toeplitzCoeffsStride(out, coeffs []fr.Element, offset int) {
	out[0] = coeffs[FieldElementsPerBlob-1-offset]
	for i := 1; i <= CellsPerBlob+1; i++ {
		out[i].SetZero()
	}
	j := 2*FieldElementsPerCell - offset - 1
	for i := CellsPerBlob + 2; i < circulantSize; i++ {
		out[i] = coeffs[j]
		j += FieldElementsPerCell
	}
}

// computeFK20CellProofs computes the CellsPerExtBlob cell proofs for a
// blob polynomial in monomial form, in standard (non-permuted) order.
// The per-row MSMs are independent and run in parallel.
func (s *Settings) computeFK20CellProofs(coeffs []fr.Element) ([]bls12381.G1Affine, error) {
	// Transform every Toeplitz diagonal once, then regroup the results
	// by circulant row.
	coeffsFFT := make([][]fr.Element, FieldElementsPerCell)
	toeplitz := make([]fr.Element, circulantSize)
	for offset := 0; offset < FieldElementsPerCell; offset++ {
		toeplitzCoeffsStride(toeplitz, coeffs, offset)
		transformed, err := s.extDomain.FFTFr(toeplitz, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		coeffsFFT[offset] = transformed
	}

	hExtFFT := make([]bls12381.G1Jac, circulantSize)
	var g errgroup.Group
	for row := 0; row < circulantSize; row++ {
		row := row
		g.Go(func() error {
			scalars := make([]fr.Element, FieldElementsPerCell)
			for offset := 0; offset < FieldElementsPerCell; offset++ {
				scalars[offset] = coeffsFFT[offset][row]
			}
			var sum bls12381.G1Affine
			var err error
			if s.tables != nil {
				sum, err = s.tables[row].MultiExp(scalars)
			} else {
				sum, err = bls.G1LincombFast(s.xExtFFTColumns[row], scalars)
			}
			if err != nil {
				return err
			}
			hExtFFT[row].FromAffine(&sum)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	h, err := s.extDomain.FFTG1(hExtFFT, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	var infinity bls12381.G1Jac
	infinity.X.SetOne()
	infinity.Y.SetOne()
	for i := CellsPerBlob; i < circulantSize; i++ {
		h[i].Set(&infinity)
	}
	proofsJac, err := s.extDomain.FFTG1(h, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	proofs := make([]bls12381.G1Affine, circulantSize)
	for i := range proofsJac {
		proofs[i].FromJacobian(&proofsJac[i])
	}
	return proofs, nil
}
