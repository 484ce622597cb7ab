package kzg

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
)

// blobToPolynomial deserializes a blob into its 4096 field elements,
// the evaluations of the blob polynomial over the bit-reversal permuted
// domain. Every 32-byte chunk must be a canonical big-endian scalar.
func blobToPolynomial(blob *Blob) ([]fr.Element, error) {
	poly := make([]fr.Element, FieldElementsPerBlob)
	for i := 0; i < FieldElementsPerBlob; i++ {
		var chunk [BytesPerFieldElement]byte
		copy(chunk[:], blob[i*BytesPerFieldElement:])
		el, err := bls.ScalarFromBytes(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: blob element %d", ErrBadScalar, i)
		}
		poly[i] = el
	}
	return poly, nil
}

// cellToFieldElements deserializes one cell into its 64 field elements.
func cellToFieldElements(cell *Cell) ([]fr.Element, error) {
	out := make([]fr.Element, FieldElementsPerCell)
	for i := 0; i < FieldElementsPerCell; i++ {
		var chunk [BytesPerFieldElement]byte
		copy(chunk[:], cell[i*BytesPerFieldElement:])
		el, err := bls.ScalarFromBytes(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: cell element %d", ErrBadScalar, i)
		}
		out[i] = el
	}
	return out, nil
}

// fieldElementsToCell serializes 64 field elements into a cell.
func fieldElementsToCell(evals []fr.Element) Cell {
	var cell Cell
	for i := 0; i < FieldElementsPerCell; i++ {
		b := bls.ScalarToBytes(&evals[i])
		copy(cell[i*BytesPerFieldElement:], b[:])
	}
	return cell
}
