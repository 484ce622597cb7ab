// Package kzg implements KZG polynomial commitments over BLS12-381 for
// blob data: commitment and opening-proof computation and verification
// for 4096-element blobs, plus the extended-blob cell subsystem with
// FK20 batch proofs, batched verification, and erasure recovery of
// missing cells.
package kzg

import (
	"github.com/eth2030/kzg/bls"
)

const (
	// FieldElementsPerBlob is the number of field elements in a blob.
	FieldElementsPerBlob = 4096

	// FieldElementsPerExtBlob is the number of field elements in an
	// extended blob, after a 2x erasure-coding extension.
	FieldElementsPerExtBlob = 2 * FieldElementsPerBlob

	// FieldElementsPerCell is the number of field elements in one cell
	// of an extended blob.
	FieldElementsPerCell = 64

	// CellsPerBlob is the number of cells covering the original blob.
	CellsPerBlob = FieldElementsPerBlob / FieldElementsPerCell

	// CellsPerExtBlob is the number of cells in an extended blob.
	CellsPerExtBlob = FieldElementsPerExtBlob / FieldElementsPerCell

	// BytesPerFieldElement is the serialized size of a scalar.
	BytesPerFieldElement = bls.BytesPerFieldElement

	// BytesPerBlob is the serialized size of a blob.
	BytesPerBlob = FieldElementsPerBlob * BytesPerFieldElement

	// BytesPerCell is the serialized size of one cell.
	BytesPerCell = FieldElementsPerCell * BytesPerFieldElement

	// BytesPerCommitment is the serialized size of a commitment.
	BytesPerCommitment = bls.BytesPerG1

	// BytesPerProof is the serialized size of an opening proof.
	BytesPerProof = bls.BytesPerG1

	// NumG2Points is the number of G2 monomial points in a trusted
	// setup, enough to open degree-64 vanishing polynomials.
	NumG2Points = FieldElementsPerCell + 1
)

// Blob is a serialized vector of 4096 field elements, each big-endian
// and canonical.
type Blob [BytesPerBlob]byte

// Cell is one serialized 64-element column of an extended blob.
type Cell [BytesPerCell]byte

// Bytes32 is a serialized field element.
type Bytes32 [32]byte

// Bytes48 is a serialized compressed G1 point.
type Bytes48 [48]byte

// KZGCommitment is a serialized commitment to a blob polynomial.
type KZGCommitment Bytes48

// KZGProof is a serialized opening or cell proof.
type KZGProof Bytes48
