package kzg

import (
	"bytes"
	"errors"
	"testing"
)

func TestComputeCellsExtendsBlob(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(20)

	cells, err := s.ComputeCells(&blob)
	if err != nil {
		t.Fatalf("ComputeCells: %v", err)
	}
	if len(cells) != CellsPerExtBlob {
		t.Fatalf("got %d cells, want %d", len(cells), CellsPerExtBlob)
	}

	// The first half of the cells carries the blob's own data.
	var first bytes.Buffer
	for i := 0; i < CellsPerBlob; i++ {
		first.Write(cells[i][:])
	}
	if !bytes.Equal(first.Bytes(), blob[:]) {
		t.Error("first half of the extended blob does not reproduce the blob")
	}
}

func TestComputeCellsAndKZGProofsMatchesComputeCells(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(21)

	cellsOnly, err := s.ComputeCells(&blob)
	if err != nil {
		t.Fatalf("ComputeCells: %v", err)
	}
	cells, proofs, err := s.ComputeCellsAndKZGProofs(&blob)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs: %v", err)
	}
	if len(proofs) != CellsPerExtBlob {
		t.Fatalf("got %d proofs, want %d", len(proofs), CellsPerExtBlob)
	}
	for i := range cells {
		if cells[i] != cellsOnly[i] {
			t.Fatalf("cell %d differs between the two entry points", i)
		}
	}
}

func TestComputeCellsRejectsBadBlob(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(22)
	for i := 0; i < BytesPerFieldElement; i++ {
		blob[i] = 0xff
	}
	if _, err := s.ComputeCells(&blob); !errors.Is(err, ErrBadScalar) {
		t.Errorf("got %v, want ErrBadScalar", err)
	}
}

func TestVerifyCellKZGProofBatch(t *testing.T) {
	s := testSetup(t)

	blobA := testBlob(30)
	blobB := testBlob(31)
	commitA, err := s.BlobToKZGCommitment(&blobA)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	commitB, err := s.BlobToKZGCommitment(&blobB)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	cellsA, proofsA, err := s.ComputeCellsAndKZGProofs(&blobA)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs: %v", err)
	}
	cellsB, proofsB, err := s.ComputeCellsAndKZGProofs(&blobB)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs: %v", err)
	}

	// Interleave cells of both blobs into one batch.
	var commitments []Bytes48
	var cellIndices []uint64
	var cells []Cell
	var proofs []Bytes48
	for i := 0; i < CellsPerExtBlob; i++ {
		commitments = append(commitments, Bytes48(commitA), Bytes48(commitB))
		cellIndices = append(cellIndices, uint64(i), uint64(i))
		cells = append(cells, cellsA[i], cellsB[i])
		proofs = append(proofs, Bytes48(proofsA[i]), Bytes48(proofsB[i]))
	}

	ok, err := s.VerifyCellKZGProofBatch(commitments, cellIndices, cells, proofs)
	if err != nil {
		t.Fatalf("VerifyCellKZGProofBatch: %v", err)
	}
	if !ok {
		t.Fatal("valid cell batch rejected")
	}

	// Corrupting one cell fails the whole batch.
	cells[17][0] ^= 1
	ok, err = s.VerifyCellKZGProofBatch(commitments, cellIndices, cells, proofs)
	if err == nil && ok {
		t.Fatal("batch with corrupted cell accepted")
	}
	cells[17][0] ^= 1

	// Attributing a cell to the wrong commitment fails too.
	commitments[0] = Bytes48(commitB)
	ok, err = s.VerifyCellKZGProofBatch(commitments, cellIndices, cells, proofs)
	if err != nil {
		t.Fatalf("VerifyCellKZGProofBatch with wrong commitment: %v", err)
	}
	if ok {
		t.Fatal("batch with misattributed cell accepted")
	}
	commitments[0] = Bytes48(commitA)
}

func TestVerifyCellKZGProofBatchSubset(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(32)
	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	cells, proofs, err := s.ComputeCellsAndKZGProofs(&blob)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs: %v", err)
	}

	indices := []uint64{0, 1, 63, 64, 127}
	var commitments []Bytes48
	var subsetCells []Cell
	var subsetProofs []Bytes48
	for _, idx := range indices {
		commitments = append(commitments, Bytes48(commitment))
		subsetCells = append(subsetCells, cells[idx])
		subsetProofs = append(subsetProofs, Bytes48(proofs[idx]))
	}

	ok, err := s.VerifyCellKZGProofBatch(commitments, indices, subsetCells, subsetProofs)
	if err != nil {
		t.Fatalf("VerifyCellKZGProofBatch: %v", err)
	}
	if !ok {
		t.Fatal("valid subset batch rejected")
	}
}

func TestVerifyCellKZGProofBatchValidation(t *testing.T) {
	s := testSetup(t)

	// Empty batches are vacuously valid.
	ok, err := s.VerifyCellKZGProofBatch(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if !ok {
		t.Fatal("empty batch rejected")
	}

	var commitment Bytes48
	commitment[0] = 0xc0
	var cell Cell
	if _, err := s.VerifyCellKZGProofBatch([]Bytes48{commitment}, []uint64{CellsPerExtBlob}, []Cell{cell}, []Bytes48{commitment}); !errors.Is(err, ErrBadCellIndex) {
		t.Errorf("got %v, want ErrBadCellIndex", err)
	}
	if _, err := s.VerifyCellKZGProofBatch([]Bytes48{commitment}, []uint64{0, 1}, []Cell{cell}, []Bytes48{commitment}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestComputeCellsAndKZGProofsWithPrecompute(t *testing.T) {
	g1Mono, g1Lag, g2Mono := testSetupBytes(t)
	withTables, err := LoadTrustedSetup(g1Mono, g1Lag, g2Mono, 4)
	if err != nil {
		t.Fatalf("LoadTrustedSetup with precompute: %v", err)
	}
	defer withTables.Free()

	blob := testBlob(33)
	cells, proofs, err := testSetup(t).ComputeCellsAndKZGProofs(&blob)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs: %v", err)
	}
	cellsP, proofsP, err := withTables.ComputeCellsAndKZGProofs(&blob)
	if err != nil {
		t.Fatalf("ComputeCellsAndKZGProofs with precompute: %v", err)
	}
	for i := range cells {
		if cells[i] != cellsP[i] {
			t.Fatalf("cell %d differs with precompute enabled", i)
		}
		if proofs[i] != proofsP[i] {
			t.Fatalf("proof %d differs with precompute enabled", i)
		}
	}
}
