package kzg

import (
	"errors"
	"testing"

	"github.com/eth2030/kzg/bls"
)

func TestBlobToCommitmentDeterministic(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(1)

	c1, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	c2, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	if c1 != c2 {
		t.Error("same blob gave different commitments")
	}

	other := testBlob(2)
	c3, err := s.BlobToKZGCommitment(&other)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	if c1 == c3 {
		t.Error("different blobs gave the same commitment")
	}
}

func TestBlobToCommitmentRejectsBadScalar(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(1)
	for i := 0; i < BytesPerFieldElement; i++ {
		blob[100*BytesPerFieldElement+i] = 0xff
	}
	if _, err := s.BlobToKZGCommitment(&blob); !errors.Is(err, ErrBadScalar) {
		t.Errorf("got %v, want ErrBadScalar", err)
	}
	if _, err := s.BlobToKZGCommitment(&blob); !errors.Is(err, ErrBadArgs) {
		t.Errorf("got %v, want it to match ErrBadArgs", err)
	}
}

func TestComputeAndVerifyKZGProof(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(3)
	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}

	var z Bytes32
	z[31] = 42
	proof, y, err := s.ComputeKZGProof(&blob, z)
	if err != nil {
		t.Fatalf("ComputeKZGProof: %v", err)
	}

	ok, err := s.VerifyKZGProof(Bytes48(commitment), z, y, Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyKZGProof: %v", err)
	}
	if !ok {
		t.Fatal("valid proof rejected")
	}

	// A wrong claimed value must fail verification, not error.
	var badY Bytes32
	copy(badY[:], y[:])
	badY[31] ^= 1
	ok, err = s.VerifyKZGProof(Bytes48(commitment), z, badY, Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyKZGProof with wrong y: %v", err)
	}
	if ok {
		t.Fatal("proof accepted for wrong evaluation")
	}
}

func TestVerifyKZGProofRejectsNegatedProof(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(6)
	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}

	var z Bytes32
	z[31] = 7
	proof, y, err := s.ComputeKZGProof(&blob, z)
	if err != nil {
		t.Fatalf("ComputeKZGProof: %v", err)
	}
	ok, err := s.VerifyKZGProof(Bytes48(commitment), z, y, Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyKZGProof: %v", err)
	}
	if !ok {
		t.Fatal("valid proof rejected")
	}

	// The negated proof point satisfies the pairing equation only if
	// the quotient was computed with the wrong sign.
	p, err := bls.G1FromBytes(Bytes48(proof))
	if err != nil {
		t.Fatalf("G1FromBytes: %v", err)
	}
	p.Neg(&p)
	ok, err = s.VerifyKZGProof(Bytes48(commitment), z, y, bls.G1ToBytes(&p))
	if err != nil {
		t.Fatalf("VerifyKZGProof with negated proof: %v", err)
	}
	if ok {
		t.Fatal("negated proof accepted")
	}
}

func TestComputeKZGProofInDomain(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(4)
	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}

	// Open at a point inside the evaluation domain: y must equal the
	// blob element stored at that position.
	const idx = 5
	root := s.blobDomain.BRPRootsOfUnity[idx]
	z := Bytes32(bls.ScalarToBytes(&root))

	proof, y, err := s.ComputeKZGProof(&blob, z)
	if err != nil {
		t.Fatalf("ComputeKZGProof: %v", err)
	}

	var want Bytes32
	copy(want[:], blob[idx*BytesPerFieldElement:(idx+1)*BytesPerFieldElement])
	if y != want {
		t.Fatal("in-domain evaluation does not match the blob element")
	}

	ok, err := s.VerifyKZGProof(Bytes48(commitment), z, y, Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyKZGProof: %v", err)
	}
	if !ok {
		t.Fatal("valid in-domain proof rejected")
	}
}

func TestVerifyKZGProofRejectsBadInputs(t *testing.T) {
	s := testSetup(t)

	var badPoint Bytes48
	for i := range badPoint {
		badPoint[i] = 0xff
	}
	var z, y Bytes32
	var goodPoint Bytes48
	goodPoint[0] = 0xc0

	if _, err := s.VerifyKZGProof(badPoint, z, y, goodPoint); !errors.Is(err, ErrBadPoint) {
		t.Errorf("bad commitment: got %v, want ErrBadPoint", err)
	}
	if _, err := s.VerifyKZGProof(goodPoint, z, y, badPoint); !errors.Is(err, ErrBadPoint) {
		t.Errorf("bad proof: got %v, want ErrBadPoint", err)
	}

	var badScalar Bytes32
	for i := range badScalar {
		badScalar[i] = 0xff
	}
	if _, err := s.VerifyKZGProof(goodPoint, badScalar, y, goodPoint); !errors.Is(err, ErrBadScalar) {
		t.Errorf("bad z: got %v, want ErrBadScalar", err)
	}
}

func TestBlobProofRoundTrip(t *testing.T) {
	s := testSetup(t)
	blob := testBlob(5)
	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	proof, err := s.ComputeBlobKZGProof(&blob, Bytes48(commitment))
	if err != nil {
		t.Fatalf("ComputeBlobKZGProof: %v", err)
	}

	ok, err := s.VerifyBlobKZGProof(&blob, Bytes48(commitment), Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyBlobKZGProof: %v", err)
	}
	if !ok {
		t.Fatal("valid blob proof rejected")
	}

	// Tampering with the blob invalidates the proof.
	tampered := blob
	tampered[0] ^= 1
	ok, err = s.VerifyBlobKZGProof(&tampered, Bytes48(commitment), Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyBlobKZGProof on tampered blob: %v", err)
	}
	if ok {
		t.Fatal("tampered blob accepted")
	}
}

func TestZeroBlob(t *testing.T) {
	s := testSetup(t)
	var blob Blob

	commitment, err := s.BlobToKZGCommitment(&blob)
	if err != nil {
		t.Fatalf("BlobToKZGCommitment: %v", err)
	}
	var wantInfinity KZGCommitment
	wantInfinity[0] = 0xc0
	if commitment != wantInfinity {
		t.Error("zero blob should commit to the point at infinity")
	}

	proof, err := s.ComputeBlobKZGProof(&blob, Bytes48(commitment))
	if err != nil {
		t.Fatalf("ComputeBlobKZGProof: %v", err)
	}
	ok, err := s.VerifyBlobKZGProof(&blob, Bytes48(commitment), Bytes48(proof))
	if err != nil {
		t.Fatalf("VerifyBlobKZGProof: %v", err)
	}
	if !ok {
		t.Fatal("zero blob proof rejected")
	}
}

func TestVerifyBlobKZGProofBatch(t *testing.T) {
	s := testSetup(t)

	const n = 3
	blobs := make([]Blob, n)
	commitments := make([]Bytes48, n)
	proofs := make([]Bytes48, n)
	for i := 0; i < n; i++ {
		blobs[i] = testBlob(uint64(10 + i))
		c, err := s.BlobToKZGCommitment(&blobs[i])
		if err != nil {
			t.Fatalf("BlobToKZGCommitment %d: %v", i, err)
		}
		commitments[i] = Bytes48(c)
		p, err := s.ComputeBlobKZGProof(&blobs[i], commitments[i])
		if err != nil {
			t.Fatalf("ComputeBlobKZGProof %d: %v", i, err)
		}
		proofs[i] = Bytes48(p)
	}

	ok, err := s.VerifyBlobKZGProofBatch(blobs, commitments, proofs)
	if err != nil {
		t.Fatalf("VerifyBlobKZGProofBatch: %v", err)
	}
	if !ok {
		t.Fatal("valid batch rejected")
	}

	// Swapping two proofs breaks the batch.
	proofs[0], proofs[1] = proofs[1], proofs[0]
	ok, err = s.VerifyBlobKZGProofBatch(blobs, commitments, proofs)
	if err != nil {
		t.Fatalf("VerifyBlobKZGProofBatch with swapped proofs: %v", err)
	}
	if ok {
		t.Fatal("batch with swapped proofs accepted")
	}
	proofs[0], proofs[1] = proofs[1], proofs[0]

	// The empty batch is vacuously valid.
	ok, err = s.VerifyBlobKZGProofBatch(nil, nil, nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if !ok {
		t.Fatal("empty batch rejected")
	}

	// A single-element batch agrees with direct verification.
	ok, err = s.VerifyBlobKZGProofBatch(blobs[:1], commitments[:1], proofs[:1])
	if err != nil {
		t.Fatalf("single-element batch: %v", err)
	}
	if !ok {
		t.Fatal("single-element batch rejected")
	}

	if _, err := s.VerifyBlobKZGProofBatch(blobs, commitments[:2], proofs); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}
