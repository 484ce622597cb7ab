package kzg

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
)

// Domain separators for the Fiat-Shamir transcripts. Each is exactly 16
// bytes and unique to one protocol.
const (
	domainBlobChallenge = "FSBLOBVERIFY_V1_"
	domainBlobBatch     = "RCKZGBATCH___V1_"
	domainCellBatch     = "RCKZGCBATCH__V1_"
)

func hashUint64(h hash.Hash, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

// computeChallenge derives the blob evaluation challenge, binding the
// blob contents and its commitment. The degree is encoded as 16
// big-endian bytes for forward compatibility with wider fields.
func computeChallenge(blob *Blob, commitment *Bytes48) fr.Element {
	h := sha256.New()
	h.Write([]byte(domainBlobChallenge))
	hashUint64(h, 0)
	hashUint64(h, FieldElementsPerBlob)
	h.Write(blob[:])
	h.Write(commitment[:])
	var digest [32]byte
	h.Sum(digest[:0])
	return bls.HashToScalar(digest)
}

// computeRPowers derives the batch combination scalars for blob proof
// verification: powers of a single challenge bound to every
// (commitment, point, claim, proof) tuple in the batch.
func computeRPowers(commitments []Bytes48, zs, ys []fr.Element, proofs []Bytes48) []fr.Element {
	n := len(commitments)
	h := sha256.New()
	h.Write([]byte(domainBlobBatch))
	hashUint64(h, FieldElementsPerBlob)
	hashUint64(h, uint64(n))
	for i := 0; i < n; i++ {
		h.Write(commitments[i][:])
		zb := bls.ScalarToBytes(&zs[i])
		h.Write(zb[:])
		yb := bls.ScalarToBytes(&ys[i])
		h.Write(yb[:])
		h.Write(proofs[i][:])
	}
	var digest [32]byte
	h.Sum(digest[:0])
	r := bls.HashToScalar(digest)
	return bls.ComputePowers(&r, n)
}

// computeCellChallenge derives the combination challenge for cell batch
// verification, binding the deduplicated commitment list and every
// (commitment index, cell index, cell, proof) tuple.
func computeCellChallenge(commitments []Bytes48, commitmentIndices, cellIndices []uint64, cells []Cell, proofs []Bytes48) fr.Element {
	h := sha256.New()
	h.Write([]byte(domainCellBatch))
	hashUint64(h, FieldElementsPerCell)
	hashUint64(h, uint64(len(commitments)))
	hashUint64(h, uint64(len(cells)))
	for i := range commitments {
		h.Write(commitments[i][:])
	}
	for i := range cells {
		hashUint64(h, commitmentIndices[i])
		hashUint64(h, cellIndices[i])
		h.Write(cells[i][:])
		h.Write(proofs[i][:])
	}
	var digest [32]byte
	h.Sum(digest[:0])
	return bls.HashToScalar(digest)
}
