package bls

import (
	"errors"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func TestNewFixedBaseTableRejectsBadWindow(t *testing.T) {
	points, _ := testPointsAndScalars(2)
	if _, err := NewFixedBaseTable(points, 0); !errors.Is(err, ErrBadWindowBits) {
		t.Errorf("wbits 0: got %v, want ErrBadWindowBits", err)
	}
	if _, err := NewFixedBaseTable(points, MaxWindowBits+1); !errors.Is(err, ErrBadWindowBits) {
		t.Errorf("wbits %d: got %v, want ErrBadWindowBits", MaxWindowBits+1, err)
	}
}

func TestFixedBaseMultiExpMatchesNaive(t *testing.T) {
	points, scalars := testPointsAndScalars(9)

	// Include awkward scalars: zero, one, and -1.
	scalars[0].SetZero()
	scalars[1].SetOne()
	var one fr.Element
	one.SetOne()
	scalars[2].Neg(&one)
	// And an identity point.
	points[3].X.SetZero()
	points[3].Y.SetZero()

	want, err := G1LincombNaive(points, scalars)
	if err != nil {
		t.Fatalf("G1LincombNaive: %v", err)
	}

	for _, wbits := range []uint64{1, 4, 8} {
		table, err := NewFixedBaseTable(points, wbits)
		if err != nil {
			t.Fatalf("NewFixedBaseTable(%d): %v", wbits, err)
		}
		got, err := table.MultiExp(scalars)
		if err != nil {
			t.Fatalf("MultiExp(%d): %v", wbits, err)
		}
		if !got.Equal(&want) {
			t.Errorf("wbits %d: result differs from naive linear combination", wbits)
		}
	}
}

func TestFixedBaseMultiExpLengthMismatch(t *testing.T) {
	points, scalars := testPointsAndScalars(4)
	table, err := NewFixedBaseTable(points, 4)
	if err != nil {
		t.Fatalf("NewFixedBaseTable: %v", err)
	}
	if _, err := table.MultiExp(scalars[:2]); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestFixedBaseMultiExpAllZero(t *testing.T) {
	points, _ := testPointsAndScalars(3)
	table, err := NewFixedBaseTable(points, 4)
	if err != nil {
		t.Fatalf("NewFixedBaseTable: %v", err)
	}
	out, err := table.MultiExp(make([]fr.Element, 3))
	if err != nil {
		t.Fatalf("MultiExp: %v", err)
	}
	var infinity bls12381.G1Affine
	if !out.Equal(&infinity) {
		t.Error("all-zero scalars should give the identity")
	}
}
