package kzg

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/eth2030/kzg/bls"
	"github.com/eth2030/kzg/fft"
)

// MaxPrecompute is the largest allowed fixed-base window width for cell
// proof computation. Each extra bit doubles table memory.
const MaxPrecompute = bls.MaxWindowBits

// Settings holds a loaded trusted setup together with everything
// derived from it: evaluation domains, the FK20 circulant point tables,
// and optional fixed-base precomputation. A Settings is immutable after
// loading and safe for concurrent use.
type Settings struct {
	// g1Monomial holds [s^i]G1 for i < 4096.
	g1Monomial []bls12381.G1Affine

	// g1LagrangeBRP holds the Lagrange-basis G1 points in bit-reversal
	// permuted order, matching blob polynomial layout.
	g1LagrangeBRP []bls12381.G1Affine

	// g2Monomial holds [s^i]G2 for i < NumG2Points.
	g2Monomial []bls12381.G2Affine

	// blobDomain is the 4096-wide evaluation domain of blob
	// polynomials; extDomain is the 8192-wide domain of extended blobs.
	blobDomain *fft.Domain
	extDomain  *fft.Domain

	// xExtFFTColumns holds the FK20 circulant matrix points: row r of
	// the column-r MSM inputs, one slice of CellsPerBlob points per
	// circulant row.
	xExtFFTColumns [][]bls12381.G1Affine

	// tables holds one fixed-base MSM table per circulant row when
	// precompute is nonzero, nil otherwise.
	tables []*bls.FixedBaseTable

	// wbits is the fixed-base window width the tables were built with.
	wbits uint64
}

// LoadTrustedSetup deserializes and validates a trusted setup. The
// three byte slices hold the concatenated compressed points: 4096 G1
// monomial points, 4096 G1 Lagrange points in standard order, and
// NumG2Points G2 monomial points. precompute selects the fixed-base
// window width for cell proofs, 0 disabling precomputation.
func LoadTrustedSetup(g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes []byte, precompute uint64) (*Settings, error) {
	if precompute > MaxPrecompute {
		return nil, fmt.Errorf("%w: %d > %d", ErrBadPrecompute, precompute, MaxPrecompute)
	}
	if len(g1MonomialBytes) != FieldElementsPerBlob*bls.BytesPerG1 {
		return nil, fmt.Errorf("%w: g1 monomial bytes", ErrBadSetup)
	}
	if len(g1LagrangeBytes) != FieldElementsPerBlob*bls.BytesPerG1 {
		return nil, fmt.Errorf("%w: g1 lagrange bytes", ErrBadSetup)
	}
	if len(g2MonomialBytes) != NumG2Points*bls.BytesPerG2 {
		return nil, fmt.Errorf("%w: g2 monomial bytes", ErrBadSetup)
	}

	g1Monomial, err := deserializeG1Points(g1MonomialBytes)
	if err != nil {
		return nil, err
	}
	g1Lagrange, err := deserializeG1Points(g1LagrangeBytes)
	if err != nil {
		return nil, err
	}
	g2Monomial := make([]bls12381.G2Affine, NumG2Points)
	for i := 0; i < NumG2Points; i++ {
		var b [bls.BytesPerG2]byte
		copy(b[:], g2MonomialBytes[i*bls.BytesPerG2:])
		p, err := bls.G2FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: g2 point %d: %v", ErrBadSetup, i, err)
		}
		g2Monomial[i] = p
	}

	if err := checkSetupForm(g1Monomial, g1Lagrange, g2Monomial); err != nil {
		return nil, err
	}

	if err := fft.BitReversalPermutation(g1Lagrange); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	blobDomain, err := fft.NewDomain(FieldElementsPerBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	extDomain, err := fft.NewDomain(FieldElementsPerExtBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s := &Settings{
		g1Monomial:    g1Monomial,
		g1LagrangeBRP: g1Lagrange,
		g2Monomial:    g2Monomial,
		blobDomain:    blobDomain,
		extDomain:     extDomain,
		wbits:         precompute,
	}
	if err := s.initFK20(); err != nil {
		return nil, err
	}
	return s, nil
}

// deserializeG1Points splits and validates a concatenation of
// compressed G1 points.
func deserializeG1Points(data []byte) ([]bls12381.G1Affine, error) {
	n := len(data) / bls.BytesPerG1
	out := make([]bls12381.G1Affine, n)
	for i := 0; i < n; i++ {
		var b [bls.BytesPerG1]byte
		copy(b[:], data[i*bls.BytesPerG1:])
		p, err := bls.G1FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: g1 point %d: %v", ErrBadSetup, i, err)
		}
		out[i] = p
	}
	return out, nil
}

// checkSetupForm rejects setups whose point arrays are in the wrong
// basis. Monomial points satisfy e(P[i+1], g2[0]) == e(P[i], [s]G2);
// Lagrange points must not, or the two G1 arrays were swapped.
func checkSetupForm(g1Monomial, g1Lagrange []bls12381.G1Affine, g2Monomial []bls12381.G2Affine) error {
	if !bls.PairingsVerify(&g1Monomial[1], &g2Monomial[0], &g1Monomial[0], &g2Monomial[1]) {
		return fmt.Errorf("%w: g1 monomial points not in monomial form", ErrBadSetup)
	}
	if bls.PairingsVerify(&g1Lagrange[1], &g2Monomial[0], &g1Lagrange[0], &g2Monomial[1]) {
		return fmt.Errorf("%w: g1 lagrange points are in monomial form", ErrBadSetup)
	}
	return nil
}

// Free drops every precomputed table and point array so the memory can
// be reclaimed. The Settings must not be used afterwards.
func (s *Settings) Free() {
	s.g1Monomial = nil
	s.g1LagrangeBRP = nil
	s.g2Monomial = nil
	s.blobDomain = nil
	s.extDomain = nil
	s.xExtFFTColumns = nil
	s.tables = nil
}

// LoadTrustedSetupFile parses the canonical text form of a trusted
// setup: two decimal counts (G1 then G2 points) followed by the hex
// encoding of each point, one per line, Lagrange G1 points first, then
// G2 monomial, then G1 monomial.
func LoadTrustedSetupFile(r io.Reader, precompute uint64) (*Settings, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1024)

	lineNo := 0
	next := func() (string, error) {
		for sc.Scan() {
			lineNo++
			line := sc.Text()
			if line != "" {
				return line, nil
			}
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadSetup, err)
		}
		return "", fmt.Errorf("%w: unexpected end of setup file", ErrBadSetup)
	}

	var numG1, numG2 int
	line, err := next()
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Sscanf(line, "%d", &numG1); err != nil || numG1 != FieldElementsPerBlob {
		return nil, fmt.Errorf("%w: bad G1 point count", ErrBadSetup)
	}
	line, err = next()
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Sscanf(line, "%d", &numG2); err != nil || numG2 != NumG2Points {
		return nil, fmt.Errorf("%w: bad G2 point count", ErrBadSetup)
	}

	readPoints := func(count, size int) ([]byte, error) {
		out := make([]byte, 0, count*size)
		for i := 0; i < count; i++ {
			line, err := next()
			if err != nil {
				return nil, err
			}
			b, err := hex.DecodeString(line)
			if err != nil || len(b) != size {
				return nil, fmt.Errorf("%w: bad point encoding at line %d", ErrBadSetup, lineNo)
			}
			out = append(out, b...)
		}
		return out, nil
	}

	g1LagrangeBytes, err := readPoints(FieldElementsPerBlob, bls.BytesPerG1)
	if err != nil {
		return nil, err
	}
	g2MonomialBytes, err := readPoints(NumG2Points, bls.BytesPerG2)
	if err != nil {
		return nil, err
	}
	g1MonomialBytes, err := readPoints(FieldElementsPerBlob, bls.BytesPerG1)
	if err != nil {
		return nil, err
	}
	return LoadTrustedSetup(g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes, precompute)
}

// WriteTrustedSetupFile writes the three point arrays in the text
// format read by LoadTrustedSetupFile.
func WriteTrustedSetupFile(w io.Writer, g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes []byte) error {
	if len(g1MonomialBytes) != FieldElementsPerBlob*bls.BytesPerG1 ||
		len(g1LagrangeBytes) != FieldElementsPerBlob*bls.BytesPerG1 ||
		len(g2MonomialBytes) != NumG2Points*bls.BytesPerG2 {
		return fmt.Errorf("%w: wrong point array lengths", ErrBadSetup)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", FieldElementsPerBlob, NumG2Points)
	writePoints := func(data []byte, size int) {
		for off := 0; off < len(data); off += size {
			fmt.Fprintf(bw, "%s\n", hex.EncodeToString(data[off:off+size]))
		}
	}
	writePoints(g1LagrangeBytes, bls.BytesPerG1)
	writePoints(g2MonomialBytes, bls.BytesPerG2)
	writePoints(g1MonomialBytes, bls.BytesPerG1)
	return bw.Flush()
}
