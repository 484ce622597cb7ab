package kzg

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eth2030/kzg/bls"
	"github.com/eth2030/kzg/fft"
)

// GenerateInsecureSetup derives a full trusted setup from a single
// known secret and loads it. The secret is public by construction, so
// the result is only suitable for tests and local tooling, never for
// production use.
func GenerateInsecureSetup(seed [32]byte, precompute uint64) (*Settings, error) {
	g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes, err := GenerateInsecureSetupBytes(seed)
	if err != nil {
		return nil, err
	}
	return LoadTrustedSetup(g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes, precompute)
}

// GenerateInsecureSetupBytes computes the serialized point arrays of an
// insecure setup without loading them: G1 monomial, G1 Lagrange in
// standard order, and G2 monomial.
func GenerateInsecureSetupBytes(seed [32]byte) (g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes []byte, err error) {
	secret := bls.HashToScalar(seed)
	if secret.IsZero() {
		return nil, nil, nil, fmt.Errorf("%w: degenerate setup secret", ErrBadArgs)
	}

	g1Gen := bls.G1Generator()
	g2Gen := bls.G2Generator()

	g1Monomial := make([]bls12381.G1Affine, FieldElementsPerBlob)
	power := fr.One()
	for i := 0; i < FieldElementsPerBlob; i++ {
		g1Monomial[i] = bls.G1Mul(&g1Gen, &power)
		power.Mul(&power, &secret)
	}

	g2Monomial := make([]bls12381.G2Affine, NumG2Points)
	power = fr.One()
	for i := 0; i < NumG2Points; i++ {
		g2Monomial[i] = bls.G2Mul(&g2Gen, &power)
		power.Mul(&power, &secret)
	}

	// The Lagrange points are the inverse transform of the monomial
	// points over the blob domain, in standard order.
	domain, err := fft.NewDomain(FieldElementsPerBlob)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	monomialJac := make([]bls12381.G1Jac, FieldElementsPerBlob)
	for i := range monomialJac {
		monomialJac[i].FromAffine(&g1Monomial[i])
	}
	lagrangeJac, err := domain.FFTG1(monomialJac, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	g1MonomialBytes = make([]byte, 0, FieldElementsPerBlob*bls.BytesPerG1)
	g1LagrangeBytes = make([]byte, 0, FieldElementsPerBlob*bls.BytesPerG1)
	for i := 0; i < FieldElementsPerBlob; i++ {
		mb := g1Monomial[i].Bytes()
		g1MonomialBytes = append(g1MonomialBytes, mb[:]...)
		var lagr bls12381.G1Affine
		lagr.FromJacobian(&lagrangeJac[i])
		lb := lagr.Bytes()
		g1LagrangeBytes = append(g1LagrangeBytes, lb[:]...)
	}
	g2MonomialBytes = make([]byte, 0, NumG2Points*bls.BytesPerG2)
	for i := 0; i < NumG2Points; i++ {
		b := g2Monomial[i].Bytes()
		g2MonomialBytes = append(g2MonomialBytes, b[:]...)
	}
	return g1MonomialBytes, g1LagrangeBytes, g2MonomialBytes, nil
}
