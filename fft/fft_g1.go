package fft

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FFTG1 transforms a vector of G1 points over the domain, in Jacobian
// coordinates. Semantics mirror FFTFr with scalar multiplication in
// place of field multiplication.
func (d *Domain) FFTG1(vals []bls12381.G1Jac, inverse bool) ([]bls12381.G1Jac, error) {
	n := uint64(len(vals))
	if err := d.checkLength(n); err != nil {
		return nil, err
	}
	stride := d.Width / n

	out := make([]bls12381.G1Jac, n)
	if inverse {
		fftG1(out, vals, 1, d.ReverseRootsOfUnity, stride)
		var invLen fr.Element
		invLen.SetUint64(n)
		invLen.Inverse(&invLen)
		scale := new(big.Int)
		invLen.BigInt(scale)
		for i := range out {
			out[i].ScalarMultiplication(&out[i], scale)
		}
	} else {
		fftG1(out, vals, 1, d.RootsOfUnity, stride)
	}
	return out, nil
}

func fftG1(out, vals []bls12381.G1Jac, stride uint64, roots []fr.Element, rootsStride uint64) {
	n := uint64(len(out))
	if n <= fftFastThreshold {
		fftG1Slow(out, vals, stride, roots, rootsStride)
		return
	}

	half := n / 2
	fftG1(out[:half], vals, stride*2, roots, rootsStride*2)
	fftG1(out[half:], vals[stride:], stride*2, roots, rootsStride*2)

	var yTimesRoot, x bls12381.G1Jac
	scale := new(big.Int)
	for i := uint64(0); i < half; i++ {
		x.Set(&out[i])
		g1MulRoot(&yTimesRoot, &out[i+half], &roots[i*rootsStride], scale)
		out[i].Set(&x)
		out[i].AddAssign(&yTimesRoot)
		out[i+half].Set(&x)
		out[i+half].SubAssign(&yTimesRoot)
	}
}

func fftG1Slow(out, vals []bls12381.G1Jac, stride uint64, roots []fr.Element, rootsStride uint64) {
	n := uint64(len(out))
	var v, last bls12381.G1Jac
	scale := new(big.Int)
	for i := uint64(0); i < n; i++ {
		g1MulRoot(&last, &vals[0], &roots[0], scale)
		for j := uint64(1); j < n; j++ {
			g1MulRoot(&v, &vals[j*stride], &roots[(i*j)%n*rootsStride], scale)
			last.AddAssign(&v)
		}
		out[i].Set(&last)
	}
}

// g1MulRoot sets res to root*p, skipping the multiplication for the
// identity point and for a unit root. scale is scratch for the scalar
// conversion.
func g1MulRoot(res, p *bls12381.G1Jac, root *fr.Element, scale *big.Int) {
	if p.Z.IsZero() {
		res.Set(p)
		return
	}
	if root.IsOne() {
		res.Set(p)
		return
	}
	root.BigInt(scale)
	res.ScalarMultiplication(p, scale)
}
