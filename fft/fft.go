package fft

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// fftFastThreshold is the transform size below which the recursion
// bottoms out into a direct radix-2 butterfly.
const fftFastThreshold = 4

// FFTFr transforms vals over the domain. The length of vals must be a
// power of two no larger than the domain width; smaller transforms use
// a strided view of the precomputed roots. With inverse set the result
// is the inverse transform, scaled by 1/n.
func (d *Domain) FFTFr(vals []fr.Element, inverse bool) ([]fr.Element, error) {
	n := uint64(len(vals))
	if err := d.checkLength(n); err != nil {
		return nil, err
	}
	stride := d.Width / n

	out := make([]fr.Element, n)
	if inverse {
		fftFr(out, vals, 1, d.ReverseRootsOfUnity, stride)
		var invLen fr.Element
		invLen.SetUint64(n)
		invLen.Inverse(&invLen)
		for i := range out {
			out[i].Mul(&out[i], &invLen)
		}
	} else {
		fftFr(out, vals, 1, d.RootsOfUnity, stride)
	}
	return out, nil
}

// fftFr is the recursive transform core. vals is a strided view into
// the caller's input with the given stride; roots is strided by
// rootsStride. len(out) elements are produced.
func fftFr(out, vals []fr.Element, stride uint64, roots []fr.Element, rootsStride uint64) {
	n := uint64(len(out))
	if n <= fftFastThreshold {
		fftFrSlow(out, vals, stride, roots, rootsStride)
		return
	}

	half := n / 2
	fftFr(out[:half], vals, stride*2, roots, rootsStride*2)
	fftFr(out[half:], vals[stride:], stride*2, roots, rootsStride*2)

	var yTimesRoot, x fr.Element
	for i := uint64(0); i < half; i++ {
		x = out[i]
		yTimesRoot.Mul(&out[i+half], &roots[i*rootsStride])
		out[i].Add(&x, &yTimesRoot)
		out[i+half].Sub(&x, &yTimesRoot)
	}
}

// fftFrSlow evaluates the transform directly, one output at a time.
func fftFrSlow(out, vals []fr.Element, stride uint64, roots []fr.Element, rootsStride uint64) {
	n := uint64(len(out))
	var v, last fr.Element
	for i := uint64(0); i < n; i++ {
		last.Mul(&vals[0], &roots[0])
		for j := uint64(1); j < n; j++ {
			jv := &vals[j*stride]
			r := &roots[(i*j)%n*rootsStride]
			v.Mul(jv, r)
			last.Add(&last, &v)
		}
		out[i] = last
	}
}
