package fft

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// cosetShiftFactor generates the coset used by the recovery path: the
// extended domain shifted by the field generator, guaranteed disjoint
// from every power-of-two subgroup.
const cosetShiftFactor = PrimitiveRoot

// ShiftPoly scales the coefficients of p in place by successive powers
// of shift, mapping an evaluation over the subgroup onto the coset
// shift*H (or back, when shift is the inverse factor).
func ShiftPoly(p []fr.Element, shift *fr.Element) {
	factor := fr.One()
	for i := range p {
		p[i].Mul(&p[i], &factor)
		factor.Mul(&factor, shift)
	}
}

// CosetFFTFr evaluates the coefficient-form polynomial over the coset
// g*H where g is the coset shift factor.
func (d *Domain) CosetFFTFr(coeffs []fr.Element) ([]fr.Element, error) {
	shifted := make([]fr.Element, len(coeffs))
	copy(shifted, coeffs)
	var shift fr.Element
	shift.SetUint64(cosetShiftFactor)
	ShiftPoly(shifted, &shift)
	return d.FFTFr(shifted, false)
}

// CosetIFFTFr interpolates evaluations over the coset g*H back into
// coefficient form.
func (d *Domain) CosetIFFTFr(vals []fr.Element) ([]fr.Element, error) {
	coeffs, err := d.FFTFr(vals, true)
	if err != nil {
		return nil, err
	}
	var shift, shiftInv fr.Element
	shift.SetUint64(cosetShiftFactor)
	shiftInv.Inverse(&shift)
	ShiftPoly(coeffs, &shiftInv)
	return coeffs, nil
}
