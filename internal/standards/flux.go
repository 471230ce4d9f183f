// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package standards

import (
	"fmt"
	"math"
)

// CGS physical constants.
const (
	planckH    = 6.62607015e-27 // erg s
	lightC     = 2.99792458e10  // cm/s
	boltzmannK = 1.380649e-16   // erg/K
)

// FluxScale is the pipeline flux normalization: emitted fluxes are in units
// of 1e-17 erg/s/cm^2/Angstrom.
const FluxScale = 1e-17

// PlanckFlambda evaluates the Planck spectral radiance B_lambda(T) at the
// given wavelength in Angstrom, converted to per-Angstrom cgs units
// (erg/s/cm^2/Angstrom/sr).
func PlanckFlambda(waveAA, tempK float64) float64 {
	if waveAA <= 0 || tempK <= 0 {
		return 0
	}

	w := waveAA * 1e-8 // cm

	x := planckH * lightC / (w * boltzmannK * tempK)
	// Far Wien tail: the exponential underflows anything we can represent.
	if x > 700 {
		return 0
	}

	b := 2 * planckH * lightC * lightC / math.Pow(w, 5) / (math.Exp(x) - 1)
	return b * 1e-8 // per cm -> per Angstrom
}

// Flux returns the synthesized flux of the star at the given wavelength in
// Angstrom, normalized to FluxScale. The model is the Planck law scaled by
// the star's normalization a*1e-23.
func (s Star) Flux(waveAA float64) float64 {
	return s.Norm * 1e-23 * PlanckFlambda(waveAA, s.TempK) / FluxScale
}

// FluxPoint is one sample of a synthesized spectrum.
type FluxPoint struct {
	// Wave is the wavelength in Angstrom.
	Wave float64 `json:"wave"`
	// Flux is in units of FluxScale erg/s/cm^2/Angstrom.
	Flux float64 `json:"flux"`
}

// Spectrum samples the star's blackbody model over [wmin, wmax] with step dw,
// all in Angstrom. The upper bound is inclusive.
func (s Star) Spectrum(wmin, wmax, dw float64) ([]FluxPoint, error) {
	if wmin <= 0 || wmax <= wmin {
		return nil, fmt.Errorf("invalid wavelength range [%g, %g]", wmin, wmax)
	}
	if dw <= 0 {
		return nil, fmt.Errorf("invalid wavelength step %g", dw)
	}

	n := int((wmax-wmin)/dw) + 1
	points := make([]FluxPoint, 0, n)
	for w := wmin; w <= wmax+dw/2; w += dw {
		points = append(points, FluxPoint{Wave: w, Flux: s.Flux(w)})
	}
	return points, nil
}

// PeakWave returns the wavelength in Angstrom at which the star's blackbody
// model peaks, from Wien's displacement law.
func (s Star) PeakWave() float64 {
	const wienB = 0.28977719551851727 // cm K
	return wienB / s.TempK * 1e8
}
