// Package compartment implements a single Bühlmann ZH-L16C tissue
// compartment: exponential N2/He saturation tracking and the gradient-
// factor-weighted tolerated ambient pressure derived from it.
//
// Coefficient source: the ZH-L16C parameter set as reproduced in
// https://www.lizardland.co.uk/DIYDeco.html and the dive-deco Rust crate's
// zhl_values table.
package compartment

import "math"

// Count is the number of parallel tissue compartments in the model.
const Count = 16

// waterVaporPressure is the alveolar water vapor partial pressure in bar.
const waterVaporPressure = 0.0627

// Coefficients holds the per-compartment ZH-L16C half-times and M-value
// coefficients for both inert gases.
type Coefficients struct {
	N2HalfTime float64
	N2A        float64
	N2B        float64
	HeHalfTime float64
	HeA        float64
	HeB        float64
}

// ZHL16C is the ZH-L16C coefficient set, indexed 0..15 for compartments 1..16.
var ZHL16C = [Count]Coefficients{
	{N2HalfTime: 4.0, N2A: 1.2599, N2B: 0.5050, HeHalfTime: 1.51, HeA: 1.7424, HeB: 0.4245},
	{N2HalfTime: 8.0, N2A: 1.0000, N2B: 0.6514, HeHalfTime: 3.02, HeA: 1.3830, HeB: 0.5747},
	{N2HalfTime: 12.5, N2A: 0.8618, N2B: 0.7222, HeHalfTime: 4.72, HeA: 1.1919, HeB: 0.6527},
	{N2HalfTime: 18.5, N2A: 0.7562, N2B: 0.7825, HeHalfTime: 6.99, HeA: 1.0458, HeB: 0.7223},
	{N2HalfTime: 27.0, N2A: 0.6200, N2B: 0.8126, HeHalfTime: 10.21, HeA: 0.9220, HeB: 0.7582},
	{N2HalfTime: 38.3, N2A: 0.5043, N2B: 0.8434, HeHalfTime: 14.48, HeA: 0.8205, HeB: 0.7957},
	{N2HalfTime: 54.3, N2A: 0.4410, N2B: 0.8693, HeHalfTime: 20.53, HeA: 0.7305, HeB: 0.8279},
	{N2HalfTime: 77.0, N2A: 0.4000, N2B: 0.8910, HeHalfTime: 29.11, HeA: 0.6502, HeB: 0.8553},
	{N2HalfTime: 109.0, N2A: 0.3750, N2B: 0.9092, HeHalfTime: 41.20, HeA: 0.5950, HeB: 0.8757},
	{N2HalfTime: 146.0, N2A: 0.3500, N2B: 0.9222, HeHalfTime: 55.19, HeA: 0.5545, HeB: 0.8903},
	{N2HalfTime: 187.0, N2A: 0.3295, N2B: 0.9319, HeHalfTime: 70.69, HeA: 0.5333, HeB: 0.8997},
	{N2HalfTime: 239.0, N2A: 0.3065, N2B: 0.9403, HeHalfTime: 90.34, HeA: 0.5189, HeB: 0.9073},
	{N2HalfTime: 305.0, N2A: 0.2835, N2B: 0.9477, HeHalfTime: 115.29, HeA: 0.5181, HeB: 0.9122},
	{N2HalfTime: 390.0, N2A: 0.2610, N2B: 0.9544, HeHalfTime: 147.42, HeA: 0.5176, HeB: 0.9171},
	{N2HalfTime: 498.0, N2A: 0.2480, N2B: 0.9602, HeHalfTime: 188.24, HeA: 0.5172, HeB: 0.9217},
	{N2HalfTime: 635.0, N2A: 0.2327, N2B: 0.9653, HeHalfTime: 240.03, HeA: 0.5119, HeB: 0.9267},
}

// Record is one depth/time/gas-fraction segment applied to a compartment.
// DepthStartM and DepthEndM let the Schreiner equation derive the ambient
// pressure rate of change; they are equal for a level (stop) segment. Gas is
// passed as already-resolved fractions so this package never depends on the
// gas package.
type Record struct {
	DepthStartM float64
	DepthEndM   float64
	DtS         float64
	FHe         float64
	FN2         float64
}

// Supersaturation reports how far a compartment's current loading exceeds
// ambient pressure, as two percentages of the configured M-value.
type Supersaturation struct {
	GF99   float64 // % supersaturation at current depth
	GFSurf float64 // % supersaturation if surfaced instantly
}

// Compartment is one ZH-L16C tissue: its coefficients, current inert gas
// loadings and the cached tolerated ambient pressure from the most recent
// recalculation.
type Compartment struct {
	Index        int
	Coeffs       Coefficients
	PN2          float64
	PHe          float64
	MinTolerable float64 // bar absolute; cached min tolerable ambient pressure
}

// New creates a compartment equilibrated to surface air (1 bar ambient,
// fN2=0.79, fHe=0) at the given ZH-L16C coefficient row.
func New(index int, coeffs Coefficients) Compartment {
	c := Compartment{Index: index, Coeffs: coeffs}
	surfaceN2 := (1.0 - waterVaporPressure) * 0.79
	c.PN2 = surfaceN2
	c.PHe = 0.0
	c.recalcTolerable(100)
	return c
}

func ambientPressure(depthM, surfacePressureMbar float64) float64 {
	return surfacePressureMbar/1000.0 + depthM/10.0
}

// schreiner computes the new compartment inert-gas partial pressure for a
// linear ambient-pressure ramp over dtMin minutes, at rate bar/min. A rate
// of zero degenerates exactly to the Haldane equation.
func schreiner(pAmbStart, dtMin, rateBarPerMin, fGas, pInitial, halfTime float64) float64 {
	k := math.Ln2 / halfTime
	palv := (pAmbStart - waterVaporPressure) * fGas
	r := rateBarPerMin * fGas
	return palv + r*(dtMin-(1.0/k)) - (palv-pInitial-(r/k))*math.Exp(-k*dtMin)
}

// Recalculate advances the compartment's N2/He loading for record via the
// Schreiner equation, then recomputes MinTolerable using gfPercent against
// the combined (a, b) M-value coefficients weighted by the new partial
// pressures.
func (c *Compartment) Recalculate(r Record, gfPercent float64, surfacePressureMbar float64) {
	dtMin := r.DtS / 60.0
	if dtMin > 0 {
		pAmbStart := ambientPressure(r.DepthStartM, surfacePressureMbar)
		pAmbEnd := ambientPressure(r.DepthEndM, surfacePressureMbar)
		rate := (pAmbEnd - pAmbStart) / dtMin
		c.PN2 = schreiner(pAmbStart, dtMin, rate, r.FN2, c.PN2, c.Coeffs.N2HalfTime)
		c.PHe = schreiner(pAmbStart, dtMin, rate, r.FHe, c.PHe, c.Coeffs.HeHalfTime)
	}
	c.recalcTolerable(gfPercent)
}

func (c *Compartment) recalcTolerable(gfPercent float64) {
	pTotal := c.PN2 + c.PHe
	var aComb, bComb float64
	if pTotal > 0 {
		aComb = (c.Coeffs.N2A*c.PN2 + c.Coeffs.HeA*c.PHe) / pTotal
		bComb = (c.Coeffs.N2B*c.PN2 + c.Coeffs.HeB*c.PHe) / pTotal
	} else {
		aComb, bComb = c.Coeffs.N2A, c.Coeffs.N2B
	}

	gf := gfPercent / 100.0
	c.MinTolerable = (pTotal - gf*aComb) * bComb / (gf + bComb*(1.0-gf))
}

// Ceiling converts the compartment's tolerated ambient pressure into a
// depth in meters, given the surface pressure in mbar.
func (c *Compartment) Ceiling(surfacePressureMbar float64) float64 {
	return (c.MinTolerable - surfacePressureMbar/1000.0) * 10.0
}

// Supersaturation returns gf_99 (percent supersaturation at depth) and
// gf_surf (percent supersaturation if surfaced instantly) for the
// compartment's current loading.
func (c *Compartment) Supersaturation(surfacePressureMbar, depthM float64) Supersaturation {
	pTotal := c.PN2 + c.PHe
	var aComb, bComb float64
	if pTotal > 0 {
		aComb = (c.Coeffs.N2A*c.PN2 + c.Coeffs.HeA*c.PHe) / pTotal
		bComb = (c.Coeffs.N2B*c.PN2 + c.Coeffs.HeB*c.PHe) / pTotal
	} else {
		aComb, bComb = c.Coeffs.N2A, c.Coeffs.N2B
	}

	ambNow := ambientPressure(depthM, surfacePressureMbar)
	ambSurf := surfacePressureMbar / 1000.0

	mValueNow := aComb + ambNow/bComb
	mValueSurf := aComb + ambSurf/bComb

	gf99 := 0.0
	if mValueNow != ambNow {
		gf99 = (pTotal - ambNow) / (mValueNow - ambNow) * 100.0
	}
	gfSurf := 0.0
	if mValueSurf != ambSurf {
		gfSurf = (pTotal - ambSurf) / (mValueSurf - ambSurf) * 100.0
	}

	return Supersaturation{GF99: gf99, GFSurf: gfSurf}
}
