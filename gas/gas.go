// Package gas represents a breathing gas mixture and the partial-pressure,
// MOD and END arithmetic the decompression model needs from it.
//
// Sources of information used for these equations:
//   https://scholars.unh.edu/cgi/viewcontent.cgi?article=1511&context=thesis
//   https://wrobell.dcmod.org/decotengu/model.html
package gas

import "math"

// waterVaporPressure is the alveolar water vapor partial pressure in bar,
// subtracted from ambient pressure before computing inspired fractions.
const waterVaporPressure = 0.0627

// surfacePressureBar converts a millibar surface pressure to bar.
func surfacePressureBar(surfacePressureMbar float64) float64 {
	return surfacePressureMbar / 1000.0
}

// ambientPressure returns the absolute ambient pressure in bar at depth,
// given the surface pressure in millibar.
func ambientPressure(depthM, surfacePressureMbar float64) float64 {
	return surfacePressureBar(surfacePressureMbar) + depthM/10.0
}

// Gas is a breathing mix defined by its oxygen and helium fractions; the
// nitrogen fraction is implicit (1 - FO2 - FHe).
type Gas struct {
	FO2 float64
	FHe float64
}

// Air is the standard bottom/surface gas.
func Air() Gas {
	return Gas{FO2: 0.21, FHe: 0.0}
}

// New builds a Gas from its oxygen and helium fractions.
func New(fo2, fhe float64) Gas {
	return Gas{FO2: fo2, FHe: fhe}
}

// FN2 returns the implicit nitrogen fraction.
func (g Gas) FN2() float64 {
	return 1.0 - g.FO2 - g.FHe
}

// IsValid reports whether the mix's fractions are within the 0..=1 / sum<=1
// invariant and the mix is not the zero-value sentinel used to pad
// fixed-size gas-mix arrays.
func (g Gas) IsValid() bool {
	if g.FO2 < 0 || g.FO2 > 1 || g.FHe < 0 || g.FHe > 1 {
		return false
	}
	if g.FO2+g.FHe > 1 {
		return false
	}
	if g.FO2 == 0 && g.FHe == 0 {
		return false
	}
	return true
}

// Pressures holds the partial pressures of the three gas components in bar.
type Pressures struct {
	O2 float64
	He float64
	N2 float64
}

// Total returns the summed partial pressure of the narcotic components
// (O2 + N2), used for equivalent narcotic depth.
func (p Pressures) Total() float64 {
	return p.O2 + p.N2
}

// PartialPressures returns the partial pressures of the mix at depth,
// ignoring alveolar water vapor. Used for MOD/current-gas comparisons.
func (g Gas) PartialPressures(depthM, surfacePressureMbar float64) Pressures {
	p := ambientPressure(depthM, surfacePressureMbar)
	return Pressures{
		O2: p * g.FO2,
		He: p * g.FHe,
		N2: p * g.FN2(),
	}
}

// InspiredPartialPressures returns the partial pressures actually inspired
// into the alveoli, after subtracting water vapor pressure. Used for OxTox
// calculations.
func (g Gas) InspiredPartialPressures(depthM, surfacePressureMbar float64) Pressures {
	palv := ambientPressure(depthM, surfacePressureMbar) - waterVaporPressure
	return Pressures{
		O2: palv * g.FO2,
		He: palv * g.FHe,
		N2: palv * g.FN2(),
	}
}

// MaxOperatingDepth returns the maximum operating depth in meters for the
// given ppO2 limit (e.g. 1.6 for deco gas planning).
func (g Gas) MaxOperatingDepth(ppO2Limit float64) float64 {
	return (ppO2Limit/g.FO2 - 1.0) * 10.0
}

// EquivalentNarcoticDepth computes the END of the mix at depth, treating
// oxygen as narcotic and helium as not: the depth at which air would produce
// the same narcotic partial pressure as fO2+fN2 of the mix does at depthM.
func (g Gas) EquivalentNarcoticDepth(depthM, surfacePressureMbar float64) float64 {
	narcoticPressure := g.PartialPressures(depthM, surfacePressureMbar).Total()
	return math.Max(0, (narcoticPressure-surfacePressureBar(surfacePressureMbar))*10.0)
}
