// Package oxtox accumulates central-nervous-system oxygen toxicity (CNS%)
// and pulmonary oxygen toxicity dose (OTU) from a sequence of depth/time/gas
// exposure segments.
package oxtox

import "math"

const (
	cnsEliminationHalfTimeMinutes = 90.0
	cnsLimitOverMaxPPO2Seconds    = 400.0
	otuEquationExponent           = -0.8333
)

// CoeffRow is one row of the CNS% time-limit table: the half-open range
// (Lo, Hi] of inspired ppO2 it covers, and the linear time-limit
// coefficients t_lim(ppO2) = Slope*ppO2 + Intercept, in minutes.
type CoeffRow struct {
	Lo, Hi    float64
	Slope     float64
	Intercept float64
}

// Coefficients is the NOAA-derived CNS oxygen toxicity time-limit table.
var Coefficients = []CoeffRow{
	{Lo: 0.5, Hi: 0.6, Slope: -1800.0, Intercept: 1800.0},
	{Lo: 0.6, Hi: 0.7, Slope: -1500.0, Intercept: 1620.0},
	{Lo: 0.7, Hi: 0.8, Slope: -1200.0, Intercept: 1410.0},
	{Lo: 0.8, Hi: 0.9, Slope: -900.0, Intercept: 1170.0},
	{Lo: 0.9, Hi: 1.1, Slope: -600.0, Intercept: 900.0},
	{Lo: 1.1, Hi: 1.5, Slope: -300.0, Intercept: 570.0},
	{Lo: 1.5, Hi: 1.6, Slope: -750.0, Intercept: 1245.0},
}

// Segment is one depth/time/gas exposure applied to an OxTox accumulator.
// InspiredPPO2 is the caller-computed inspired oxygen partial pressure
// (ambient minus alveolar water vapor, times FO2) for the segment.
type Segment struct {
	DepthM       float64
	DtS          float64
	InspiredPPO2 float64
}

// OxTox accumulates CNS% and OTU exposure. The zero value is a
// freshly-surfaced, unexposed diver.
type OxTox struct {
	CNSPercent float64
	OTU        float64
}

// Recalculate applies one exposure segment's CNS and OTU contribution.
func (o *OxTox) Recalculate(s Segment) {
	o.recalculateCNS(s)
	o.recalculateOTU(s)
}

func (o *OxTox) recalculateCNS(s Segment) {
	row, ok := assignCoeffRow(s.InspiredPPO2)
	dtMin := s.DtS / 60.0
	switch {
	case ok:
		tLim := row.Slope*s.InspiredPPO2 + row.Intercept
		o.CNSPercent += (s.DtS / (tLim * 60.0)) * 100.0
	case s.DepthM == 0 && s.InspiredPPO2 <= 0.5:
		o.CNSPercent /= math.Pow(2.0, dtMin/cnsEliminationHalfTimeMinutes)
	case s.InspiredPPO2 > 1.6:
		o.CNSPercent += (s.DtS / cnsLimitOverMaxPPO2Seconds) * 100.0
	}
}

func (o *OxTox) recalculateOTU(s Segment) {
	if s.InspiredPPO2 < 0.5 {
		return
	}
	dtMin := s.DtS / 60.0
	o.OTU += dtMin * math.Pow(0.5/(s.InspiredPPO2-0.5), otuEquationExponent)
}

// assignCoeffRow finds the table row whose half-open range (Lo, Hi] contains
// ppO2, start-exclusive. Rows are disjoint so the first match is unambiguous.
func assignCoeffRow(ppO2 float64) (CoeffRow, bool) {
	for _, row := range Coefficients {
		if ppO2 > row.Lo && ppO2 <= row.Hi {
			return row, true
		}
	}
	return CoeffRow{}, false
}
