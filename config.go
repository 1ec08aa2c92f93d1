package deco

import "fmt"

// CeilingType selects how Model.Ceiling() is computed.
type CeilingType int

const (
	// CeilingActual reports the leading compartment's M-value depth
	// directly.
	CeilingActual CeilingType = iota
	// CeilingAdaptive iteratively ascends a forked model toward the
	// actual ceiling, crediting off-gassing achieved during the ascent.
	CeilingAdaptive
)

func (ct CeilingType) String() string {
	switch ct {
	case CeilingActual:
		return "Actual"
	case CeilingAdaptive:
		return "Adaptive"
	default:
		return "Unknown"
	}
}

// ConfigValidationField names the Config field a validation error concerns.
type ConfigValidationField string

const (
	FieldGradientFactors ConfigValidationField = "GradientFactors"
	FieldSurfacePressure ConfigValidationField = "SurfacePressure"
	FieldDecoAscentRate  ConfigValidationField = "DecoAscentRate"
)

// ConfigValidationReason is the specific rule a Config field violated.
type ConfigValidationReason string

const (
	ReasonGFRange              ConfigValidationReason = "gradient factors must be between 1 and 100 inclusive"
	ReasonGFOrder              ConfigValidationReason = "gf_low must not exceed gf_high"
	ReasonSurfacePressureRange ConfigValidationReason = "surface pressure must be between 500 and 1500 mbar inclusive"
	ReasonDecoAscentRateRange  ConfigValidationReason = "deco ascent rate must be between 1.0 and 30.0 m/min inclusive"
)

// ConfigValidationError reports which Config field failed validation and why.
type ConfigValidationError struct {
	Field  ConfigValidationField
	Reason ConfigValidationReason
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("deco: invalid config field %s: %s", e.Field, e.Reason)
}

// Config is the immutable tuning record for a Model: gradient factors,
// surface pressure, deco ascent rate, ceiling policy and rounding/
// recalculation behavior.
type Config struct {
	GFLow                   int
	GFHigh                  int
	SurfacePressureMbar     float64
	DecoAscentRateMPerMin   float64
	CeilingType             CeilingType
	RoundCeiling            bool
	RecalcAllTissuesMValues bool
}

// DefaultConfig returns the default configuration: GF 100/100 (no extra
// conservatism beyond raw M-values), standard sea-level pressure, a 10
// m/min deco ascent rate, Actual ceiling and full tissue recalculation.
func DefaultConfig() Config {
	return Config{
		GFLow:                   100,
		GFHigh:                  100,
		SurfacePressureMbar:     1013,
		DecoAscentRateMPerMin:   10.0,
		CeilingType:             CeilingActual,
		RoundCeiling:            false,
		RecalcAllTissuesMValues: true,
	}
}

// WithGradientFactors returns a copy of c with the given GF pair.
func (c Config) WithGradientFactors(gfLow, gfHigh int) Config {
	c.GFLow, c.GFHigh = gfLow, gfHigh
	return c
}

// WithSurfacePressure returns a copy of c with the given surface pressure
// in millibar.
func (c Config) WithSurfacePressure(mbar float64) Config {
	c.SurfacePressureMbar = mbar
	return c
}

// WithDecoAscentRate returns a copy of c with the given deco ascent rate in
// meters per minute.
func (c Config) WithDecoAscentRate(mPerMin float64) Config {
	c.DecoAscentRateMPerMin = mPerMin
	return c
}

// WithCeilingType returns a copy of c with the given ceiling policy.
func (c Config) WithCeilingType(ct CeilingType) Config {
	c.CeilingType = ct
	return c
}

// WithRoundCeiling returns a copy of c with round-ceiling-to-integer-meters
// enabled or disabled.
func (c Config) WithRoundCeiling(round bool) Config {
	c.RoundCeiling = round
	return c
}

// WithAllMValuesRecalculated returns a copy of c with the
// recalc-all-tissues-on-GF-change policy enabled or disabled.
func (c Config) WithAllMValuesRecalculated(recalcAll bool) Config {
	c.RecalcAllTissuesMValues = recalcAll
	return c
}

// Validate checks the config invariants: 1<=gf_low<=gf_high<=100,
// 500<=surface_pressure<=1500, 1.0<=deco_ascent_rate<=30.0.
func (c Config) Validate() error {
	if c.GFLow < 1 || c.GFLow > 100 || c.GFHigh < 1 || c.GFHigh > 100 {
		return &ConfigValidationError{FieldGradientFactors, ReasonGFRange}
	}
	if c.GFLow > c.GFHigh {
		return &ConfigValidationError{FieldGradientFactors, ReasonGFOrder}
	}
	if c.SurfacePressureMbar < 500 || c.SurfacePressureMbar > 1500 {
		return &ConfigValidationError{FieldSurfacePressure, ReasonSurfacePressureRange}
	}
	if c.DecoAscentRateMPerMin < 1.0 || c.DecoAscentRateMPerMin > 30.0 {
		return &ConfigValidationError{FieldDecoAscentRate, ReasonDecoAscentRateRange}
	}
	return nil
}
