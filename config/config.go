// Package config loads a deco.Config from YAML, the ambient way this
// repository's surrounding tooling (CLIs, test fixtures) configures a dive
// model without constructing one field-by-field in Go.
package config

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nordaq/buhlmann"
)

// file is the on-disk YAML shape; fields are optional and fall back to
// deco.DefaultConfig()'s values when absent.
type file struct {
	GFLow                   *int     `yaml:"gf_low"`
	GFHigh                  *int     `yaml:"gf_high"`
	SurfacePressureMbar     *float64 `yaml:"surface_pressure_mbar"`
	DecoAscentRateMPerMin   *float64 `yaml:"deco_ascent_rate_m_per_min"`
	CeilingType             *string  `yaml:"ceiling_type"`
	RoundCeiling            *bool    `yaml:"round_ceiling"`
	RecalcAllTissuesMValues *bool    `yaml:"recalc_all_tissues_m_values"`
}

// Load reads a YAML document from r and returns the deco.Config it
// describes, starting from deco.DefaultConfig() for any field the document
// omits. The returned config is not validated; callers should call
// deco.NewModel or Config.Validate themselves.
func Load(r io.Reader) (deco.Config, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return deco.Config{}, err
	}

	var f file
	if err := yaml.Unmarshal(bs, &f); err != nil {
		return deco.Config{}, err
	}

	cfg := deco.DefaultConfig()
	if f.GFLow != nil {
		cfg.GFLow = *f.GFLow
	}
	if f.GFHigh != nil {
		cfg.GFHigh = *f.GFHigh
	}
	if f.SurfacePressureMbar != nil {
		cfg.SurfacePressureMbar = *f.SurfacePressureMbar
	}
	if f.DecoAscentRateMPerMin != nil {
		cfg.DecoAscentRateMPerMin = *f.DecoAscentRateMPerMin
	}
	if f.CeilingType != nil && *f.CeilingType == "Adaptive" {
		cfg.CeilingType = deco.CeilingAdaptive
	}
	if f.RoundCeiling != nil {
		cfg.RoundCeiling = *f.RoundCeiling
	}
	if f.RecalcAllTissuesMValues != nil {
		cfg.RecalcAllTissuesMValues = *f.RecalcAllTissuesMValues
	}

	return cfg, nil
}
