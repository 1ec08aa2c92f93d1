package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordaq/buhlmann"
)

func TestLoadDefaultsOnEmptyDocument(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, deco.DefaultConfig(), cfg)
}

func TestLoadOverridesGradientFactors(t *testing.T) {
	doc := "gf_low: 30\ngf_high: 85\nceiling_type: Adaptive\nround_ceiling: true\n"
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.GFLow)
	assert.Equal(t, 85, cfg.GFHigh)
	assert.Equal(t, deco.CeilingAdaptive, cfg.CeilingType)
	assert.True(t, cfg.RoundCeiling)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(strings.NewReader("gf_low: [not, a, scalar"))
	assert.Error(t, err)
}
