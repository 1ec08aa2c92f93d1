package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordaq/buhlmann/gas"
)

func TestNewModelEquilibratedToSurfaceAir(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	ss := m.Supersaturation()
	assert.InDelta(t, 0, ss.GF99, 1e-2)
	assert.InDelta(t, 0, ss.GFSurf, 1e-2)
	assert.False(t, m.InDeco())
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	err := m.UpdateConfig(DefaultConfig().WithGradientFactors(90, 30))
	require.Error(t, err)
}

func TestRecordAdvancesElapsedTimeMonotonically(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.Record(20, 60, gas.Air())
	m.Record(20, 120, gas.Air())
	assert.Equal(t, 180.0, m.DiveState().TimeS)
}

func TestRecordTravelSnapsToTargetDepth(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravel(40, 240, gas.Air())
	assert.Equal(t, 40.0, m.DiveState().DepthM)
}

func TestRecordTravelWithRateZeroDistanceIsNoop(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	before := m.DiveState().TimeS
	m.RecordTravelWithRate(0, 9, gas.Air())
	assert.Equal(t, before, m.DiveState().TimeS)
}

func TestCeilingNonIncreasingUnderPureAscentOffGas(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravelWithRate(40, 9, gas.Air())
	m.Record(40, 20*60, gas.Air())
	ceilingAtDepth := m.Ceiling()
	require.Greater(t, ceilingAtDepth, 0.0)

	m.Record(30, 60, gas.Air())
	ceilingAfterRise := m.Ceiling()
	assert.LessOrEqual(t, ceilingAfterRise, ceilingAtDepth)
}

func TestNDLAt21MetersAirGF100(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravelWithRate(21, 9, gas.Air())
	ndl := m.NDL()
	assert.InDelta(t, 39, ndl, 3)
}

func TestNDLAt15MetersAirGF100(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravelWithRate(15, 9, gas.Air())
	ndl := m.NDL()
	assert.InDelta(t, 86, ndl, 5)
}

func TestNDLIsZeroWhenAlreadyInDeco(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravelWithRate(40, 9, gas.Air())
	m.Record(40, 30*60, gas.Air())
	require.True(t, m.InDeco())
	assert.Equal(t, 0.0, m.NDL())
}

func TestCNSEAN32At36MetersFor20Minutes(t *testing.T) {
	// Bottom segment only, matching the fixture exactly: no descent exposure
	// mixed in, so this should land tight on 15.018%.
	m := MustNewModel(DefaultConfig())
	m.Record(36, 20*60, gas.New(0.32, 0))
	assert.InDelta(t, 15.018, m.CNS(), 0.05)
}

func TestForkIsIndependentOfParent(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.RecordTravelWithRate(30, 9, gas.Air())
	fork := m.Fork()
	assert.True(t, fork.IsSim())
	otuBefore := m.DiveState().OTU

	fork.Record(30, 30*60, gas.Air())
	assert.NotEqual(t, m.DiveState().TimeS, fork.DiveState().TimeS)
	assert.Equal(t, otuBefore, m.DiveState().OTU)
}

func TestGFLowEqualsGFHighCollapsesToConstant(t *testing.T) {
	cfg := DefaultConfig().WithGradientFactors(70, 70)
	m := MustNewModel(cfg)
	m.RecordTravelWithRate(30, 9, gas.Air())
	m.Record(30, 25*60, gas.Air())

	other := MustNewModel(cfg)
	other.RecordTravelWithRate(30, 9, gas.Air())
	other.Record(30, 25*60, gas.Air())

	assert.InDelta(t, m.Ceiling(), other.Ceiling(), 1e-6)
}

func TestSurfaceLongIntervalReturnsToEquilibrium(t *testing.T) {
	m := MustNewModel(DefaultConfig())
	m.Record(30, 20*60, gas.Air())
	m.Record(0, 24*60*60, gas.Air())
	ss := m.Supersaturation()
	assert.InDelta(t, 0, ss.GF99, 1e-1)
}
