package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordaq/buhlmann/gas"
)

func airOnlyMixes() [maxStageSlots]gas.Gas {
	var mixes [maxStageSlots]gas.Gas
	mixes[0] = gas.Air()
	return mixes
}

// divedToBottom places a fresh model directly at depthM (no descent segment)
// and holds it there for bottomTimeS.
func divedToBottom(depthM, bottomTimeS, ascentRate float64, bottomGas gas.Gas) *Model {
	cfg := DefaultConfig().WithDecoAscentRate(ascentRate)
	m := MustNewModel(cfg)
	m.Record(depthM, bottomTimeS, bottomGas)
	return m
}

func assertRuntimeInvariants(t *testing.T, r DecoRuntime) {
	t.Helper()
	require.Greater(t, r.StageCount, 0)

	sum := 0.0
	for i := 0; i < r.StageCount; i++ {
		sum += r.Stages[i].DurationS
		if i > 0 {
			assert.Equal(t, r.Stages[i-1].EndDepthM, r.Stages[i].StartDepthM, "stage %d not adjacent", i)
		}
		if r.Stages[i].StageType == StageGasSwitch {
			assert.LessOrEqual(t, r.Stages[i].StartDepthM, r.Stages[i].Gas.MaxOperatingDepth(1.6))
		}
	}
	assert.InDelta(t, r.TTS, sum, 1e-6)
	assert.Equal(t, 0.0, r.Stages[r.StageCount-1].EndDepthM)
}

func TestDecoNoDecoShortDiveSingleAscent(t *testing.T) {
	m := divedToBottom(20, 5*60, 10, gas.Air())
	r, err := m.Deco(airOnlyMixes())
	require.NoError(t, err)
	assertRuntimeInvariants(t, r)
	assert.Equal(t, 1, r.StageCount)
	assert.Equal(t, StageAscent, r.Stages[0].StageType)
	assert.InDelta(t, 120, r.TTS, 5)
}

func TestDecoAirOnlyMultiStagePlan(t *testing.T) {
	m := divedToBottom(40, 20*60, 9, gas.Air())
	r, err := m.Deco(airOnlyMixes())
	require.NoError(t, err)
	assertRuntimeInvariants(t, r)

	sawStop := false
	for i := 0; i < r.StageCount; i++ {
		if r.Stages[i].StageType == StageDecoStop {
			sawStop = true
		}
	}
	assert.True(t, sawStop, "expected at least one deco stop")
	assert.InDelta(t, 754, r.TTS, 120)
}

func TestDecoWithEAN50SwitchAt22Meters(t *testing.T) {
	var mixes [maxStageSlots]gas.Gas
	mixes[0] = gas.Air()
	mixes[1] = gas.New(0.50, 0)

	m := divedToBottom(40, 20*60, 9, gas.Air())
	r, err := m.Deco(mixes)
	require.NoError(t, err)
	assertRuntimeInvariants(t, r)

	found := false
	for i := 0; i < r.StageCount; i++ {
		if r.Stages[i].StageType == StageGasSwitch && r.Stages[i].Gas == mixes[1] {
			found = true
			assert.InDelta(t, 22, r.Stages[i].StartDepthM, 2)
		}
	}
	assert.True(t, found, "expected a switch to EAN50")
	assert.InDelta(t, 591, r.TTS, 150)
}

func TestDecoEmptyGasListIsRejected(t *testing.T) {
	m := divedToBottom(20, 5*60, 9, gas.Air())
	var empty [maxStageSlots]gas.Gas
	_, err := m.Deco(empty)
	assert.ErrorIs(t, err, ErrEmptyGasList)
}

func TestDecoCurrentGasNotInListIsRejected(t *testing.T) {
	m := divedToBottom(20, 5*60, 9, gas.Air())
	var mixes [maxStageSlots]gas.Gas
	mixes[0] = gas.New(0.32, 0)
	_, err := m.Deco(mixes)
	assert.ErrorIs(t, err, ErrCurrentGasNotInList)
}

func TestDecoTTSAt5ConsistentWithFiveMinuteContinuation(t *testing.T) {
	m := divedToBottom(40, 20*60, 9, gas.Air())
	r, err := m.Deco(airOnlyMixes())
	require.NoError(t, err)

	clone := m.Fork()
	clone.sim = false
	clone.Record(clone.state.depthM, 5*60, clone.state.gas)
	continued, err := clone.Deco(airOnlyMixes())
	require.NoError(t, err)

	assert.InDelta(t, r.TTSAt5, continued.TTS, 1e-6)
}

func TestSelectSwitchGasPrefersLowestMODTieBreakHighestFO2(t *testing.T) {
	mixes := [maxStageSlots]gas.Gas{
		gas.Air(),
		gas.New(0.32, 0),
		gas.New(0.50, 0),
	}
	g, ok := selectSwitchGas(mixes, gas.Air())
	require.True(t, ok)
	assert.Equal(t, gas.New(0.50, 0), g)
}
