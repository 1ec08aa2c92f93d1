package deco

import (
	"math"

	"github.com/nordaq/buhlmann/gas"
)

// maxPlannedSeconds caps the total simulated stop/ascent duration a planner
// run may accumulate, guarding against a runaway loop that never clears its
// decompression obligation.
const maxPlannedSeconds = 24 * 60 * 60

// maxStageSlots is the fixed capacity of a DecoRuntime's stage buffer.
const maxStageSlots = 16

// decoAscentMOD is the ppO2 limit used for gas-switch MOD checks.
const decoAscentMOD = 1.6

// maxSwitchEND is the equivalent-narcotic-depth ceiling a candidate switch
// gas must satisfy at the depth of the switch.
const maxSwitchEND = 30.0

// DecoStageType tags the kind of a single leg of a decompression plan.
type DecoStageType int

const (
	StageAscent DecoStageType = iota
	StageDecoStop
	StageGasSwitch
)

func (t DecoStageType) String() string {
	switch t {
	case StageAscent:
		return "Ascent"
	case StageDecoStop:
		return "DecoStop"
	case StageGasSwitch:
		return "GasSwitch"
	default:
		return "Unknown"
	}
}

// DecoStage is one leg of a decompression plan: an ascent, a stop at depth,
// or a gas switch. Valid is false for unused slots in a DecoRuntime's fixed
// stage buffer.
type DecoStage struct {
	StageType   DecoStageType
	StartDepthM float64
	EndDepthM   float64
	DurationS   float64
	Gas         gas.Gas
	Valid       bool
}

// DecoRuntime is a complete decompression plan: an ordered sequence of up
// to 16 stages plus time-to-surface figures.
type DecoRuntime struct {
	Stages       [maxStageSlots]DecoStage
	StageCount   int
	TTS          float64
	TTSAt5       float64
	TTSDeltaAt5  float64
}

// Deco plans a full decompression runtime from the model's current state,
// choosing among gasMixes for gas switches. It forks the model and never
// mutates the receiver.
func (m *Model) Deco(gasMixes [maxStageSlots]gas.Gas) (DecoRuntime, error) {
	if err := validateGasMixes(gasMixes, m.state.gas); err != nil {
		return DecoRuntime{}, err
	}

	runtime, err := planDeco(m, gasMixes)
	if err != nil {
		return DecoRuntime{}, err
	}

	tts5, err := plannedTTSAfterFiveMinutes(m, gasMixes)
	if err != nil {
		return DecoRuntime{}, err
	}
	runtime.TTSAt5 = tts5
	runtime.TTSDeltaAt5 = tts5 - runtime.TTS
	return runtime, nil
}

func validateGasMixes(gasMixes [maxStageSlots]gas.Gas, current gas.Gas) error {
	anyValid := false
	currentPresent := false
	for _, g := range gasMixes {
		if !g.IsValid() {
			continue
		}
		anyValid = true
		if g == current {
			currentPresent = true
		}
	}
	if !anyValid {
		return ErrEmptyGasList
	}
	if !currentPresent {
		return ErrCurrentGasNotInList
	}
	return nil
}

// plannedTTSAfterFiveMinutes clones the original model, applies a five
// minute hold at its current depth and gas, and plans a fresh (non-nested)
// runtime against that clone, returning its tts.
func plannedTTSAfterFiveMinutes(m *Model, gasMixes [maxStageSlots]gas.Gas) (float64, error) {
	clone := m.Fork()
	clone.sim = m.sim
	clone.Record(clone.state.depthM, 5*60, clone.state.gas)
	runtime, err := planDeco(clone, gasMixes)
	if err != nil {
		return 0, err
	}
	return runtime.TTS, nil
}

// planner holds the mutable state of one deco-runtime computation: the
// simulation twin being driven forward and the stage buffer it emits into.
type planner struct {
	sim        *Model
	gasMixes   [maxStageSlots]gas.Gas
	stages     [maxStageSlots]DecoStage
	stageCount int
	elapsedS   float64
}

func planDeco(model *Model, gasMixes [maxStageSlots]gas.Gas) (DecoRuntime, error) {
	p := &planner{sim: model.Fork(), gasMixes: gasMixes}

restart:
	for {
		depth := p.sim.state.depthM
		currentGas := p.sim.state.gas
		ceiling := p.sim.Ceiling()

		switch {
		case depth <= 0 && ceiling <= 0:
			return p.finish(), nil

		case ceiling <= 0:
			if err := p.ascendTo(0, currentGas); err != nil {
				return DecoRuntime{}, err
			}

		default:
			stopDepth := decoStopDepth(ceiling)
			if depth < stopDepth {
				// MissedStop: correct the twin's depth and restart the
				// decision loop from scratch against the adjusted model.
				p.sim.Record(stopDepth, 0, currentGas)
				p.stageCount = 0
				p.elapsedS = 0
				continue restart
			}

			switchGas, haveSwitch := selectSwitchGas(gasMixes, currentGas)

			switch {
			case haveSwitch &&
				depth <= switchGas.MaxOperatingDepth(decoAscentMOD) &&
				switchGas.EquivalentNarcoticDepth(depth, p.sim.config.SurfacePressureMbar) <= maxSwitchEND:
				if err := p.switchGasAt(depth, switchGas); err != nil {
					return DecoRuntime{}, err
				}

			case depth-ceiling <= 3:
				if err := p.stopOneSecond(depth, currentGas); err != nil {
					return DecoRuntime{}, err
				}

			case haveSwitch && switchGas.MaxOperatingDepth(decoAscentMOD) >= ceiling:
				switchDepth := switchGas.MaxOperatingDepth(decoAscentMOD)
				if err := p.ascendTo(switchDepth, currentGas); err != nil {
					return DecoRuntime{}, err
				}
				if err := p.switchGasAt(switchDepth, switchGas); err != nil {
					return DecoRuntime{}, err
				}

			default:
				if err := p.ascendTo(stopDepth, currentGas); err != nil {
					return DecoRuntime{}, err
				}
			}
		}

		if p.elapsedS > maxPlannedSeconds {
			return DecoRuntime{}, ErrRuntimeOverflow
		}
	}
}

func (p *planner) finish() DecoRuntime {
	var r DecoRuntime
	r.Stages = p.stages
	r.StageCount = p.stageCount
	for i := 0; i < p.stageCount; i++ {
		r.TTS += r.Stages[i].DurationS
	}
	return r
}

// decoStopDepth rounds a ceiling up to the next 3-meter stop depth.
func decoStopDepth(ceilingM float64) float64 {
	return math.Ceil(ceilingM/3.0) * 3.0
}

func (p *planner) ascendTo(targetDepthM float64, g gas.Gas) error {
	startDepth := p.sim.state.depthM
	if targetDepthM == startDepth {
		return nil
	}
	rate := p.sim.config.DecoAscentRateMPerMin
	durationS := math.Abs(targetDepthM-startDepth) / rate * 60.0
	p.sim.RecordTravelWithRate(targetDepthM, rate, g)
	p.elapsedS += durationS
	return p.appendStage(DecoStage{
		StageType:   StageAscent,
		StartDepthM: startDepth,
		EndDepthM:   targetDepthM,
		DurationS:   durationS,
		Gas:         g,
		Valid:       true,
	})
}

func (p *planner) switchGasAt(depthM float64, g gas.Gas) error {
	p.sim.Record(depthM, 0, g)
	return p.appendStage(DecoStage{
		StageType:   StageGasSwitch,
		StartDepthM: depthM,
		EndDepthM:   depthM,
		DurationS:   0,
		Gas:         g,
		Valid:       true,
	})
}

func (p *planner) stopOneSecond(depthM float64, g gas.Gas) error {
	p.sim.Record(depthM, 1, g)
	p.elapsedS += 1
	return p.appendStage(DecoStage{
		StageType:   StageDecoStop,
		StartDepthM: depthM,
		EndDepthM:   depthM,
		DurationS:   1,
		Gas:         g,
		Valid:       true,
	})
}

// appendStage coalesces consecutive same-type, same-gas, depth-adjacent
// stages into one, otherwise appends a new slot, panicking with
// ErrStageBufferOverflow if the fixed 16-slot buffer is exhausted.
func (p *planner) appendStage(stage DecoStage) error {
	if p.stageCount > 0 {
		last := &p.stages[p.stageCount-1]
		if last.StageType == stage.StageType && last.Gas == stage.Gas && last.EndDepthM == stage.StartDepthM {
			last.EndDepthM = stage.EndDepthM
			last.DurationS += stage.DurationS
			return nil
		}
	}
	if p.stageCount >= maxStageSlots {
		panic(ErrStageBufferOverflow)
	}
	p.stages[p.stageCount] = stage
	p.stageCount++
	return nil
}

// selectSwitchGas returns the candidate gas-switch target among gasMixes:
// any gas with a higher fO2 than current, preferring the lowest MOD@1.6 and
// breaking ties by the highest fO2. Candidacy does not depend on the
// current depth — a deeper diver may still be ascending toward a gas whose
// MOD is shallower than where they are now; callers compare depth against
// the chosen gas's own MOD where that matters (the no-ascent SwitchGas
// decision, and the AscentToGasSwitchDepth target).
func selectSwitchGas(gasMixes [maxStageSlots]gas.Gas, current gas.Gas) (gas.Gas, bool) {
	var best gas.Gas
	found := false
	for _, g := range gasMixes {
		if !g.IsValid() || g.FO2 <= current.FO2 {
			continue
		}
		if !found {
			best, found = g, true
			continue
		}
		mod := g.MaxOperatingDepth(decoAscentMOD)
		bestMOD := best.MaxOperatingDepth(decoAscentMOD)
		switch {
		case mod < bestMOD:
			best = g
		case mod == bestMOD && g.FO2 > best.FO2:
			best = g
		}
	}
	return best, found
}
