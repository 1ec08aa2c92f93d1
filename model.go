// Package deco computes Bühlmann ZH-L16C tissue loading, gradient-factor
// modulated decompression ceilings, and full deco-runtime plans for a dive
// profile supplied as a sequence of depth/time/gas records.
//
// The core (this package, plus compartment, gas and oxtox) performs no I/O
// and schedules nothing: every operation is synchronous CPU computation over
// value types, mirroring the single-threaded, side-effect-free contract of
// the dive-deco model this package is ported from.
package deco

import (
	"math"

	"github.com/nordaq/buhlmann/compartment"
	"github.com/nordaq/buhlmann/gas"
	"github.com/nordaq/buhlmann/oxtox"
)

// ndlCutoffMinutes is the maximum no-decompression-limit probe depth; an
// NDL search that never enters deco within this many 1-minute holds reports
// the cutoff itself.
const ndlCutoffMinutes = 99

// DiveState is a snapshot of the model's current depth, elapsed time,
// breathing gas and oxygen toxicity exposure.
type DiveState struct {
	DepthM     float64
	TimeS      float64
	Gas        gas.Gas
	CNSPercent float64
	OTU        float64
}

// Supersaturation is the pair of gradient-factor-relative supersaturation
// percentages for the model's current loading.
type Supersaturation struct {
	GF99   float64
	GFSurf float64
}

type modelState struct {
	depthM          float64
	timeS           float64
	gas             gas.Gas
	hasGFLowAnchor  bool
	gfLowAnchorM    float64
	oxTox           oxtox.OxTox
}

// Model holds sixteen ZH-L16C tissue compartments plus dive state, and
// exposes the record/ndl/ceiling/deco operations a dive computer or planner
// needs.
type Model struct {
	config       Config
	compartments [compartment.Count]compartment.Compartment
	state        modelState
	sim          bool
}

// NewModel validates cfg and constructs a Model equilibrated to surface air.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{config: cfg}
	for i := range m.compartments {
		m.compartments[i] = compartment.New(i+1, compartment.ZHL16C[i])
	}
	m.state.gas = gas.Air()
	return m, nil
}

// MustNewModel is like NewModel but panics on an invalid config, for callers
// that construct models from constants they control.
func MustNewModel(cfg Config) *Model {
	m, err := NewModel(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// Config returns the model's current tuning configuration.
func (m *Model) Config() Config {
	return m.config
}

// UpdateConfig validates newConfig and, if valid, replaces the model's
// configuration.
func (m *Model) UpdateConfig(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	m.config = newConfig
	return nil
}

// DiveState returns a snapshot of the model's current depth, time, gas and
// oxygen toxicity exposure.
func (m *Model) DiveState() DiveState {
	return DiveState{
		DepthM:     m.state.depthM,
		TimeS:      m.state.timeS,
		Gas:        m.state.gas,
		CNSPercent: m.state.oxTox.CNSPercent,
		OTU:        m.state.oxTox.OTU,
	}
}

// CNS returns the accumulated central nervous system oxygen toxicity, as a
// percent of the tabulated exposure limit.
func (m *Model) CNS() float64 {
	return m.state.oxTox.CNSPercent
}

// OTU returns the accumulated pulmonary oxygen toxicity dose.
func (m *Model) OTU() float64 {
	return m.state.oxTox.OTU
}

// IsSim reports whether this model is a simulation fork.
func (m *Model) IsSim() bool {
	return m.sim
}

// Fork returns a deep copy of m tagged as a simulation twin: OxTox updates
// are suppressed and Ceiling() always uses the Actual policy on the fork,
// regardless of the parent's configured ceiling type.
func (m *Model) Fork() *Model {
	f := *m
	f.sim = true
	return &f
}

func validateDepth(depthM float64) {
	if math.IsNaN(depthM) {
		panic("deco: depth is NaN")
	}
	if depthM < 0 {
		panic("deco: negative depth recorded")
	}
}

// Record applies a depth/time/gas segment held at a constant depth: the
// diver is at depthM, breathing gas g, for dtS seconds.
func (m *Model) Record(depthM, dtS float64, g gas.Gas) {
	validateDepth(depthM)
	m.state.depthM = depthM
	m.state.gas = g
	m.state.timeS += dtS
	m.applyRecord(depthM, depthM, dtS, g)
}

// RecordTravel linearly interpolates depth from the model's current depth to
// targetDepthM over totalDtS seconds, applying one-second update slices, and
// snaps the final depth exactly to targetDepthM.
func (m *Model) RecordTravel(targetDepthM, totalDtS float64, g gas.Gas) {
	validateDepth(targetDepthM)
	m.state.gas = g
	startDepth := m.state.depthM
	if totalDtS <= 0 {
		m.state.depthM = targetDepthM
		return
	}
	distance := targetDepthM - startDepth
	ratePerSecond := distance / totalDtS

	currentDepth := startDepth
	totalSeconds := int(totalDtS)
	for i := 0; i < totalSeconds; i++ {
		depthBefore := currentDepth
		currentDepth += ratePerSecond
		m.state.timeS += 1
		m.applyRecord(depthBefore, currentDepth, 1.0, g)
	}

	m.state.depthM = targetDepthM
}

// RecordTravelWithRate derives a travel duration from the distance to
// targetDepthM and the given rate in meters per minute, then delegates to
// RecordTravel.
func (m *Model) RecordTravelWithRate(targetDepthM, rateMPerMin float64, g gas.Gas) {
	distance := math.Abs(targetDepthM - m.state.depthM)
	if rateMPerMin <= 0 {
		m.RecordTravel(targetDepthM, 0, g)
		return
	}
	totalDtS := distance / rateMPerMin * 60.0
	m.RecordTravel(targetDepthM, totalDtS, g)
}

// applyRecord advances every compartment's loading for a depthStart->depthEnd
// segment of dtS seconds under gas g using GF_high, then, if the gradient
// factors differ, re-derives the effective GF at depthEnd and re-applies it
// (to every compartment or just the leading one, per config; a simulation
// fork always uses just the leading one) with a zero-dt record so only
// MinTolerable changes. OxTox is updated from the same
// segment unless this model is a simulation fork.
func (m *Model) applyRecord(depthStart, depthEnd, dtS float64, g gas.Gas) {
	fHe, fN2 := g.FHe, g.FN2()
	rec := compartment.Record{DepthStartM: depthStart, DepthEndM: depthEnd, DtS: dtS, FHe: fHe, FN2: fN2}
	gfHigh := float64(m.config.GFHigh)
	for i := range m.compartments {
		m.compartments[i].Recalculate(rec, gfHigh, m.config.SurfacePressureMbar)
	}

	if m.config.GFLow != m.config.GFHigh {
		maxGF := m.maxGF(depthEnd)
		zeroRec := compartment.Record{DepthStartM: depthEnd, DepthEndM: depthEnd, DtS: 0, FHe: fHe, FN2: fN2}
		if !m.sim && m.config.RecalcAllTissuesMValues {
			for i := range m.compartments {
				m.compartments[i].Recalculate(zeroRec, maxGF, m.config.SurfacePressureMbar)
			}
		} else {
			li := m.leadingCompartmentIndex()
			m.compartments[li].Recalculate(zeroRec, maxGF, m.config.SurfacePressureMbar)
		}
	}

	if !m.sim {
		pp := g.InspiredPartialPressures(depthEnd, m.config.SurfacePressureMbar)
		m.state.oxTox.Recalculate(oxtox.Segment{DepthM: depthEnd, DtS: dtS, InspiredPPO2: pp.O2})
	}
}

// leadingCompartmentIndex returns the index of the compartment with the
// greatest MinTolerable ambient pressure, ties broken by lowest index.
func (m *Model) leadingCompartmentIndex() int {
	leading := 0
	for i := 1; i < len(m.compartments); i++ {
		if m.compartments[i].MinTolerable > m.compartments[leading].MinTolerable {
			leading = i
		}
	}
	return leading
}

// Supersaturation returns the maximum gf_99 and gf_surf across all
// compartments for the model's current loading and depth.
func (m *Model) Supersaturation() Supersaturation {
	var ss Supersaturation
	for i := range m.compartments {
		s := m.compartments[i].Supersaturation(m.config.SurfacePressureMbar, m.state.depthM)
		if s.GF99 > ss.GF99 {
			ss.GF99 = s.GF99
		}
		if s.GFSurf > ss.GFSurf {
			ss.GFSurf = s.GFSurf
		}
	}
	return ss
}

// InDeco reports whether the model currently has a positive decompression
// ceiling.
func (m *Model) InDeco() bool {
	return m.Ceiling() > 0
}

// Ceiling returns the current decompression ceiling in meters, using the
// configured ceiling policy (forced to Actual on a simulation fork) and,
// if configured, rounded up to the nearest integer meter.
func (m *Model) Ceiling() float64 {
	ceilingType := m.config.CeilingType
	if m.sim {
		ceilingType = CeilingActual
	}

	var ceiling float64
	switch ceilingType {
	case CeilingAdaptive:
		ceiling = m.adaptiveCeiling()
	default:
		ceiling = m.compartments[m.leadingCompartmentIndex()].Ceiling(m.config.SurfacePressureMbar)
	}

	if m.config.RoundCeiling {
		ceiling = math.Ceil(ceiling)
	}
	return ceiling
}

// adaptiveCeiling iteratively ascends a fork toward the actual ceiling at
// the configured deco ascent rate, crediting off-gassing achieved during
// the ascent itself, until the fork reaches the surface or its own ceiling.
func (m *Model) adaptiveCeiling() float64 {
	sim := m.Fork()
	simGas := sim.state.gas
	calculated := sim.Ceiling()
	for {
		if sim.state.depthM <= 0 || calculated <= 0 || sim.state.depthM <= calculated {
			break
		}
		sim.RecordTravelWithRate(calculated, m.config.DecoAscentRateMPerMin, simGas)
		calculated = sim.Ceiling()
	}
	if calculated < 0 {
		calculated = 0
	}
	return calculated
}

// NDL returns the current no-decompression limit in minutes: 0 if already
// in deco, otherwise the number of completed one-minute holds at the
// current depth/gas a forked twin can sustain before first entering deco
// (up to a 99-minute cutoff).
func (m *Model) NDL() float64 {
	if m.InDeco() {
		return 0
	}

	sim := m.Fork()
	depth, g := m.state.depthM, m.state.gas
	for i := 0; i < ndlCutoffMinutes; i++ {
		sim.Record(depth, 60, g)
		if sim.InDeco() {
			return float64(i)
		}
	}
	return ndlCutoffMinutes
}

// maxGF returns the effective gradient factor at depthM: GF_high outside
// deco, GF_low at or beyond the (lazily latched) GF-low anchor depth, and a
// linear slope between the anchor and the surface otherwise.
func (m *Model) maxGF(depthM float64) float64 {
	if m.Ceiling() <= 0 {
		return float64(m.config.GFHigh)
	}

	if !m.state.hasGFLowAnchor {
		m.state.gfLowAnchorM = m.findGFLowAnchorDepth()
		m.state.hasGFLowAnchor = true
	}
	anchor := m.state.gfLowAnchorM

	if depthM > anchor {
		return float64(m.config.GFLow)
	}
	return m.gfSlopePoint(anchor, depthM)
}

// findGFLowAnchorDepth forks the model and steps the fork upward in
// 1-meter, zero-duration records until some compartment's gf_99 reaches
// GF_low, returning that depth.
func (m *Model) findGFLowAnchorDepth() float64 {
	sim := m.Fork()
	simGas := sim.state.gas
	target := sim.state.depthM
	for target > 0 {
		next := target - 1.0
		if next < 0 {
			next = 0
		}
		sim.Record(next, 0, simGas)
		if sim.Supersaturation().GF99 >= float64(m.config.GFLow) {
			return next
		}
		target = next
	}
	return target
}

// gfSlopePoint linearly interpolates between GF_high at the surface and
// GF_low at anchorM, truncated to an integer percent as the source model
// does (it stores gradient factors as u8 percents).
func (m *Model) gfSlopePoint(anchorM, depthM float64) float64 {
	gfHigh, gfLow := float64(m.config.GFHigh), float64(m.config.GFLow)
	if anchorM <= 0 {
		return gfHigh
	}
	slope := gfHigh - ((gfHigh-gfLow)/anchorM)*depthM
	return math.Trunc(slope)
}
