package deco

import "errors"

// ErrEmptyGasList is returned by Model.Deco when gasMixes contains no valid
// gas (every slot is the zero-value sentinel or otherwise invalid).
var ErrEmptyGasList = errors.New("deco: at least one valid gas mix is required")

// ErrCurrentGasNotInList is returned by Model.Deco when the model's current
// gas does not appear among the supplied gas mixes.
var ErrCurrentGasNotInList = errors.New("deco: available gas mixes must include the model's current gas")

// ErrRuntimeOverflow is returned by Model.Deco when the planner's simulated
// stop and ascent time exceeds the 24-hour saturating cap without clearing
// the decompression obligation, guarding against runaway iteration.
var ErrRuntimeOverflow = errors.New("deco: deco runtime simulation exceeded maximum stop duration")

// ErrStageBufferOverflow is the value Model.Deco panics with if a plan would
// require more than the 16 fixed deco-stage slots; this is a programmer
// error, not a returned error.
var ErrStageBufferOverflow = errors.New("deco: deco runtime exceeded the 16-stage buffer")
