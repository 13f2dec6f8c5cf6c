// Package verify checks a finished plan's cut points against the beat grid.
// It is reporting only: it never mutates the plan, and an out-of-tolerance
// cut is a quality observation, not a failure.
package verify

import (
	"math"

	"beatcut/internal/beat"
	"beatcut/internal/plan"
)

// DefaultCutToleranceSec is the default allowance for a cut's distance to its
// nearest beat. A cut is less forgiving than an effect flash, so this is
// wider than any per-effect tolerance.
const DefaultCutToleranceSec = 0.05

// Result reports per-cut timing errors for the internal cut points of a plan
// (one entry per boundary transition, i.e. len(boundaries)-1).
type Result struct {
	PerTransitionErrorSec []float64 `json:"per_transition_error_s"`
	MaxErrorSec           float64   `json:"max_error_s"`
	AllWithinTolerance    bool      `json:"all_within_tolerance"`
}

// Verify measures each internal cut point's distance to the nearest beat.
// With no beats in the grid every cut is infinitely far from one; the report
// reflects that rather than erroring, since beat sync is best-effort.
func Verify(boundaries []plan.Boundary, grid beat.Grid, toleranceSec float64) Result {
	result := Result{AllWithinTolerance: true}
	if len(boundaries) < 2 {
		return result
	}

	result.PerTransitionErrorSec = make([]float64, 0, len(boundaries)-1)
	for _, b := range boundaries[:len(boundaries)-1] {
		cut := b.EndTime

		errSec := math.Inf(1)
		if _, beatTime, ok := grid.Nearest(cut); ok {
			errSec = math.Abs(cut - beatTime)
		}

		result.PerTransitionErrorSec = append(result.PerTransitionErrorSec, errSec)
		if errSec > result.MaxErrorSec {
			result.MaxErrorSec = errSec
		}
		if errSec > toleranceSec {
			result.AllWithinTolerance = false
		}
	}
	return result
}
