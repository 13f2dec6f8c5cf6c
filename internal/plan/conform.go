package plan

// ActionKind discriminates the conform action variants.
type ActionKind int

const (
	// ActionNoOp leaves the clip untouched; it already matches its boundary
	// to within one frame.
	ActionNoOp ActionKind = iota
	// ActionTrim cuts the clip down to [TrimStartSec, TrimEndSec].
	ActionTrim
	// ActionExtend freezes the final frame for FreezeSec, fading out over
	// FadeOutSec so the hold is not visually abrupt.
	ActionExtend
)

// fadeTailSec is the fade applied at the end of a freeze extension. It is
// clamped so it never exceeds the freeze itself.
const fadeTailSec = 0.5

// Action describes how to conform a rendered clip to its planned boundary.
// Only the fields for the active Kind are meaningful.
type Action struct {
	Kind ActionKind

	TrimStartSec float64
	TrimEndSec   float64

	FreezeSec  float64
	FadeOutSec float64
}

// Conform decides how a clip whose rendered duration is actualSec gets
// adjusted to exactly match its boundary. Excess is always removed from the
// end so the clip's opening survives; deficits are covered by freezing the
// last frame. The result duration matches the boundary to within one frame
// regardless of input.
func Conform(actualSec float64, b Boundary, frameRate float64) Action {
	target := b.DurationSec()

	frame := 0.0
	if frameRate > 0 {
		frame = 1.0 / frameRate
	}

	diff := actualSec - target
	if diff < 0 {
		diff = -diff
	}
	// An exact match is a NoOp even when the frame rate is degenerate and
	// the dead zone collapses to zero.
	if diff == 0 || diff < frame {
		return Action{Kind: ActionNoOp}
	}

	if actualSec > target {
		return Action{
			Kind:         ActionTrim,
			TrimStartSec: 0,
			TrimEndSec:   target,
		}
	}

	freeze := target - actualSec
	fade := fadeTailSec
	if fade > freeze {
		fade = freeze
	}
	return Action{
		Kind:       ActionExtend,
		FreezeSec:  freeze,
		FadeOutSec: fade,
	}
}

// ConformedDurationSec returns the duration the clip will have after the
// action is applied.
func ConformedDurationSec(actualSec float64, a Action, b Boundary) float64 {
	switch a.Kind {
	case ActionTrim:
		return a.TrimEndSec - a.TrimStartSec
	case ActionExtend:
		return actualSec + a.FreezeSec
	default:
		return actualSec
	}
}
