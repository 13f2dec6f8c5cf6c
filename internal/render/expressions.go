package render

import (
	"beatcut/internal/effects"
)

// Interval is one active time window [Start, End] on the output timeline.
type Interval struct {
	Start float64
	End   float64
}

// Expression bundles one effect with the time windows it fires in and its
// rendering parameters. It is deliberately target-syntax free; translation to
// the encoder's filter language happens in FilterForExpression.
type Expression struct {
	Effect    effects.Type
	Intervals []Interval
	Params    effects.Params
}

// BeatCount returns the number of per-beat intervals in the expression.
func (e Expression) BeatCount() int {
	return len(e.Intervals)
}

// BuildConfig carries the scalar inputs the builder needs beyond the windows
// themselves.
type BuildConfig struct {
	FrameRate        float64
	TotalTimelineSec float64
	// MaxBeatsPerExpression is the encoder's expression-size ceiling. An
	// effect whose beat count exceeds it is split into multiple chained
	// expressions, order preserved, no beat dropped.
	MaxBeatsPerExpression int
	TestMode              bool
	TestModeMultiplier    float64
}

// BuildExpressions converts scheduled effect windows into a bounded list of
// filter expressions. Beats for each effect type are collated in order, turned
// into tolerance intervals clamped to [0, TotalTimelineSec], and chunked so no
// single expression exceeds the encoder ceiling. An empty schedule yields an
// empty, valid result.
func BuildExpressions(windows []effects.Window, cfg BuildConfig) []Expression {
	if len(windows) == 0 {
		return nil
	}

	maxBeats := cfg.MaxBeatsPerExpression
	if maxBeats < 1 {
		maxBeats = 1
	}

	// Collate intervals per effect type, preserving first-appearance order.
	var typeOrder []effects.Type
	byType := make(map[effects.Type][]Interval)

	for _, w := range windows {
		if len(w.BeatTimestamps) == 0 {
			continue
		}
		if _, seen := byType[w.Effect]; !seen {
			typeOrder = append(typeOrder, w.Effect)
		}
		for _, ts := range w.BeatTimestamps {
			iv := Interval{Start: ts - w.ToleranceSec, End: ts + w.ToleranceSec}
			if iv.Start < 0 {
				iv.Start = 0
			}
			if cfg.TotalTimelineSec > 0 && iv.End > cfg.TotalTimelineSec {
				iv.End = cfg.TotalTimelineSec
			}
			byType[w.Effect] = append(byType[w.Effect], iv)
		}
	}

	var result []Expression
	for _, effect := range typeOrder {
		intervals := byType[effect]
		params := effects.ParamsFor(effect, cfg.TestMode, cfg.TestModeMultiplier)

		for start := 0; start < len(intervals); start += maxBeats {
			end := start + maxBeats
			if end > len(intervals) {
				end = len(intervals)
			}
			result = append(result, Expression{
				Effect:    effect,
				Intervals: intervals[start:end:end],
				Params:    params,
			})
		}
	}
	return result
}
