package effects

import (
	"beatcut/internal/beat"
)

// Window groups consecutive same-effect beats into one trigger window. All
// timestamps share the same effect type and tolerance.
type Window struct {
	Effect         Type
	BeatTimestamps []float64
	ToleranceSec   float64
}

// ScheduleConfig controls beat selection and effect rotation.
type ScheduleConfig struct {
	// Order is the effect rotation sequence; groups cycle through it.
	Order []Type
	// Stride selects every Nth beat (1 = every beat).
	Stride int
	// RepeatCount is how many consecutive selected beats share one effect
	// before the rotation advances.
	RepeatCount int
	// TestMode widens tolerance and intensity by Multiplier for manual
	// verification. Timing policy is unaffected.
	TestMode   bool
	Multiplier float64
}

// Schedule assigns effects to beats: every Stride-th beat is selected, the
// selected beats are partitioned into consecutive groups of RepeatCount, and
// group g receives Order[g mod len(Order)]. Each group becomes one Window;
// adjacent windows of the same effect merge when their tolerance windows
// would overlap. An empty grid yields an empty, valid schedule.
func Schedule(grid beat.Grid, cfg ScheduleConfig) []Window {
	order := cfg.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	stride := cfg.Stride
	if stride < 1 {
		stride = 1
	}
	repeat := cfg.RepeatCount
	if repeat < 1 {
		repeat = 1
	}

	var selected []float64
	for i := 0; i < grid.Len(); i += stride {
		selected = append(selected, grid.Beat(i))
	}
	if len(selected) == 0 {
		return nil
	}

	var windows []Window
	for start := 0; start < len(selected); start += repeat {
		end := start + repeat
		if end > len(selected) {
			end = len(selected)
		}
		group := start / repeat
		effect := order[group%len(order)]
		p := ParamsFor(effect, cfg.TestMode, cfg.Multiplier)

		windows = append(windows, Window{
			Effect:         effect,
			BeatTimestamps: append([]float64(nil), selected[start:end]...),
			ToleranceSec:   p.ToleranceSec,
		})
	}

	return mergeAdjacent(windows)
}

// mergeAdjacent folds consecutive windows of the same effect together when
// the gap between them is small enough that their tolerance windows touch.
// Fewer windows means fewer filter expressions downstream.
func mergeAdjacent(windows []Window) []Window {
	if len(windows) < 2 {
		return windows
	}

	merged := windows[:1]
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.Effect == last.Effect && windowsTouch(*last, w) {
			last.BeatTimestamps = append(last.BeatTimestamps, w.BeatTimestamps...)
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

func windowsTouch(a, b Window) bool {
	if len(a.BeatTimestamps) == 0 || len(b.BeatTimestamps) == 0 {
		return true
	}
	lastEnd := a.BeatTimestamps[len(a.BeatTimestamps)-1] + a.ToleranceSec
	nextStart := b.BeatTimestamps[0] - b.ToleranceSec
	return nextStart <= lastEnd
}
