package beat

import (
	"math"
	"sort"
)

// Grid is an immutable, range-scoped view over detected beat timestamps for a
// single composition job. Beats outside [RangeStart, RangeEnd] are dropped at
// construction; the retained slice is never mutated afterwards.
type Grid struct {
	beats      []float64
	rangeStart float64
	rangeEnd   float64
	frameRate  float64
}

// NewGrid builds a grid from raw beat timestamps (seconds from song start).
// Timestamps are assumed strictly increasing; out-of-range beats are filtered
// out. The input slice is copied so later caller mutation cannot leak in.
func NewGrid(beats []float64, rangeStart, rangeEnd, frameRate float64) Grid {
	retained := make([]float64, 0, len(beats))
	for _, b := range beats {
		if b < rangeStart || b > rangeEnd {
			continue
		}
		retained = append(retained, b)
	}
	return Grid{
		beats:      retained,
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
		frameRate:  frameRate,
	}
}

// Beats returns a copy of the retained beat timestamps.
func (g Grid) Beats() []float64 {
	return append([]float64(nil), g.beats...)
}

// Len returns the number of retained beats.
func (g Grid) Len() int {
	return len(g.beats)
}

// Beat returns the timestamp at index i. The caller is responsible for bounds.
func (g Grid) Beat(i int) float64 {
	return g.beats[i]
}

// RangeStart returns the start of the timeline window under consideration.
func (g Grid) RangeStart() float64 {
	return g.rangeStart
}

// RangeEnd returns the end of the timeline window under consideration.
func (g Grid) RangeEnd() float64 {
	return g.rangeEnd
}

// Duration returns the span of the timeline window in seconds.
func (g Grid) Duration() float64 {
	return g.rangeEnd - g.rangeStart
}

// FrameRate returns the target video frame rate.
func (g Grid) FrameRate() float64 {
	return g.frameRate
}

// FrameDuration returns the duration of a single video frame in seconds,
// or 0 when the frame rate is unset.
func (g Grid) FrameDuration() float64 {
	if g.frameRate <= 0 {
		return 0
	}
	return 1.0 / g.frameRate
}

// FrameForTime converts an absolute timestamp into a frame index.
func (g Grid) FrameForTime(t float64) int {
	if g.frameRate <= 0 {
		return 0
	}
	return int(math.Round(t * g.frameRate))
}

// Nearest returns the index and timestamp of the beat closest to t. When two
// beats are equidistant the later one wins. ok is false when the grid holds
// no beats.
func (g Grid) Nearest(t float64) (index int, beatTime float64, ok bool) {
	if len(g.beats) == 0 {
		return -1, 0, false
	}

	// First beat at or after t.
	i := sort.SearchFloat64s(g.beats, t)
	if i == len(g.beats) {
		return i - 1, g.beats[i-1], true
	}
	if i == 0 {
		return 0, g.beats[0], true
	}

	before := t - g.beats[i-1]
	after := g.beats[i] - t
	if before < after {
		return i - 1, g.beats[i-1], true
	}
	return i, g.beats[i], true
}

// CountWithin returns the number of beats strictly inside (start, end).
func (g Grid) CountWithin(start, end float64) int {
	count := 0
	for _, b := range g.beats {
		if b > start && b < end {
			count++
		}
	}
	return count
}

// IndexOf returns the index of the beat at exactly t, or -1 when no beat
// matches within floating tolerance.
func (g Grid) IndexOf(t float64) int {
	const eps = 1e-9
	i := sort.SearchFloat64s(g.beats, t-eps)
	if i < len(g.beats) && math.Abs(g.beats[i]-t) <= eps {
		return i
	}
	return -1
}
