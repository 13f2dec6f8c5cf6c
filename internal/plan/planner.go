package plan

import (
	"fmt"
	"math"

	"beatcut/internal/beat"
)

// boundEps absorbs float accumulation when checking duration bounds. Kept
// well below one frame at any realistic frame rate.
const boundEps = 1e-6

// InsufficientDurationError reports that the requested clip count cannot fit
// into the available timeline at the minimum clip duration. It is the only
// hard failure the planner raises; every other irregular input degrades to
// unsnapped uniform slicing.
type InsufficientDurationError struct {
	ClipCount      int
	MinDurationSec float64
	AvailableSec   float64
}

func (e InsufficientDurationError) Error() string {
	return fmt.Sprintf("cannot fit %d clips of at least %gs into %gs of timeline; reduce clip count or widen the range",
		e.ClipCount, e.MinDurationSec, e.AvailableSec)
}

// Plan converts a beat grid into an ordered, contiguous list of clip
// boundaries. Interior boundaries snap to the nearest beat that keeps the
// resulting clip duration inside [minDur, maxDur] relative to the previous
// committed boundary; when two beats are equally close the later one wins.
// When no beat qualifies the boundary falls back to its unsnapped ideal
// position, nudged forward if an earlier snap already passed it so cuts stay
// strictly ordered. The final boundary is always forced to the range end so
// snap drift cannot accumulate.
func Plan(grid beat.Grid, clipCount int, minDur, maxDur float64) ([]Boundary, error) {
	if clipCount <= 0 {
		return nil, fmt.Errorf("clip count must be positive, got %d", clipCount)
	}
	if minDur <= 0 || maxDur < minDur {
		return nil, fmt.Errorf("invalid duration bounds [%g, %g]", minDur, maxDur)
	}

	total := grid.Duration()
	if float64(clipCount)*minDur > total+boundEps {
		return nil, InsufficientDurationError{
			ClipCount:      clipCount,
			MinDurationSec: minDur,
			AvailableSec:   total,
		}
	}

	idealWidth := total / float64(clipCount)
	if idealWidth < minDur {
		idealWidth = minDur
	}
	if idealWidth > maxDur {
		idealWidth = maxDur
	}

	// Cut positions, including both range edges.
	cuts := make([]float64, clipCount+1)
	beatIdx := make([]int, clipCount+1)
	cuts[0] = grid.RangeStart()
	beatIdx[0] = -1

	for i := 1; i < clipCount; i++ {
		ideal := grid.RangeStart() + float64(i)*idealWidth
		snapped, idx := snapCut(grid, ideal, cuts[i-1], minDur, maxDur, idealWidth)
		cuts[i] = snapped
		beatIdx[i] = idx
	}

	cuts[clipCount] = grid.RangeEnd()
	beatIdx[clipCount] = -1
	if idx := grid.IndexOf(grid.RangeEnd()); idx >= 0 {
		beatIdx[clipCount] = idx
	}

	boundaries := make([]Boundary, clipCount)
	for i := 0; i < clipCount; i++ {
		boundaries[i] = Boundary{
			StartTime:      cuts[i],
			EndTime:        cuts[i+1],
			StartBeatIndex: beatIdx[i],
			EndBeatIndex:   beatIdx[i+1],
			BeatsWithin:    grid.CountWithin(cuts[i], cuts[i+1]),
		}
	}
	return boundaries, nil
}

// snapCut picks the beat nearest to the ideal cut position whose distance from
// the previous committed cut keeps the clip inside [minDur, maxDur]. Beats
// further than one ideal width from the ideal never qualify, so a lone distant
// beat cannot capture an early cut and push later cuts behind it. Returns the
// unsnapped ideal position, pushed forward past the previous cut when a snap
// already overshot it, and index -1 when no beat qualifies.
func snapCut(grid beat.Grid, ideal, prev, minDur, maxDur, idealWidth float64) (float64, int) {
	bestIdx := -1
	bestDist := math.Inf(1)

	for i := 0; i < grid.Len(); i++ {
		b := grid.Beat(i)
		dur := b - prev
		if dur < minDur-boundEps || dur > maxDur+boundEps {
			continue
		}
		dist := math.Abs(b - ideal)
		if dist > idealWidth+boundEps {
			continue
		}
		// Strictly better, or equally close and later: take it.
		if dist < bestDist || (dist == bestDist && bestIdx >= 0 && b > grid.Beat(bestIdx)) {
			bestDist = dist
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		cut := math.Max(ideal, prev+minDur)
		return math.Min(cut, grid.RangeEnd()), -1
	}
	return grid.Beat(bestIdx), bestIdx
}
