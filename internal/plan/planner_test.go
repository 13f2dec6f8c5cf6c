package plan

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"beatcut/internal/beat"
)

func checkContiguous(t *testing.T, boundaries []Boundary, rangeStart, rangeEnd float64) {
	t.Helper()
	if len(boundaries) == 0 {
		t.Fatal("expected boundaries")
	}
	if boundaries[0].StartTime != rangeStart {
		t.Fatalf("first boundary starts at %v, want %v", boundaries[0].StartTime, rangeStart)
	}
	if boundaries[len(boundaries)-1].EndTime != rangeEnd {
		t.Fatalf("last boundary ends at %v, want %v", boundaries[len(boundaries)-1].EndTime, rangeEnd)
	}
	for i := 0; i < len(boundaries)-1; i++ {
		if boundaries[i].EndTime != boundaries[i+1].StartTime {
			t.Fatalf("gap between boundary %d and %d: %v != %v", i, i+1, boundaries[i].EndTime, boundaries[i+1].StartTime)
		}
	}
}

func TestPlanEndToEndFixture(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 0, 10, 30)

	boundaries, err := Plan(grid, 3, 2.5, 4.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if len(boundaries) != 3 {
		t.Fatalf("expected 3 boundaries, got %d", len(boundaries))
	}
	checkContiguous(t, boundaries, 0, 10)

	// Ideal cuts are 3.33 and 6.67. The first snaps back to beat 3.0; the
	// second snaps forward to beat 7.0 (closer than 6.0, and 7.0-3.0 stays
	// inside the 4.0s maximum).
	cuts := []float64{boundaries[0].EndTime, boundaries[1].EndTime}
	if cuts[0] != 3.0 || cuts[1] != 7.0 {
		t.Fatalf("expected cuts at 3.0 and 7.0, got %v", cuts)
	}

	if boundaries[0].EndBeatIndex != 2 || boundaries[1].EndBeatIndex != 6 {
		t.Fatalf("unexpected snap indices: %d, %d", boundaries[0].EndBeatIndex, boundaries[1].EndBeatIndex)
	}
	if boundaries[0].StartBeatIndex != -1 {
		t.Fatalf("range-start edge should have index -1, got %d", boundaries[0].StartBeatIndex)
	}

	// Beats strictly inside each interval: (0,3)->2, (3,7)->3, (7,10)->2.
	wantWithin := []int{2, 3, 2}
	for i, b := range boundaries {
		if b.BeatsWithin != wantWithin[i] {
			t.Fatalf("boundary %d BeatsWithin = %d, want %d", i, b.BeatsWithin, wantWithin[i])
		}
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 0, 10, 30)

	first, err := Plan(grid, 3, 2.5, 4.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	second, err := Plan(grid, 3, 2.5, 4.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different plans:\n%v\n%v", first, second)
	}
}

func TestPlanDurationBounds(t *testing.T) {
	beats := make([]float64, 0, 120)
	for i := 0; i < 120; i++ {
		beats = append(beats, float64(i)*0.47)
	}
	grid := beat.NewGrid(beats, 0, 55, 30)

	minDur, maxDur := 3.0, 6.0
	boundaries, err := Plan(grid, 10, minDur, maxDur)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 55)

	// All but possibly the final boundary obey the bounds.
	for i, b := range boundaries[:len(boundaries)-1] {
		d := b.DurationSec()
		if d < minDur-1e-9 || d > maxDur+1e-9 {
			t.Fatalf("boundary %d duration %v outside [%v, %v]", i, d, minDur, maxDur)
		}
	}
}

func TestPlanInsufficientDuration(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3}, 0, 10, 30)

	_, err := Plan(grid, 5, 3.0, 6.0)
	if err == nil {
		t.Fatal("expected error")
	}
	var insufficient InsufficientDurationError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDurationError, got %T: %v", err, err)
	}
	if insufficient.ClipCount != 5 || insufficient.MinDurationSec != 3.0 || insufficient.AvailableSec != 10 {
		t.Fatalf("error fields: %+v", insufficient)
	}
}

func TestPlanEmptyBeatListDegradesToUniformSlices(t *testing.T) {
	grid := beat.NewGrid(nil, 0, 12, 30)

	boundaries, err := Plan(grid, 4, 2.0, 4.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 12)

	for i, b := range boundaries {
		if math.Abs(b.DurationSec()-3.0) > 1e-9 {
			t.Fatalf("boundary %d duration %v, want uniform 3.0", i, b.DurationSec())
		}
		if b.BeatsWithin != 0 {
			t.Fatalf("boundary %d BeatsWithin = %d, want 0", i, b.BeatsWithin)
		}
	}
	for i, b := range boundaries {
		if b.StartBeatIndex != -1 || b.EndBeatIndex != -1 {
			t.Fatalf("boundary %d claims a beat snap with no beats: %+v", i, b)
		}
	}
}

func TestPlanSingleBeatInRange(t *testing.T) {
	grid := beat.NewGrid([]float64{5.1}, 0, 10, 30)

	boundaries, err := Plan(grid, 2, 3.0, 7.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 10)

	if boundaries[0].EndTime != 5.1 {
		t.Fatalf("expected the single cut to snap to 5.1, got %v", boundaries[0].EndTime)
	}
	if boundaries[0].EndBeatIndex != 0 {
		t.Fatalf("expected snap to beat 0, got %d", boundaries[0].EndBeatIndex)
	}
}

func TestPlanSingleClipSpansRange(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3}, 0, 8, 30)

	boundaries, err := Plan(grid, 1, 1.0, 10.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if len(boundaries) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(boundaries))
	}
	b := boundaries[0]
	if b.StartTime != 0 || b.EndTime != 8 {
		t.Fatalf("expected [0, 8], got [%v, %v]", b.StartTime, b.EndTime)
	}
	if b.BeatsWithin != 3 {
		t.Fatalf("BeatsWithin = %d, want 3", b.BeatsWithin)
	}
}

func TestPlanNoQualifyingBeatFallsBackToIdeal(t *testing.T) {
	// All beats cluster at the front; the second cut has no beat inside its
	// duration window and must stay at the unsnapped ideal position.
	grid := beat.NewGrid([]float64{0.2, 0.4, 0.6}, 0, 9, 30)

	boundaries, err := Plan(grid, 3, 2.0, 4.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 9)

	if boundaries[1].EndBeatIndex != -1 {
		t.Fatalf("expected unsnapped cut, got beat index %d", boundaries[1].EndBeatIndex)
	}
	if boundaries[1].EndTime != 6.0 {
		t.Fatalf("expected ideal position 6.0, got %v", boundaries[1].EndTime)
	}
}

func TestPlanSparseBeatKeepsCutsOrdered(t *testing.T) {
	// A single beat at 9.0 qualifies for several early cuts by duration
	// alone. It must not capture a cut far from its ideal position, and the
	// unsnapped cuts around it must stay strictly increasing.
	grid := beat.NewGrid([]float64{9.0}, 0, 20, 30)

	boundaries, err := Plan(grid, 8, 1.0, 10.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 20)

	for i, b := range boundaries {
		if b.EndTime <= b.StartTime {
			t.Fatalf("boundary %d inverted: [%v, %v]", i, b.StartTime, b.EndTime)
		}
	}

	// The beat still wins the cut whose ideal position (7.5) is near it.
	if boundaries[2].EndTime != 9.0 || boundaries[2].EndBeatIndex != 0 {
		t.Fatalf("expected cut 3 to snap to 9.0, got %v (index %d)",
			boundaries[2].EndTime, boundaries[2].EndBeatIndex)
	}
}

func TestPlanFallbackAdvancesPastOvershotSnap(t *testing.T) {
	// The first cut snaps forward to 5.0, exactly where the second cut's
	// ideal position sits. The second cut has no qualifying beat and must
	// move past the snap by at least the minimum duration.
	grid := beat.NewGrid([]float64{5.0}, 0, 10, 30)

	boundaries, err := Plan(grid, 4, 1.0, 5.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	checkContiguous(t, boundaries, 0, 10)

	if boundaries[0].EndTime != 5.0 || boundaries[0].EndBeatIndex != 0 {
		t.Fatalf("expected first cut to snap to 5.0, got %v", boundaries[0].EndTime)
	}
	if boundaries[1].EndTime != 6.0 || boundaries[1].EndBeatIndex != -1 {
		t.Fatalf("expected unsnapped second cut at 6.0, got %v (index %d)",
			boundaries[1].EndTime, boundaries[1].EndBeatIndex)
	}
	for i, b := range boundaries {
		if b.DurationSec() <= 0 {
			t.Fatalf("boundary %d has non-positive duration %v", i, b.DurationSec())
		}
	}
}

func TestPlanTieBreakPrefersLaterBeat(t *testing.T) {
	// Beats at 2.5 and 3.5 are equidistant from the ideal cut at 3.0.
	grid := beat.NewGrid([]float64{2.5, 3.5}, 0, 6, 30)

	boundaries, err := Plan(grid, 2, 1.0, 5.0)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if boundaries[0].EndTime != 3.5 {
		t.Fatalf("tie-break should prefer the later beat 3.5, got %v", boundaries[0].EndTime)
	}
}

func TestPlanRejectsBadArguments(t *testing.T) {
	grid := beat.NewGrid(nil, 0, 10, 30)

	if _, err := Plan(grid, 0, 1, 2); err == nil {
		t.Fatal("expected error for zero clip count")
	}
	if _, err := Plan(grid, 2, 3, 2); err == nil {
		t.Fatal("expected error for inverted duration bounds")
	}
}
