package verify

import (
	"math"
	"testing"

	"beatcut/internal/beat"
	"beatcut/internal/plan"
)

func boundariesAt(cuts ...float64) []plan.Boundary {
	var out []plan.Boundary
	for i := 0; i < len(cuts)-1; i++ {
		out = append(out, plan.Boundary{StartTime: cuts[i], EndTime: cuts[i+1]})
	}
	return out
}

func TestVerifyExactCutsReportZeroError(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3, 4, 5}, 0, 10, 30)
	boundaries := boundariesAt(0, 3, 5, 10)

	result := Verify(boundaries, grid, DefaultCutToleranceSec)

	if result.MaxErrorSec != 0 {
		t.Fatalf("MaxErrorSec = %v, want 0", result.MaxErrorSec)
	}
	if !result.AllWithinTolerance {
		t.Fatal("expected all cuts within tolerance")
	}
	if len(result.PerTransitionErrorSec) != 2 {
		t.Fatalf("expected 2 transition errors, got %d", len(result.PerTransitionErrorSec))
	}
}

func TestVerifyOutOfToleranceCut(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3}, 0, 10, 30)
	// Cut at 2.08 is 80ms from the nearest beat at 2.0.
	boundaries := boundariesAt(0, 2.08, 10)

	result := Verify(boundaries, grid, 0.05)

	if result.AllWithinTolerance {
		t.Fatal("expected out-of-tolerance report")
	}
	if math.Abs(result.PerTransitionErrorSec[0]-0.08) > 1e-9 {
		t.Fatalf("recorded error = %v, want 0.080", result.PerTransitionErrorSec[0])
	}
	if math.Abs(result.MaxErrorSec-0.08) > 1e-9 {
		t.Fatalf("MaxErrorSec = %v, want 0.080", result.MaxErrorSec)
	}
}

func TestVerifyMixedCuts(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2, 3, 4}, 0, 10, 30)
	boundaries := boundariesAt(0, 2.0, 3.03, 10)

	result := Verify(boundaries, grid, 0.05)

	if !result.AllWithinTolerance {
		t.Fatalf("30ms worst cut should pass a 50ms tolerance: %+v", result)
	}
	if math.Abs(result.MaxErrorSec-0.03) > 1e-9 {
		t.Fatalf("MaxErrorSec = %v, want 0.03", result.MaxErrorSec)
	}
}

func TestVerifySingleBoundaryHasNoTransitions(t *testing.T) {
	grid := beat.NewGrid([]float64{1, 2}, 0, 10, 30)
	result := Verify(boundariesAt(0, 10), grid, 0.05)

	if len(result.PerTransitionErrorSec) != 0 {
		t.Fatalf("expected no transitions, got %v", result.PerTransitionErrorSec)
	}
	if !result.AllWithinTolerance {
		t.Fatal("vacuous pass expected")
	}
}

func TestVerifyEmptyGridReportsInfiniteError(t *testing.T) {
	grid := beat.NewGrid(nil, 0, 10, 30)
	result := Verify(boundariesAt(0, 5, 10), grid, 0.05)

	if result.AllWithinTolerance {
		t.Fatal("cut with no beats cannot be within tolerance")
	}
	if !math.IsInf(result.PerTransitionErrorSec[0], 1) {
		t.Fatalf("expected +Inf error, got %v", result.PerTransitionErrorSec[0])
	}
}
