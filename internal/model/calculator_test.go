package model

import (
	"math"
	"testing"
)

func TestEstimatePeriodBasic(t *testing.T) {
	r := PackResult{
		BoundingWidth:  40,
		BoundingHeight: 2,
		Placed:         []Tile{NewTile(Part{Width: 30, Height: 2})},
	}
	est := EstimatePeriod(r, 100)

	if est.Period != 40 {
		t.Errorf("expected period 40, got %d", est.Period)
	}
	if math.Abs(est.CopiesExact-2.5) > 1e-9 {
		t.Errorf("expected 2.5 copies, got %f", est.CopiesExact)
	}
	if est.CopiesNeeded != 3 {
		t.Errorf("expected 3 copies, got %d", est.CopiesNeeded)
	}
	if est.Overhang != 20 {
		t.Errorf("expected overhang 20, got %d", est.Overhang)
	}
	if est.CellsPerCopy != 60 {
		t.Errorf("expected 60 cells per copy, got %d", est.CellsPerCopy)
	}
	if math.Abs(est.FillPercent-75.0) > 1e-9 {
		t.Errorf("expected 75%% fill, got %f", est.FillPercent)
	}
}

func TestEstimatePeriodEmptyResult(t *testing.T) {
	est := EstimatePeriod(PackResult{}, 100)
	if est.CopiesNeeded != 0 || est.Overhang != 0 {
		t.Errorf("expected zero estimate for empty result, got %+v", est)
	}
}

func TestEstimatePeriodExactFit(t *testing.T) {
	est := EstimatePeriod(PackResult{BoundingWidth: 25, BoundingHeight: 1}, 100)
	if est.CopiesNeeded != 4 || est.Overhang != 0 {
		t.Errorf("expected 4 copies with no overhang, got %+v", est)
	}
}
