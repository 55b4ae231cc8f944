package model

import "math"

// PeriodEstimate describes how a packed strip repeats along a longer run.
type PeriodEstimate struct {
	Period        int     `json:"period"`         // Bounding width of one packed copy
	TotalLength   int     `json:"total_length"`   // Length of the run to cover
	CopiesExact   float64 `json:"copies_exact"`   // Fractional number of copies
	CopiesNeeded  int     `json:"copies_needed"`  // Whole copies to cover the run
	Overhang      int     `json:"overhang"`       // Columns past TotalLength
	CellsPerCopy  int     `json:"cells_per_copy"` // Cells covered by one copy
	FillPercent   float64 `json:"fill_percent"`   // Cell usage of one copy's bounding box
	RowsPerPeriod int     `json:"rows_per_period"`
}

// EstimatePeriod computes how many repetitions of a packed strip are needed
// to cover totalLength columns. With periodic clearance the bounding width
// already contains the trailing separation, so copies can be laid end to end.
func EstimatePeriod(r PackResult, totalLength int) PeriodEstimate {
	est := PeriodEstimate{
		Period:        r.BoundingWidth,
		TotalLength:   totalLength,
		CellsPerCopy:  r.UsedCells(),
		FillPercent:   r.Efficiency(),
		RowsPerPeriod: r.BoundingHeight,
	}
	if r.BoundingWidth <= 0 || totalLength <= 0 {
		return est
	}

	est.CopiesExact = float64(totalLength) / float64(r.BoundingWidth)
	est.CopiesNeeded = int(math.Ceil(est.CopiesExact))
	est.Overhang = est.CopiesNeeded*r.BoundingWidth - totalLength
	return est
}
