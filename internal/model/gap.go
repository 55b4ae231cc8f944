package model

import (
	"slices"
	"sort"
)

// Gap is an unused horizontal run of cells inside the packed bounding box.
type Gap struct {
	Row   int `json:"row"`
	X     int `json:"x"`
	Width int `json:"width"`
}

// DetectGaps scans every row of the bounding box and returns the free runs
// that are at least minWidth cells wide, widest first. Clearance margins
// count as free; only part footprints are occupied.
func DetectGaps(r PackResult, minWidth int) []Gap {
	if minWidth < 1 {
		minWidth = 1
	}
	var gaps []Gap
	for row := 0; row < r.BoundingHeight; row++ {
		var spans [][2]int
		for _, t := range r.Placed {
			for _, rect := range t.Footprint(t.Anchor) {
				if rect.Y <= row && row < rect.Bottom() {
					spans = append(spans, [2]int{rect.X, rect.Right()})
				}
			}
		}
		slices.SortFunc(spans, func(a, b [2]int) int { return a[0] - b[0] })

		x := 0
		for _, s := range spans {
			if s[0] > x && s[0]-x >= minWidth {
				gaps = append(gaps, Gap{Row: row, X: x, Width: s[0] - x})
			}
			x = max(x, s[1])
		}
		if r.BoundingWidth-x >= minWidth {
			gaps = append(gaps, Gap{Row: row, X: x, Width: r.BoundingWidth - x})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Width > gaps[j].Width
	})
	return gaps
}

// TotalGapCells returns the number of cells covered by the gaps.
func TotalGapCells(gaps []Gap) int {
	total := 0
	for _, g := range gaps {
		total += g.Width
	}
	return total
}
