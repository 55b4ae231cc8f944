package model

// PackResult is the read-only outcome of a packing session.
type PackResult struct {
	Settings       Settings `json:"settings"`
	BoundingWidth  int      `json:"bounding_width"`
	BoundingHeight int      `json:"bounding_height"`
	Placed         []Tile   `json:"placed"`   // Placement order, not x order
	Unplaced       []Tile   `json:"unplaced"` // Tiles the search could not fit
}

// UsedCells returns the number of cells covered by placed parts.
func (r PackResult) UsedCells() int {
	total := 0
	for _, t := range r.Placed {
		total += t.Area()
	}
	return total
}

// BoundingArea returns the area of the used bounding box.
func (r PackResult) BoundingArea() int {
	return r.BoundingWidth * r.BoundingHeight
}

// Efficiency returns the used-cell percentage of the bounding box.
func (r PackResult) Efficiency() float64 {
	area := r.BoundingArea()
	if area == 0 {
		return 0
	}
	return float64(r.UsedCells()) / float64(area) * 100.0
}

// Count returns the number of placed tiles with the given class and region.
func (r PackResult) Count(c Class, reg Region) int {
	n := 0
	for _, t := range r.Placed {
		if t.Class == c && t.Region == reg {
			n++
		}
	}
	return n
}

// Summary is a compact description of a result, used by reports.
type Summary struct {
	BoundingWidth  int     `json:"bounding_width"`
	BoundingHeight int     `json:"bounding_height"`
	Placed         int     `json:"placed"`
	Preplaced      int     `json:"preplaced"`
	Inter          int     `json:"inter"`
	Unplaced       int     `json:"unplaced"`
	UsedCells      int     `json:"used_cells"`
	Efficiency     float64 `json:"efficiency"`
	Separation     int     `json:"separation"`
	Policy         string  `json:"policy"`
}

func (r PackResult) Summary() Summary {
	s := Summary{
		BoundingWidth:  r.BoundingWidth,
		BoundingHeight: r.BoundingHeight,
		Placed:         len(r.Placed),
		Unplaced:       len(r.Unplaced),
		UsedCells:      r.UsedCells(),
		Efficiency:     r.Efficiency(),
		Separation:     r.Settings.Separation,
		Policy:         string(r.Settings.Policy),
	}
	for _, t := range r.Placed {
		if t.Class == ClassPreplaced {
			s.Preplaced++
		}
		if t.Region == RegionInter {
			s.Inter++
		}
	}
	return s
}
