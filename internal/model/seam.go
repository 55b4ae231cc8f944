package model

// RegionForSeams classifies a tile as Inter when any of its parts
// crosses one of the seam rows, and Intra otherwise. A part crosses
// seam s when it starts above s and reaches down to at least s.
func RegionForSeams(t Tile, seams []int) Region {
	for _, p := range t.Parts {
		for _, s := range seams {
			if p.OffsetY < s && p.OffsetY+p.Height >= s {
				return RegionInter
			}
		}
	}
	return RegionIntra
}

// SplitBySeams partitions tiles into Inter and Intra groups, preserving order.
func SplitBySeams(tiles []Tile, seams []int) (inter, intra []Tile) {
	for _, t := range tiles {
		if RegionForSeams(t, seams) == RegionInter {
			t.Region = RegionInter
			inter = append(inter, t)
		} else {
			t.Region = RegionIntra
			intra = append(intra, t)
		}
	}
	return inter, intra
}
