package engine

import "github.com/TianXue2002/H-chain/internal/model"

// Clearance returns the trailing margin a tile needs under the given
// settings. Only Inter tiles carry a margin.
func Clearance(s model.Settings, t model.Tile) int {
	if t.Region != model.RegionInter {
		return 0
	}
	if s.Policy == model.PolicyPeriodic {
		return PeriodicClearance(s.Separation, t.TotalWidth(), s.Rounding)
	}
	return s.Separation
}

// PeriodicClearance rounds the separation sep to a multiple of the tile
// width so that repeated copies of the strip stay at least sep apart.
//
// RoundingLiteral computes (sep/width + 1) * width with integer division,
// the smallest multiple of width strictly greater than sep.
// RoundingCeil computes ceil(sep/width) * width, the smallest multiple of
// width that is at least sep. They differ when sep is an exact multiple.
// A zero separation gives zero clearance under both.
func PeriodicClearance(sep, width int, r model.Rounding) int {
	if sep <= 0 {
		return 0
	}
	if width <= 0 {
		return sep
	}
	if r == model.RoundingCeil {
		return (sep + width - 1) / width * width
	}
	return (sep/width + 1) * width
}
