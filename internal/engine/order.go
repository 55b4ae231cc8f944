package engine

import (
	"slices"

	"github.com/TianXue2002/H-chain/internal/model"
)

// SortTiles returns a copy of tiles in placement order. The sort is
// stable, so equal keys keep their input order.
func SortTiles(tiles []model.Tile, order model.TileOrder) []model.Tile {
	out := slices.Clone(tiles)
	switch order {
	case model.OrderArea:
		slices.SortStableFunc(out, func(a, b model.Tile) int {
			return b.Area() - a.Area()
		})
	case model.OrderHeight:
		slices.SortStableFunc(out, func(a, b model.Tile) int {
			return b.TotalHeight() - a.TotalHeight()
		})
	}
	return out
}

// InterFirst moves Inter tiles ahead of Intra tiles, keeping the relative
// order within each group.
func InterFirst(tiles []model.Tile) []model.Tile {
	out := make([]model.Tile, 0, len(tiles))
	for _, t := range tiles {
		if t.Region == model.RegionInter {
			out = append(out, t)
		}
	}
	for _, t := range tiles {
		if t.Region != model.RegionInter {
			out = append(out, t)
		}
	}
	return out
}
