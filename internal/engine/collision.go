package engine

import (
	"fmt"

	"github.com/TianXue2002/H-chain/internal/model"
)

// Collision records one overlapping part pair between two placed tiles.
type Collision struct {
	TileA, TileB string
	PartA, PartB int
	RectA, RectB model.Rect
}

// partsCollide reports whether tile a anchored at ax and tile b anchored
// at bx share any cell. Each part pair is tested with a half-open AABB
// test; the grid is not consulted.
func partsCollide(a model.Tile, ax int, b model.Tile, bx int) bool {
	for _, pa := range a.Parts {
		ra := pa.Rect(ax)
		for _, pb := range b.Parts {
			if ra.Overlaps(pb.Rect(bx)) {
				return true
			}
		}
	}
	return false
}

// collidesWithOthers tests tile t at candidate anchor x against every
// placed tile except the one at index self.
func (s *Session) collidesWithOthers(self int, t model.Tile, x int) bool {
	for i, other := range s.placed {
		if i == self {
			continue
		}
		if partsCollide(t, x, other, other.Anchor) {
			return true
		}
	}
	return false
}

// FindCollisions scans a set of anchored tiles for overlapping parts.
// An empty result means the no-overlap invariant holds.
func FindCollisions(tiles []model.Tile) []Collision {
	var out []Collision
	for i := range tiles {
		for j := i + 1; j < len(tiles); j++ {
			a, b := tiles[i], tiles[j]
			for pi, pa := range a.Parts {
				ra := pa.Rect(a.Anchor)
				for pj, pb := range b.Parts {
					rb := pb.Rect(b.Anchor)
					if ra.Overlaps(rb) {
						out = append(out, Collision{
							TileA: a.ID, TileB: b.ID,
							PartA: pi, PartB: pj,
							RectA: ra, RectB: rb,
						})
					}
				}
			}
		}
	}
	return out
}

// FormatCollisionWarnings produces human-readable messages from collision data.
func FormatCollisionWarnings(collisions []Collision) []string {
	var warnings []string
	for _, c := range collisions {
		warnings = append(warnings, fmt.Sprintf(
			"tile %s part %d [%d,%d)x[%d,%d) overlaps tile %s part %d [%d,%d)x[%d,%d)",
			c.TileA, c.PartA, c.RectA.X, c.RectA.Right(), c.RectA.Y, c.RectA.Bottom(),
			c.TileB, c.PartB, c.RectB.X, c.RectB.Right(), c.RectB.Y, c.RectB.Bottom(),
		))
	}
	return warnings
}
