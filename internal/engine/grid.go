package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"github.com/TianXue2002/H-chain/internal/model"
)

var ErrOutOfBounds = errors.New("request exceeds grid bounds")

const wordBits = 64

// Grid is a dense rows x cols occupancy bitmap. Each row is packed into
// 64-bit words.
type Grid struct {
	rows, cols int
	stride     int // Words per row
	cells      []uint64
}

// NewGrid allocates an empty grid. Dimensions beyond the hard limits are
// refused.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || rows > model.HardMaxHeight {
		return nil, fmt.Errorf("%w: %d rows outside (0, %d]", ErrOutOfBounds, rows, model.HardMaxHeight)
	}
	if cols <= 0 || cols > model.HardMaxWidth {
		return nil, fmt.Errorf("%w: %d columns outside (0, %d]", ErrOutOfBounds, cols, model.HardMaxWidth)
	}
	stride := (cols + wordBits - 1) / wordBits
	return &Grid{
		rows:   rows,
		cols:   cols,
		stride: stride,
		cells:  make([]uint64, rows*stride),
	}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Cell reports whether (row, col) is occupied. Out-of-range cells read
// as free.
func (g *Grid) Cell(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	return g.cells[row*g.stride+col/wordBits]&(1<<(uint(col)%wordBits)) != 0
}

// Occupied returns the number of set cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, w := range g.cells {
		n += bits.OnesCount64(w)
	}
	return n
}

// Reset clears every cell. It is only used by full rebuilds.
func (g *Grid) Reset() {
	clear(g.cells)
}

func (g *Grid) clone() *Grid {
	if g == nil {
		return nil
	}
	c := *g
	c.cells = slices.Clone(g.cells)
	return &c
}

// span returns the cell range a part covers at the given anchor, with
// the clearance margin appended on the right.
func span(anchor int, p model.Part, clearance int) (x0, x1, y0, y1 int) {
	x0 = anchor + p.OffsetX
	x1 = x0 + p.Width + clearance
	y0 = p.OffsetY
	y1 = y0 + p.Height
	return
}

// check validates that every part range of the tile lies inside the grid.
func (g *Grid) check(anchor int, t model.Tile, clearance int) error {
	if clearance < 0 {
		return fmt.Errorf("%w: negative clearance %d", ErrOutOfBounds, clearance)
	}
	for _, p := range t.Parts {
		x0, x1, y0, y1 := span(anchor, p, clearance)
		if x0 < 0 || y0 < 0 || x1 > g.cols || y1 > g.rows {
			return fmt.Errorf("%w: cells [%d,%d)x[%d,%d) in a %dx%d grid",
				ErrOutOfBounds, x0, x1, y0, y1, g.cols, g.rows)
		}
	}
	return nil
}

// rangeFree reports whether columns [x0, x1) of a row are all clear.
func (g *Grid) rangeFree(row, x0, x1 int) bool {
	base := row * g.stride
	for x0 < x1 {
		w := x0 / wordBits
		lo := uint(x0 % wordBits)
		hi := uint(wordBits)
		if end := (w + 1) * wordBits; x1 < end {
			hi = uint(x1 - w*wordBits)
		}
		if g.cells[base+w]&spanMask(lo, hi) != 0 {
			return false
		}
		x0 = (w + 1) * wordBits
	}
	return true
}

// fillRange sets columns [x0, x1) of a row.
func (g *Grid) fillRange(row, x0, x1 int) {
	base := row * g.stride
	for x0 < x1 {
		w := x0 / wordBits
		lo := uint(x0 % wordBits)
		hi := uint(wordBits)
		if end := (w + 1) * wordBits; x1 < end {
			hi = uint(x1 - w*wordBits)
		}
		g.cells[base+w] |= spanMask(lo, hi)
		x0 = (w + 1) * wordBits
	}
}

// spanMask has bits lo..hi-1 set, 0 <= lo < hi <= 64.
func spanMask(lo, hi uint) uint64 {
	var m uint64
	if hi >= wordBits {
		m = ^uint64(0)
	} else {
		m = (uint64(1) << hi) - 1
	}
	return m &^ ((uint64(1) << lo) - 1)
}

// Fits reports whether the tile, anchored at x with the given trailing
// clearance, lies inside the grid on free cells only.
func (g *Grid) Fits(anchor int, t model.Tile, clearance int) bool {
	if g.check(anchor, t, clearance) != nil {
		return false
	}
	for _, p := range t.Parts {
		x0, x1, y0, y1 := span(anchor, p, clearance)
		for row := y0; row < y1; row++ {
			if !g.rangeFree(row, x0, x1) {
				return false
			}
		}
	}
	return true
}

// Occupy marks every cell the tile covers (plus clearance). All ranges
// are validated before the first write, so a refused call changes nothing.
func (g *Grid) Occupy(anchor int, t model.Tile, clearance int) error {
	if err := g.check(anchor, t, clearance); err != nil {
		return err
	}
	for _, p := range t.Parts {
		x0, x1, y0, y1 := span(anchor, p, clearance)
		for row := y0; row < y1; row++ {
			g.fillRange(row, x0, x1)
		}
	}
	return nil
}
