package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyTile   = errors.New("tile has no parts")
	ErrInvalidPart = errors.New("invalid tile part")
)

// Class says how a tile gets its anchor.
type Class int

const (
	ClassFree      Class = iota // Anchor chosen by the first-fit search
	ClassPreplaced              // Anchor supplied by the caller
)

func (c Class) String() string {
	switch c {
	case ClassPreplaced:
		return "Preplaced"
	default:
		return "Free"
	}
}

// ParseClass converts a class name to a Class value.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free", "placed", "movable":
		return ClassFree, true
	case "preplaced", "fixed", "pre":
		return ClassPreplaced, true
	default:
		return ClassFree, false
	}
}

// Region selects the clearance behaviour of a tile.
type Region int

const (
	RegionIntra Region = iota // Exact footprint only
	RegionInter               // Footprint plus a trailing clearance margin
)

func (r Region) String() string {
	switch r {
	case RegionInter:
		return "Inter"
	default:
		return "Intra"
	}
}

// ParseRegion converts a region name (including the loader tags
// "interTile" and "intraTile") to a Region value.
func ParseRegion(s string) (Region, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "intra", "intratile":
		return RegionIntra, true
	case "inter", "intertile":
		return RegionInter, true
	default:
		return RegionIntra, false
	}
}

// Part is one rectangle of a tile. OffsetX is relative to the tile
// anchor; OffsetY is an absolute row of the strip.
type Part struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	OffsetX int `json:"offset_x"`
	OffsetY int `json:"offset_y"`
}

// Validate checks the dimension invariants of a part.
func (p Part) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidPart, p.Width, p.Height)
	}
	if p.OffsetX < 0 || p.OffsetY < 0 {
		return fmt.Errorf("%w: offset (%d,%d) must be non-negative", ErrInvalidPart, p.OffsetX, p.OffsetY)
	}
	return nil
}

// Rect returns the absolute rectangle covered by the part when its tile
// is anchored at x.
func (p Part) Rect(anchor int) Rect {
	return Rect{X: anchor + p.OffsetX, Y: p.OffsetY, W: p.Width, H: p.Height}
}

// Tile is a group of parts placed together at one x anchor. The parts
// are fixed at construction; only Anchor, Placed and the tags change.
type Tile struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Parts  []Part `json:"parts"`
	Class  Class  `json:"class"`
	Region Region `json:"region"`
	Anchor int    `json:"anchor"`
	Placed bool   `json:"placed"`
}

func NewTile(parts ...Part) Tile {
	cp := make([]Part, len(parts))
	copy(cp, parts)
	return Tile{
		ID:    uuid.New().String()[:8],
		Parts: cp,
		Class: ClassFree,
	}
}

func NewPreplacedTile(anchor int, parts ...Part) Tile {
	t := NewTile(parts...)
	t.Class = ClassPreplaced
	t.Anchor = anchor
	return t
}

// Clone returns a copy that does not share the parts slice.
func (t Tile) Clone() Tile {
	cp := t
	cp.Parts = make([]Part, len(t.Parts))
	copy(cp.Parts, t.Parts)
	return cp
}

// Validate checks that the tile has at least one valid part.
func (t Tile) Validate() error {
	if len(t.Parts) == 0 {
		return ErrEmptyTile
	}
	for i, p := range t.Parts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
	}
	return nil
}

// TotalWidth is the furthest x reached by any part, relative to the anchor.
func (t Tile) TotalWidth() int {
	w := 0
	for _, p := range t.Parts {
		w = max(w, p.OffsetX+p.Width)
	}
	return w
}

// TotalHeight is the furthest row reached by any part.
func (t Tile) TotalHeight() int {
	h := 0
	for _, p := range t.Parts {
		h = max(h, p.OffsetY+p.Height)
	}
	return h
}

// Extent is the first column past the tile at its current anchor.
func (t Tile) Extent() int {
	return t.Anchor + t.TotalWidth()
}

// Area is the number of cells covered by the parts.
func (t Tile) Area() int {
	a := 0
	for _, p := range t.Parts {
		a += p.Width * p.Height
	}
	return a
}

// Footprint returns the absolute rectangles of all parts at the given anchor.
func (t Tile) Footprint(anchor int) []Rect {
	rects := make([]Rect, len(t.Parts))
	for i, p := range t.Parts {
		rects[i] = p.Rect(anchor)
	}
	return rects
}

func (t Tile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s tile", t.Class, t.Region)
	if t.Placed || t.Class == ClassPreplaced {
		fmt.Fprintf(&b, " at x=%d", t.Anchor)
	}
	for _, p := range t.Parts {
		fmt.Fprintf(&b, " [%dx%d@%d,%d]", p.Width, p.Height, p.OffsetX, p.OffsetY)
	}
	return b.String()
}
