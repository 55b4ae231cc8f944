// Package engine implements the first-fit strip packer: occupancy grids,
// clearance policies, the packing session and preplaced-tile moves.
package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TianXue2002/H-chain/internal/model"
)

// NotPlaced is the anchor reported when no position fits a tile.
const NotPlaced = -1

var (
	ErrNotPlaced     = errors.New("no anchor fits tile")
	ErrPreplacedTile = errors.New("preplaced tiles must be added with AddPreplaced")
	ErrOccupied      = errors.New("cells already occupied")
)

// Session owns the occupancy grids and the placed-tile list. It is not
// safe for concurrent use; all operations run to completion in call order.
type Session struct {
	settings model.Settings
	exact    *Grid
	margin   *Grid // Clearance grid, allocated on first Inter tile
	placed   []model.Tile

	boundingWidth  int
	boundingHeight int

	log logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session diagnostics to the given logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession validates the settings and allocates the exact grid.
func NewSession(settings model.Settings, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	exact, err := NewGrid(settings.MaxHeight, settings.MaxWidth)
	if err != nil {
		return nil, err
	}
	s := &Session{
		settings: settings,
		exact:    exact,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) Settings() model.Settings { return s.settings }
func (s *Session) BoundingWidth() int       { return s.boundingWidth }
func (s *Session) BoundingHeight() int      { return s.boundingHeight }

// Placed returns a copy of the placed tiles in placement order.
func (s *Session) Placed() []model.Tile {
	out := make([]model.Tile, len(s.placed))
	for i, t := range s.placed {
		out[i] = t.Clone()
	}
	return out
}

// Occupied reports whether a cell of the exact grid is taken.
func (s *Session) Occupied(row, col int) bool {
	return s.exact.Cell(row, col)
}

// Result snapshots the session state.
func (s *Session) Result() model.PackResult {
	return model.PackResult{
		Settings:       s.settings,
		BoundingWidth:  s.boundingWidth,
		BoundingHeight: s.boundingHeight,
		Placed:         s.Placed(),
	}
}

// clearanceGrid returns the clearance grid, allocating it on first use.
func (s *Session) clearanceGrid() *Grid {
	if s.margin == nil {
		// Dimensions already passed NewGrid for the exact grid.
		s.margin, _ = NewGrid(s.settings.MaxHeight, s.settings.MaxWidth)
	}
	return s.margin
}

// fits checks a candidate anchor. Every tile needs its bare footprint
// free in the exact grid; Inter tiles additionally need footprint plus
// clearance free in the clearance grid.
func (s *Session) fits(x int, t model.Tile, clearance int) bool {
	if !s.exact.Fits(x, t, 0) {
		return false
	}
	if t.Region == model.RegionInter {
		return s.clearanceGrid().Fits(x, t, clearance)
	}
	return true
}

// mark occupies the grids for a tile at x. Both grids are validated
// before either is written.
func (s *Session) mark(x int, t model.Tile, clearance int) error {
	if err := s.exact.check(x, t, 0); err != nil {
		return err
	}
	inter := t.Region == model.RegionInter
	if inter {
		if err := s.clearanceGrid().check(x, t, clearance); err != nil {
			return err
		}
	}
	if err := s.exact.Occupy(x, t, 0); err != nil {
		return err
	}
	if inter {
		return s.margin.Occupy(x, t, clearance)
	}
	return nil
}

// grow extends the bounding box to cover a tile anchored at x.
func (s *Session) grow(x int, t model.Tile, clearance int) {
	s.boundingWidth = max(s.boundingWidth, x+t.TotalWidth()+clearance)
	s.boundingHeight = max(s.boundingHeight, t.TotalHeight())
}

// Place runs the first-fit search for a free tile and returns the chosen
// anchor. Preplaced tiles ahead of the tile are pushed first. When no
// anchor fits, the pushes are undone and it returns NotPlaced and
// ErrNotPlaced.
func (s *Session) Place(t model.Tile) (int, error) {
	if err := t.Validate(); err != nil {
		return NotPlaced, err
	}
	if t.Class == model.ClassPreplaced {
		return NotPlaced, ErrPreplacedTile
	}
	if h := t.TotalHeight(); h > s.settings.MaxHeight {
		return NotPlaced, fmt.Errorf("%w: tile height %d exceeds %d rows", ErrOutOfBounds, h, s.settings.MaxHeight)
	}

	var saved *sessionState
	if anchors, moved := s.planPush(t.Anchor, t); moved > 0 {
		st := s.saveState()
		saved = &st
		s.applyAnchors(anchors)
	}
	undo := func() {
		if saved != nil {
			s.restoreState(*saved)
			s.log.WithField("tile", t.ID).Debug("pushes undone")
		}
	}

	clearance := Clearance(s.settings, t)
	limit := s.settings.MaxWidth - (t.TotalWidth() + clearance)
	for x := 0; x <= limit; x++ {
		if !s.fits(x, t, clearance) {
			continue
		}
		if err := s.mark(x, t, clearance); err != nil {
			undo()
			return NotPlaced, err
		}
		s.grow(x, t, clearance)
		placed := t.Clone()
		placed.Anchor = x
		placed.Placed = true
		s.placed = append(s.placed, placed)
		s.log.WithFields(logrus.Fields{
			"tile":      t.ID,
			"anchor":    x,
			"clearance": clearance,
		}).Debug("tile placed")
		return x, nil
	}

	undo()
	s.log.WithFields(logrus.Fields{
		"tile":  t.ID,
		"width": t.TotalWidth(),
	}).Warn("no anchor fits tile")
	return NotPlaced, fmt.Errorf("tile %s: %w", t.ID, ErrNotPlaced)
}

// PlaceAll adds preplaced tiles first, then places the free tiles in the
// configured order. Failures are collected in Unplaced; later tiles are
// still processed.
func (s *Session) PlaceAll(tiles []model.Tile) model.PackResult {
	var pre, free []model.Tile
	for _, t := range tiles {
		if t.Class == model.ClassPreplaced {
			pre = append(pre, t)
		} else {
			free = append(free, t)
		}
	}

	var unplaced []model.Tile
	for _, t := range pre {
		if err := s.AddPreplaced(t); err != nil {
			s.log.WithError(err).WithField("tile", t.ID).Warn("preplaced tile refused")
			unplaced = append(unplaced, t)
		}
	}

	free = SortTiles(free, s.settings.Order)
	if s.settings.InterFirst {
		free = InterFirst(free)
	}
	for _, t := range free {
		if _, err := s.Place(t); err != nil {
			unplaced = append(unplaced, t)
		}
	}

	res := s.Result()
	res.Unplaced = unplaced
	return res
}

// Restore rebuilds a session from a saved result. Placed tiles keep their
// anchors and classes.
func Restore(settings model.Settings, result model.PackResult, opts ...Option) (*Session, error) {
	s, err := NewSession(settings, opts...)
	if err != nil {
		return nil, err
	}
	for _, t := range result.Placed {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("restore tile %s: %w", t.ID, err)
		}
		t = t.Clone()
		t.Placed = true
		s.placed = append(s.placed, t)
	}
	if err := s.rebuild(true); err != nil {
		return nil, err
	}
	return s, nil
}
