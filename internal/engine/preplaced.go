package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TianXue2002/H-chain/internal/model"
)

var (
	ErrMoveRejected = errors.New("move collides with a placed tile")
	ErrTileNotFound = errors.New("no preplaced tile at anchor")
)

// AddPreplaced anchors a tile at its caller-supplied Anchor. The tile is
// refused if any part leaves the grid or lands on occupied cells.
func (s *Session) AddPreplaced(t model.Tile) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t = t.Clone()
	t.Class = model.ClassPreplaced

	clearance := Clearance(s.settings, t)
	if err := s.exact.check(t.Anchor, t, 0); err != nil {
		return fmt.Errorf("preplaced tile %s: %w", t.ID, err)
	}
	if !s.exact.Fits(t.Anchor, t, 0) {
		return fmt.Errorf("preplaced tile %s at x=%d: %w", t.ID, t.Anchor, ErrOccupied)
	}
	if err := s.mark(t.Anchor, t, clearance); err != nil {
		return fmt.Errorf("preplaced tile %s: %w", t.ID, err)
	}
	s.grow(t.Anchor, t, clearance)
	t.Placed = true
	s.placed = append(s.placed, t)

	s.log.WithFields(logrus.Fields{
		"tile":   t.ID,
		"anchor": t.Anchor,
	}).Debug("preplaced tile added")
	return nil
}

// validAnchor reports whether tile t could be marked at x in every grid
// it uses.
func (s *Session) validAnchor(t model.Tile, x int) error {
	if err := s.exact.check(x, t, 0); err != nil {
		return err
	}
	if t.Region == model.RegionInter {
		return s.clearanceGrid().check(x, t, Clearance(s.settings, t))
	}
	return nil
}

// MovePreplaced moves a preplaced tile anchored at currentX by delta.
// The candidate anchor is tested against every other placed tile with a
// per-part bounding-box check. On commit every other tile anchored at or
// after currentX shifts by the same delta and the grids are rebuilt.
// A rejected move changes nothing.
func (s *Session) MovePreplaced(currentX, delta int) error {
	var candidates []int
	for i, t := range s.placed {
		if t.Class == model.ClassPreplaced && t.Anchor == currentX {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: x=%d", ErrTileNotFound, currentX)
	}

	target := currentX + delta
	chosen := -1
	for _, i := range candidates {
		if !s.collidesWithOthers(i, s.placed[i], target) {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		s.log.WithFields(logrus.Fields{
			"anchor": currentX,
			"delta":  delta,
		}).Warn("preplaced move rejected")
		return fmt.Errorf("%w: x=%d delta=%d", ErrMoveRejected, currentX, delta)
	}

	anchors := make([]int, len(s.placed))
	for i, t := range s.placed {
		anchors[i] = t.Anchor
		if i == chosen || t.Anchor >= currentX {
			anchors[i] = t.Anchor + delta
		}
		if anchors[i] == t.Anchor {
			continue
		}
		if err := s.validAnchor(t, anchors[i]); err != nil {
			return fmt.Errorf("move tile %s to x=%d: %w", t.ID, anchors[i], err)
		}
	}

	// The shifted group moves rigidly, so it can only collide with tiles
	// that stay put.
	for i, t := range s.placed {
		if anchors[i] == t.Anchor {
			continue
		}
		for j, o := range s.placed {
			if anchors[j] != o.Anchor {
				continue
			}
			if partsCollide(t, anchors[i], o, o.Anchor) {
				return fmt.Errorf("%w: tile %s at x=%d would overlap tile %s",
					ErrMoveRejected, t.ID, anchors[i], o.ID)
			}
		}
	}

	for i := range s.placed {
		s.placed[i].Anchor = anchors[i]
	}
	s.log.WithFields(logrus.Fields{
		"tile":   s.placed[chosen].ID,
		"anchor": target,
		"delta":  delta,
	}).Debug("preplaced tile moved")
	return s.rebuild(s.settings.RebuildFreeTiles)
}

// PushToClear shifts preplaced tiles forward ahead of an incoming tile
// anchored at incomingX. Only tiles whose extent exceeds incomingX are
// considered and tiles never move backward. A push that would leave the
// grid or overlap another placed tile is skipped. It returns the number
// of tiles moved.
func (s *Session) PushToClear(incomingX int, incoming model.Tile) int {
	anchors, moved := s.planPush(incomingX, incoming)
	if moved > 0 {
		s.applyAnchors(anchors)
	}
	return moved
}

// planPush computes the anchors after a push without touching the
// session. Tiles are visited in placement order and each candidate is
// tested against the anchors decided so far.
func (s *Session) planPush(incomingX int, incoming model.Tile) ([]int, int) {
	anchors := make([]int, len(s.placed))
	for i, t := range s.placed {
		anchors[i] = t.Anchor
	}

	moved := 0
	for i, t := range s.placed {
		if t.Class != model.ClassPreplaced || t.Extent() <= incomingX {
			continue
		}
		var d int
		switch s.settings.Push {
		case model.PushLiteral:
			d = incomingX - t.Extent()
		default:
			d = incomingX + incoming.TotalWidth() - t.Anchor
		}
		if d <= 0 {
			continue
		}
		next := t.Anchor + d
		fields := logrus.Fields{
			"tile":   t.ID,
			"anchor": t.Anchor,
			"delta":  d,
		}
		if err := s.validAnchor(t, next); err != nil {
			s.log.WithError(err).WithFields(fields).Warn("push skipped")
			continue
		}
		if j := s.blockedBy(i, next, anchors); j >= 0 {
			s.log.WithFields(fields).WithField("blocked_by", s.placed[j].ID).Warn("push skipped")
			continue
		}
		anchors[i] = next
		moved++
		s.log.WithFields(fields).WithField("anchor", next).Debug("preplaced tile pushed")
	}
	return anchors, moved
}

// blockedBy returns the index of the first other tile that tile self at
// x would overlap, given the anchors in anchors, or -1.
func (s *Session) blockedBy(self, x int, anchors []int) int {
	t := s.placed[self]
	for j, o := range s.placed {
		if j == self {
			continue
		}
		if partsCollide(t, x, o, anchors[j]) {
			return j
		}
	}
	return -1
}

// applyAnchors commits new anchors for every placed tile and rebuilds
// the grids.
func (s *Session) applyAnchors(anchors []int) {
	for i := range s.placed {
		s.placed[i].Anchor = anchors[i]
	}
	if err := s.rebuild(s.settings.RebuildFreeTiles); err != nil {
		s.log.WithError(err).Error("rebuild after push failed")
	}
}

// sessionState is what a push changes: grids, anchors and bounds.
type sessionState struct {
	exact, margin  *Grid
	anchors        []int
	boundingWidth  int
	boundingHeight int
}

func (s *Session) saveState() sessionState {
	st := sessionState{
		exact:          s.exact.clone(),
		margin:         s.margin.clone(),
		anchors:        make([]int, len(s.placed)),
		boundingWidth:  s.boundingWidth,
		boundingHeight: s.boundingHeight,
	}
	for i, t := range s.placed {
		st.anchors[i] = t.Anchor
	}
	return st
}

// restoreState undoes everything since saveState. No tile may have been
// added in between.
func (s *Session) restoreState(st sessionState) {
	s.exact, s.margin = st.exact, st.margin
	for i := range s.placed {
		s.placed[i].Anchor = st.anchors[i]
	}
	s.boundingWidth, s.boundingHeight = st.boundingWidth, st.boundingHeight
}

// rebuild clears both grids and re-marks placed tiles from scratch. With
// all false only preplaced tiles are re-marked. Bounds are recomputed
// from every placed tile.
func (s *Session) rebuild(all bool) error {
	s.exact.Reset()
	if s.margin != nil {
		s.margin.Reset()
	}
	s.boundingWidth, s.boundingHeight = 0, 0

	var firstErr error
	for _, t := range s.placed {
		clearance := Clearance(s.settings, t)
		if all || t.Class == model.ClassPreplaced {
			if err := s.mark(t.Anchor, t, clearance); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("rebuild tile %s: %w", t.ID, err)
			}
		}
		s.grow(t.Anchor, t, clearance)
	}
	s.log.WithFields(logrus.Fields{
		"tiles":      len(s.placed),
		"free_tiles": all,
	}).Debug("grids rebuilt")
	return firstErr
}
