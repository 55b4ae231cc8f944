package engine

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TianXue2002/H-chain/internal/model"
)

func testSettings() model.Settings {
	s := model.DefaultSettings()
	s.MaxWidth = 100
	s.MaxHeight = 10
	return s
}

func newTestSession(t *testing.T, mutate func(*model.Settings)) (*Session, *logtest.Hook) {
	t.Helper()
	s := testSettings()
	if mutate != nil {
		mutate(&s)
	}
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	sess, err := NewSession(s, WithLogger(logger))
	require.NoError(t, err)
	return sess, hook
}

func interTile(w, h int) model.Tile {
	t := rectTile(w, h)
	t.Region = model.RegionInter
	return t
}

func TestNewSession_RejectsNegativeSeparation(t *testing.T) {
	s := testSettings()
	s.Separation = -1
	_, err := NewSession(s)
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestPlace_FirstFitLeftmost(t *testing.T) {
	sess, _ := newTestSession(t, nil)

	x, err := sess.Place(rectTile(3, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, x)

	x, err = sess.Place(rectTile(3, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, x)

	assert.Equal(t, 6, sess.BoundingWidth())
	assert.Equal(t, 2, sess.BoundingHeight())

	placed := sess.Placed()
	require.Len(t, placed, 2)
	assert.Equal(t, 0, placed[0].Anchor)
	assert.Equal(t, 3, placed[1].Anchor)
	assert.True(t, placed[1].Placed)
}

func TestPlace_FillsGapInLowerRows(t *testing.T) {
	sess, _ := newTestSession(t, nil)

	// An L-shaped tile leaves rows 2..3 free at x 2..4.
	l := model.NewTile(
		model.Part{Width: 5, Height: 2},
		model.Part{Width: 2, Height: 2, OffsetY: 2},
	)
	_, err := sess.Place(l)
	require.NoError(t, err)

	low := model.NewTile(model.Part{Width: 3, Height: 2, OffsetY: 2})
	x, err := sess.Place(low)
	require.NoError(t, err)
	assert.Equal(t, 2, x)
}

func TestPlace_Deterministic(t *testing.T) {
	run := func() []int {
		sess, _ := newTestSession(t, nil)
		var xs []int
		for _, w := range []int{3, 1, 4, 1, 5} {
			x, err := sess.Place(rectTile(w, 1+w%3))
			require.NoError(t, err)
			xs = append(xs, x)
		}
		return xs
	}
	assert.Equal(t, run(), run())
}

func TestPlace_NotPlacedLeavesNoTrace(t *testing.T) {
	sess, hook := newTestSession(t, func(s *model.Settings) { s.MaxWidth = 5 })

	_, err := sess.Place(rectTile(3, 2))
	require.NoError(t, err)
	before := sess.exact.Occupied()

	x, err := sess.Place(rectTile(3, 2))
	assert.Equal(t, NotPlaced, x)
	assert.ErrorIs(t, err, ErrNotPlaced)
	assert.Equal(t, before, sess.exact.Occupied())
	assert.Equal(t, 3, sess.BoundingWidth())
	assert.Len(t, sess.Placed(), 1)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestPlace_RejectsInvalidTiles(t *testing.T) {
	sess, _ := newTestSession(t, nil)

	_, err := sess.Place(model.Tile{})
	assert.ErrorIs(t, err, model.ErrEmptyTile)

	_, err = sess.Place(rectTile(0, 1))
	assert.ErrorIs(t, err, model.ErrInvalidPart)

	_, err = sess.Place(rectTile(2, 11))
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = sess.Place(model.NewPreplacedTile(0, model.Part{Width: 1, Height: 1}))
	assert.ErrorIs(t, err, ErrPreplacedTile)

	assert.Empty(t, sess.Placed())
}

func TestPlace_ClearanceExclusivity(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) { s.Separation = 2 })

	x, err := sess.Place(interTile(3, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, x)
	assert.Equal(t, 5, sess.BoundingWidth())

	// An intra tile may use the clearance cells right away.
	x, err = sess.Place(rectTile(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, x)

	// Another inter tile must stay out of the first one's clearance.
	x, err = sess.Place(interTile(3, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, x)
	assert.Equal(t, 10, sess.BoundingWidth())

	// Cells 3..4 hold only the intra tile.
	assert.True(t, sess.Occupied(0, 3))
	assert.True(t, sess.Occupied(0, 4))
}

func TestPlace_InterClearanceMayCoverIntraCells(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) { s.Separation = 3 })

	// Intra tiles never mark the clearance grid, so the inter tile's
	// trailing margin may run over them.
	require.NoError(t, sess.AddPreplaced(model.NewPreplacedTile(5, model.Part{Width: 2, Height: 1})))
	x, err := sess.Place(interTile(4, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, x)
	assert.Equal(t, 7, sess.BoundingWidth())

	// A second inter tile is kept out of that margin.
	x, err = sess.Place(interTile(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 7, x)
}

func TestPlace_ZeroSeparationMatchesIntra(t *testing.T) {
	inter, _ := newTestSession(t, func(s *model.Settings) { s.Separation = 0 })
	intra, _ := newTestSession(t, func(s *model.Settings) { s.Separation = 0 })
	periodic, _ := newTestSession(t, func(s *model.Settings) {
		s.Separation = 0
		s.Policy = model.PolicyPeriodic
	})

	for _, w := range []int{3, 2, 4} {
		xa, err := inter.Place(interTile(w, 2))
		require.NoError(t, err)
		xb, err := intra.Place(rectTile(w, 2))
		require.NoError(t, err)
		xc, err := periodic.Place(interTile(w, 2))
		require.NoError(t, err)
		assert.Equal(t, xb, xa)
		assert.Equal(t, xb, xc)
	}
	assert.Equal(t, intra.BoundingWidth(), inter.BoundingWidth())
	assert.Equal(t, intra.BoundingWidth(), periodic.BoundingWidth())
}

func TestPlace_PeriodicClearanceWidensBounds(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) {
		s.Separation = 6
		s.Policy = model.PolicyPeriodic
	})
	_, err := sess.Place(interTile(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 12, sess.BoundingWidth(), "literal rounding gives 9 cells of clearance")

	ceil, _ := newTestSession(t, func(s *model.Settings) {
		s.Separation = 6
		s.Policy = model.PolicyPeriodic
		s.Rounding = model.RoundingCeil
	})
	_, err = ceil.Place(interTile(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 9, ceil.BoundingWidth())
}

func TestPlace_NoOverlapAndMonotonicBounds(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) {
		s.MaxWidth = 400
		s.Separation = 2
	})
	rng := rand.New(rand.NewSource(7))

	prevW, prevH := 0, 0
	for i := 0; i < 60; i++ {
		parts := []model.Part{{
			Width:   1 + rng.Intn(5),
			Height:  1 + rng.Intn(3),
			OffsetY: rng.Intn(6),
		}}
		if rng.Intn(2) == 0 {
			parts = append(parts, model.Part{
				Width:   1 + rng.Intn(3),
				Height:  1 + rng.Intn(2),
				OffsetX: rng.Intn(4),
				OffsetY: 8,
			})
		}
		tile := model.NewTile(parts...)
		if rng.Intn(3) == 0 {
			tile.Region = model.RegionInter
		}
		_, _ = sess.Place(tile)

		assert.GreaterOrEqual(t, sess.BoundingWidth(), prevW)
		assert.GreaterOrEqual(t, sess.BoundingHeight(), prevH)
		prevW, prevH = sess.BoundingWidth(), sess.BoundingHeight()
	}

	placed := sess.Placed()
	assert.Empty(t, FindCollisions(placed))

	used := 0
	for _, tile := range placed {
		used += tile.Area()
	}
	assert.Equal(t, used, sess.exact.Occupied())
}

func TestPlaceAll_OrdersAndCollectsFailures(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) { s.MaxWidth = 10 })

	a := rectTile(2, 1)
	a.Label = "a"
	b := interTile(2, 1)
	b.Label = "b"
	big := rectTile(20, 1)
	big.Label = "big"
	pre := model.NewPreplacedTile(8, model.Part{Width: 2, Height: 1})
	pre.Label = "pre"

	res := sess.PlaceAll([]model.Tile{a, big, b, pre})

	require.Len(t, res.Placed, 3)
	assert.Equal(t, "pre", res.Placed[0].Label)
	assert.Equal(t, "b", res.Placed[1].Label)
	assert.Equal(t, 0, res.Placed[1].Anchor)
	assert.Equal(t, "a", res.Placed[2].Label)
	assert.Equal(t, 2, res.Placed[2].Anchor)

	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, "big", res.Unplaced[0].Label)
}

func TestPlaceAll_AreaOrder(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) {
		s.Order = model.OrderArea
		s.InterFirst = false
	})
	small := rectTile(1, 1)
	large := rectTile(4, 2)

	res := sess.PlaceAll([]model.Tile{small, large})
	require.Len(t, res.Placed, 2)
	assert.Equal(t, large.ID, res.Placed[0].ID)
	assert.Equal(t, 0, res.Placed[0].Anchor)
}

func TestRestore_RebuildsGrid(t *testing.T) {
	sess, _ := newTestSession(t, func(s *model.Settings) { s.Separation = 1 })
	require.NoError(t, sess.AddPreplaced(model.NewPreplacedTile(10, model.Part{Width: 2, Height: 2})))
	_, err := sess.Place(interTile(3, 2))
	require.NoError(t, err)
	_, err = sess.Place(rectTile(2, 1))
	require.NoError(t, err)

	res := sess.Result()
	restored, err := Restore(res.Settings, res)
	require.NoError(t, err)

	assert.Equal(t, sess.BoundingWidth(), restored.BoundingWidth())
	assert.Equal(t, sess.BoundingHeight(), restored.BoundingHeight())
	assert.Equal(t, sess.exact.Occupied(), restored.exact.Occupied())
	assert.Equal(t, sess.Placed(), restored.Placed())
}

func TestRender_ClipsToWindow(t *testing.T) {
	sess, _ := newTestSession(t, nil)
	_, err := sess.Place(rectTile(3, 2))
	require.NoError(t, err)
	_, err = sess.Place(model.NewTile(model.Part{Width: 3, Height: 1, OffsetY: 1}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sess.Render(&buf, 0, 0))
	assert.Equal(t, "Packing visualization (6x2):\n###...\n######\n", buf.String())

	buf.Reset()
	require.NoError(t, sess.Render(&buf, 1, 4))
	assert.Equal(t, "Packing visualization (6x2):\n###.\n", buf.String())
}
