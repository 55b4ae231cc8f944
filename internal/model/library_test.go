package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTileSet_DropsFreeAnchors(t *testing.T) {
	free := NewTile(Part{Width: 2, Height: 1})
	free.Anchor = 9
	free.Placed = true
	pre := NewPreplacedTile(4, Part{Width: 1, Height: 1})

	set := NewTileSet("row", "two tiles", []Tile{free, pre}, DefaultSettings())
	require.Len(t, set.Tiles, 2)
	assert.Equal(t, 0, set.Tiles[0].Anchor)
	assert.False(t, set.Tiles[0].Placed)
	assert.Equal(t, 4, set.Tiles[1].Anchor)
	assert.NotEmpty(t, set.CreatedAt)

	tiles := set.Instantiate()
	require.Len(t, tiles, 2)
	assert.NotEqual(t, free.ID, tiles[0].ID)
	assert.Equal(t, ClassPreplaced, tiles[1].Class)
	assert.Equal(t, 4, tiles[1].Anchor)
}

func TestLibrary_AddFindRemove(t *testing.T) {
	lib := NewLibrary()
	a := NewTileSet("a", "", nil, DefaultSettings())
	b := NewTileSet("b", "", nil, DefaultSettings())
	lib.Add(a)
	lib.Add(b)
	assert.Equal(t, []string{"a", "b"}, lib.Names())

	replacement := NewTileSet("a", "newer", nil, DefaultSettings())
	lib.Add(replacement)
	require.Len(t, lib.Sets, 2)
	assert.Equal(t, "newer", lib.FindByName("a").Description)

	assert.NotNil(t, lib.FindByID(b.ID))
	assert.True(t, lib.Remove(b.ID))
	assert.False(t, lib.Remove(b.ID))
	assert.Nil(t, lib.FindByName("b"))
}
