package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TianXue2002/H-chain/internal/importer"
	"github.com/TianXue2002/H-chain/internal/model"
)

// buildTestResult returns a small hand-checked result: a free tile at 0,
// a two-part Inter tile at 3 with clearance 2 and a preplaced tile at 8.
func buildTestResult() model.PackResult {
	settings := model.DefaultSettings()
	settings.MaxWidth = 100
	settings.MaxHeight = 6
	settings.Separation = 2

	a := model.NewTile(model.Part{Width: 3, Height: 2})
	a.Label = "A"
	a.Placed = true

	b := model.NewTile(
		model.Part{Width: 2, Height: 1, OffsetY: 2},
		model.Part{Width: 1, Height: 1, OffsetX: 2, OffsetY: 3},
	)
	b.Region = model.RegionInter
	b.Anchor = 3
	b.Placed = true

	p := model.NewPreplacedTile(8, model.Part{Width: 2, Height: 2})
	p.Placed = true

	return model.PackResult{
		Settings:       settings,
		BoundingWidth:  10,
		BoundingHeight: 4,
		Placed:         []model.Tile{a, b, p},
		Unplaced:       []model.Tile{model.NewTile(model.Part{Width: 1, Height: 9})},
	}
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, buildTestResult()))

	want := "Bounding Width: 10\n" +
		"Bounding Height: 4\n" +
		"Placed 0 3 2 0 0\n" +
		"Placed/inter 3 2 1 0 2 1 1 2 3\n" +
		"Preplaced 8 2 2 0 0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, model.PackResult{}))
	assert.Equal(t, "Bounding Width: 0\nBounding Height: 0\n", buf.String())
}

func TestExportResults_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	result := buildTestResult()
	require.NoError(t, ExportResults(path, result))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	back := importer.ReadResults(f)
	require.Empty(t, back.Errors)
	assert.Equal(t, result.BoundingWidth, back.BoundingWidth)
	assert.Equal(t, result.BoundingHeight, back.BoundingHeight)
	require.Len(t, back.Tiles, len(result.Placed))
	for i, want := range result.Placed {
		got := back.Tiles[i]
		assert.Equal(t, want.Class, got.Class)
		assert.Equal(t, want.Region, got.Region)
		assert.Equal(t, want.Anchor, got.Anchor)
		assert.Equal(t, want.Parts, got.Parts)
		assert.True(t, got.Placed)
	}
}

func TestExportResults_BadPath(t *testing.T) {
	err := ExportResults(filepath.Join(t.TempDir(), "missing", "results.txt"), buildTestResult())
	assert.Error(t, err)
}
