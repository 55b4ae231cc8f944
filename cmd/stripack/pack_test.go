package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TianXue2002/H-chain/internal/model"
	"github.com/TianXue2002/H-chain/internal/project"
)

func TestSettingsFlags_ApplyOnlyChanged(t *testing.T) {
	var f settingsFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"--separation=3", "--seams=2,4", "--policy=periodic"}))

	base := model.DefaultSettings()
	got := f.apply(fs, base)

	assert.Equal(t, 3, got.Separation)
	assert.Equal(t, []int{2, 4}, got.Seams)
	assert.Equal(t, model.PolicyPeriodic, got.Policy)
	assert.Equal(t, base.MaxWidth, got.MaxWidth)
	assert.Equal(t, base.Push, got.Push)
	assert.True(t, got.RebuildFreeTiles)
}

func TestSettingsFlags_RebuildFreeCanBeDisabled(t *testing.T) {
	var f settingsFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"--rebuild-free=false"}))

	got := f.apply(fs, model.DefaultSettings())
	assert.False(t, got.RebuildFreeTiles)
}

func TestPackOnce_WritesResultsToStdout(t *testing.T) {
	dir := t.TempDir()
	tiles := filepath.Join(dir, "tiles.txt")
	require.NoError(t, os.WriteFile(tiles, []byte("1\n3 2 0 0\n1\n3 2 0 0\n"), 0644))

	settings := model.DefaultSettings()
	settings.MaxWidth = 100
	settings.MaxHeight = 6

	var out bytes.Buffer
	require.NoError(t, packOnce(&out, tiles, "", settings, outputFlags{}))
	assert.Equal(t,
		"Bounding Width: 6\nBounding Height: 2\nPlaced 0 3 2 0 0\nPlaced 3 3 2 0 0\n",
		out.String())
}

func TestPackOnce_WritesRequestedFiles(t *testing.T) {
	dir := t.TempDir()
	tiles := filepath.Join(dir, "tiles.txt")
	require.NoError(t, os.WriteFile(tiles, []byte("1\n3 2 0 0\n"), 0644))

	o := outputFlags{
		results:  filepath.Join(dir, "out.txt"),
		xlsx:     filepath.Join(dir, "out.xlsx"),
		snapshot: filepath.Join(dir, "snap.json"),
		gaps:     1,
	}
	settings := model.DefaultSettings()
	settings.MaxWidth = 50
	settings.MaxHeight = 4

	var out bytes.Buffer
	require.NoError(t, packOnce(&out, tiles, "", settings, o))
	assert.Contains(t, out.String(), "Gaps: 0 runs")

	for _, p := range []string{o.results, o.xlsx, o.snapshot} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	snap, err := project.LoadSnapshot(o.snapshot)
	require.NoError(t, err)
	assert.Len(t, snap.Result.Placed, 1)
}

func TestPackOnce_NoValidTiles(t *testing.T) {
	dir := t.TempDir()
	tiles := filepath.Join(dir, "tiles.txt")
	require.NoError(t, os.WriteFile(tiles, []byte("# nothing here\n"), 0644))

	err := packOnce(&bytes.Buffer{}, tiles, "", model.DefaultSettings(), outputFlags{})
	assert.Error(t, err)
}

func TestWatchLoop_RepacksUntilClosed(t *testing.T) {
	events := make(chan string, 2)
	errs := make(chan error)
	w := &project.Watcher{Events: events, Errors: errs}

	events <- "tiles.txt"
	events <- "tiles.txt"
	close(events)

	calls := 0
	require.NoError(t, watchLoop(context.Background(), w, func() { calls++ }))
	assert.Equal(t, 2, calls)
}

func TestWatchLoop_StopsOnCancel(t *testing.T) {
	w := &project.Watcher{Events: make(chan string), Errors: make(chan error)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	require.NoError(t, watchLoop(ctx, w, func() { calls++ }))
	assert.Zero(t, calls)
}
