package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TianXue2002/H-chain/internal/engine"
	"github.com/TianXue2002/H-chain/internal/export"
	"github.com/TianXue2002/H-chain/internal/importer"
	"github.com/TianXue2002/H-chain/internal/model"
	"github.com/TianXue2002/H-chain/internal/project"
)

// settingsFlags override the packing settings loaded from the config file.
type settingsFlags struct {
	maxWidth    int
	maxHeight   int
	separation  int
	policy      string
	rounding    string
	push        string
	order       string
	seams       []int
	rebuildFree bool
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.maxWidth, "max-width", 0, "strip width limit in cells")
	fs.IntVar(&f.maxHeight, "max-height", 0, "strip height in rows")
	fs.IntVar(&f.separation, "separation", 0, "clearance separation for inter tiles")
	fs.StringVar(&f.policy, "policy", "", "clearance policy (fixed, periodic)")
	fs.StringVar(&f.rounding, "rounding", "", "periodic rounding (literal, ceil)")
	fs.StringVar(&f.push, "push", "", "push policy for preplaced tiles (clear, literal)")
	fs.StringVar(&f.order, "order", "", "free tile order (input, area, height)")
	fs.IntSliceVar(&f.seams, "seams", nil, "strip rows that make crossing tiles inter")
	fs.BoolVar(&f.rebuildFree, "rebuild-free", true, "re-mark free tiles when grids are rebuilt")
}

// apply returns s with every flag the user set applied.
func (f *settingsFlags) apply(fs *pflag.FlagSet, s model.Settings) model.Settings {
	if fs.Changed("max-width") {
		s.MaxWidth = f.maxWidth
	}
	if fs.Changed("max-height") {
		s.MaxHeight = f.maxHeight
	}
	if fs.Changed("separation") {
		s.Separation = f.separation
	}
	if fs.Changed("policy") {
		s.Policy = model.ClearancePolicy(f.policy)
	}
	if fs.Changed("rounding") {
		s.Rounding = model.Rounding(f.rounding)
	}
	if fs.Changed("push") {
		s.Push = model.PushPolicy(f.push)
	}
	if fs.Changed("order") {
		s.Order = model.TileOrder(f.order)
	}
	if fs.Changed("seams") {
		s.Seams = f.seams
	}
	if fs.Changed("rebuild-free") {
		s.RebuildFreeTiles = f.rebuildFree
	}
	return s
}

// outputFlags name the files a packing result is written to.
type outputFlags struct {
	results  string
	pdf      string
	xlsx     string
	dxf      string
	labels   string
	snapshot string
	render   bool
	gaps     int
	length   int
}

func (o *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.results, "output", "o", "", "results file (default stdout)")
	fs.StringVar(&o.pdf, "pdf", "", "write a PDF report")
	fs.StringVar(&o.xlsx, "xlsx", "", "write an Excel workbook")
	fs.StringVar(&o.dxf, "dxf", "", "write a DXF drawing")
	fs.StringVar(&o.labels, "labels", "", "write a PDF sheet of QR tile labels")
	fs.StringVar(&o.snapshot, "snapshot", "", "save a session snapshot for later moves")
	fs.BoolVar(&o.render, "render", false, "print an ASCII view of the strip")
	fs.IntVar(&o.gaps, "gaps", 0, "report free runs at least this wide")
	fs.IntVar(&o.length, "length", 0, "estimate copies needed to cover this many columns")
}

var (
	packSettings  settingsFlags
	packOutputs   outputFlags
	packPreplaced string
)

var cmdPack = cobra.Command{
	Use:   "pack <tiles>",
	Short: "Pack a tile file onto the strip.",
	Long: `Pack reads tiles from a text, CSV, Excel or DXF file, adds the
preplaced tiles, places the free tiles first-fit and writes the result.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := packSettings.apply(cmd.Flags(), cfg.Packing)
		return packOnce(cmd.OutOrStdout(), args[0], packPreplaced, settings, packOutputs)
	},
}

func init() {
	packSettings.register(cmdPack.Flags())
	packOutputs.register(cmdPack.Flags())
	cmdPack.Flags().StringVar(&packPreplaced, "preplaced", "", "preplaced tile file (x w h dx dy per line)")
}

// logImport reports the diagnostics of an import. Records with errors
// were skipped by the importer.
func logImport(path string, r importer.ImportResult) {
	l := logrus.WithField("file", path)
	for _, w := range r.Warnings {
		l.Debug(w)
	}
	for _, e := range r.Errors {
		l.Warn(e)
	}
}

// loadTiles imports the tile file and, if given, the preplaced file.
func loadTiles(path, preplacedPath string, seams []int) ([]model.Tile, error) {
	opts := importer.Options{Seams: seams}

	r := importer.Import(path, opts)
	logImport(path, r)
	tiles := r.Tiles

	if preplacedPath != "" {
		p := importer.ImportPreplaced(preplacedPath, opts)
		logImport(preplacedPath, p)
		tiles = append(tiles, p.Tiles...)
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%s: no valid tiles", path)
	}
	logrus.WithField("tiles", len(tiles)).Info("tiles loaded")
	return tiles, nil
}

// pack runs a new session over tiles and warns about overlapping
// preplaced input.
func pack(settings model.Settings, tiles []model.Tile) (model.PackResult, *engine.Session, error) {
	var pre []model.Tile
	for _, t := range tiles {
		if t.Class == model.ClassPreplaced {
			pre = append(pre, t)
		}
	}
	for _, w := range engine.FormatCollisionWarnings(engine.FindCollisions(pre)) {
		logrus.Warn(w)
	}

	s, err := engine.NewSession(settings, engine.WithLogger(logrus.StandardLogger()))
	if err != nil {
		return model.PackResult{}, nil, err
	}
	result := s.PlaceAll(tiles)
	logrus.WithFields(logrus.Fields{
		"placed":   len(result.Placed),
		"unplaced": len(result.Unplaced),
		"width":    result.BoundingWidth,
		"height":   result.BoundingHeight,
	}).Info("packing finished")
	return result, s, nil
}

// packOnce loads the tiles, packs them and writes the requested outputs.
func packOnce(stdout io.Writer, path, preplacedPath string, settings model.Settings, o outputFlags) error {
	tiles, err := loadTiles(path, preplacedPath, settings.Seams)
	if err != nil {
		return err
	}
	result, s, err := pack(settings, tiles)
	if err != nil {
		return err
	}
	return writeOutputs(stdout, s, result, o)
}

// writeOutputs writes the result files requested by o. The results text
// goes to stdout when no output file is named.
func writeOutputs(stdout io.Writer, s *engine.Session, result model.PackResult, o outputFlags) error {
	var errs []error
	if o.results != "" {
		errs = append(errs, export.ExportResults(o.results, result))
	} else {
		errs = append(errs, export.WriteResults(stdout, result))
	}

	files := []struct {
		path  string
		write func(string, model.PackResult) error
	}{
		{o.pdf, export.ExportPDF},
		{o.xlsx, export.ExportExcel},
		{o.dxf, export.ExportDXF},
		{o.labels, export.ExportLabels},
		{o.snapshot, project.SaveSnapshot},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := f.write(f.path, result); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.path, err))
			continue
		}
		logrus.WithField("file", f.path).Info("written")
	}

	if o.render {
		errs = append(errs, s.Render(stdout, cfg.Render.Rows, cfg.Render.Cols))
	}
	if o.gaps > 0 {
		gaps := model.DetectGaps(result, o.gaps)
		fmt.Fprintf(stdout, "Gaps: %d runs, %d cells\n", len(gaps), model.TotalGapCells(gaps))
		for _, g := range gaps {
			fmt.Fprintf(stdout, "  row %d: x=%d width %d\n", g.Row, g.X, g.Width)
		}
	}
	if o.length > 0 {
		est := model.EstimatePeriod(result, o.length)
		fmt.Fprintf(stdout, "Period %d: %d copies cover %d columns (%.2f exact, overhang %d)\n",
			est.Period, est.CopiesNeeded, est.TotalLength, est.CopiesExact, est.Overhang)
	}
	return errors.Join(errs...)
}
