package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/TianXue2002/H-chain/internal/importer"
	"github.com/TianXue2002/H-chain/internal/model"
)

// dxfLayer returns the layer a tile's parts are drawn on. The names are
// the ones the DXF importer maps back to class and region.
func dxfLayer(t model.Tile) string {
	switch {
	case t.Class == model.ClassPreplaced && t.Region == model.RegionInter:
		return importer.LayerPreplacedInter
	case t.Class == model.ClassPreplaced:
		return importer.LayerPreplaced
	case t.Region == model.RegionInter:
		return importer.LayerPlacedInter
	default:
		return importer.LayerPlaced
	}
}

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{importer.LayerBounds, color.White},
	{importer.LayerPlaced, color.Green},
	{importer.LayerPlacedInter, color.Blue},
	{importer.LayerPreplaced, color.Yellow},
	{importer.LayerPreplacedInter, color.Magenta},
}

func rectVertices(r model.Rect) [][]float64 {
	x0, y0 := float64(r.X), float64(r.Y)
	x1, y1 := float64(r.Right()), float64(r.Bottom())
	return [][]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// ExportDXF writes every placed part as a closed LWPOLYLINE in strip
// cell units, one layer per tile kind, plus the bounding box outline.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Placed) == 0 {
		return fmt.Errorf("no placed tiles to export")
	}

	d := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(importer.LayerBounds); err != nil {
		return fmt.Errorf("select layer %s: %w", importer.LayerBounds, err)
	}
	bounds := model.Rect{W: result.BoundingWidth, H: result.BoundingHeight}
	if _, err := d.LwPolyline(true, rectVertices(bounds)...); err != nil {
		return fmt.Errorf("draw bounding box: %w", err)
	}

	for _, t := range result.Placed {
		if err := d.ChangeLayer(dxfLayer(t)); err != nil {
			return fmt.Errorf("select layer for tile %s: %w", t.ID, err)
		}
		for _, r := range t.Footprint(t.Anchor) {
			if _, err := d.LwPolyline(true, rectVertices(r)...); err != nil {
				return fmt.Errorf("draw tile %s: %w", t.ID, err)
			}
		}
	}

	return d.SaveAs(path)
}
