package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/TianXue2002/H-chain/internal/model"
)

// Layer names written by the DXF exporter. Importing them back restores
// the class and region of each part.
const (
	LayerPlaced         = "PLACED"
	LayerPlacedInter    = "PLACED_INTER"
	LayerPreplaced      = "PREPLACED"
	LayerPreplacedInter = "PREPLACED_INTER"
	LayerBounds         = "BOUNDS" // Bounding box outline, not a tile
)

// ImportDXF imports tiles from a DXF file. Each closed LWPOLYLINE or
// CIRCLE becomes a single-part tile sized to its bounding box rounded to
// whole cells; the part row offset is the shape's minimum y. Shapes on a
// preplaced layer keep their minimum x as the anchor.
func ImportDXF(path string, opts Options) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	shapeNum := 0
	for _, ent := range entities {
		layer := ""
		if l := ent.Layer(); l != nil {
			layer = strings.ToUpper(l.Name())
		}
		if layer == LayerBounds {
			continue
		}

		var mins, maxs [2]float64
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			mins, maxs = vertexBounds(e.Vertices)
		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			mins = [2]float64{cx - r, cy - r}
			maxs = [2]float64{cx + r, cy + r}
		default:
			// Unsupported entity types are silently skipped
			continue
		}
		shapeNum++

		x0, y0 := int(math.Round(mins[0])), int(math.Round(mins[1]))
		w := int(math.Round(maxs[0])) - x0
		h := int(math.Round(maxs[1])) - y0
		if w <= 0 || h <= 0 || y0 < 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape %d (%.2f x %.2f at y=%.2f)", shapeNum, maxs[0]-mins[0], maxs[1]-mins[1], mins[1]))
			continue
		}

		tile := model.NewTile(model.Part{Width: w, Height: h, OffsetY: y0})
		tile.Label = fmt.Sprintf("DXF Tile %d", shapeNum)

		tagged := false
		switch layer {
		case LayerPreplaced, LayerPreplacedInter:
			if x0 < 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Skipped preplaced shape %d with negative x %d", shapeNum, x0))
				continue
			}
			tile.Class = model.ClassPreplaced
			tile.Anchor = x0
			tagged = true
		case LayerPlaced:
			tagged = true
		}
		if strings.HasSuffix(layer, "_INTER") {
			tile.Region = model.RegionInter
			tagged = true
		}
		classify(&tile, tagged, opts)
		result.Tiles = append(result.Tiles, tile)
	}

	if len(result.Tiles) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}
	return result
}

// vertexBounds returns the x/y bounding box of a vertex list.
func vertexBounds(vs [][]float64) (mins, maxs [2]float64) {
	mins = [2]float64{math.Inf(1), math.Inf(1)}
	maxs = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, v := range vs {
		if len(v) < 2 {
			continue
		}
		mins[0], maxs[0] = math.Min(mins[0], v[0]), math.Max(maxs[0], v[0])
		mins[1], maxs[1] = math.Min(mins[1], v[1]), math.Max(maxs[1], v[1])
	}
	return mins, maxs
}
