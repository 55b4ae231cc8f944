// Package export writes packing results to text, PDF, Excel and DXF files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/TianXue2002/H-chain/internal/model"
)

// resultTag returns the record tag for a placed tile, for example
// "Preplaced/inter".
func resultTag(t model.Tile) string {
	tag := "Placed"
	if t.Class == model.ClassPreplaced {
		tag = "Preplaced"
	}
	if t.Region == model.RegionInter {
		tag += "/inter"
	}
	return tag
}

// WriteResults writes the bounding box followed by one line per placed
// tile in placement order: tag, anchor, then "w h dx dy" per part.
func WriteResults(w io.Writer, result model.PackResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Bounding Width: %d\n", result.BoundingWidth)
	fmt.Fprintf(bw, "Bounding Height: %d\n", result.BoundingHeight)
	for _, t := range result.Placed {
		fmt.Fprintf(bw, "%s %d", resultTag(t), t.Anchor)
		for _, p := range t.Parts {
			fmt.Fprintf(bw, " %d %d %d %d", p.Width, p.Height, p.OffsetX, p.OffsetY)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportResults writes the results file to path.
func ExportResults(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	if err := WriteResults(f, result); err != nil {
		f.Close()
		return fmt.Errorf("write results: %w", err)
	}
	return f.Close()
}
