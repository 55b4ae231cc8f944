package engine

import (
	"bufio"
	"fmt"
	"io"
)

// Default render window.
const (
	DefaultRenderRows = 20
	DefaultRenderCols = 80
)

// Render writes an ASCII view of the exact grid clipped to the used
// bounding box and to maxRows x maxCols. Occupied cells print as '#'.
// Non-positive limits fall back to the defaults.
func (s *Session) Render(w io.Writer, maxRows, maxCols int) error {
	if maxRows <= 0 {
		maxRows = DefaultRenderRows
	}
	if maxCols <= 0 {
		maxCols = DefaultRenderCols
	}
	rows := min(s.boundingHeight, maxRows, s.exact.Rows())
	cols := min(s.boundingWidth, maxCols, s.exact.Cols())

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Packing visualization (%dx%d):\n", s.boundingWidth, s.boundingHeight)
	line := make([]byte, cols+1)
	line[cols] = '\n'
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if s.exact.Cell(r, c) {
				line[c] = '#'
			} else {
				line[c] = '.'
			}
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
