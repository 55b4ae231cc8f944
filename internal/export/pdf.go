package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/TianXue2002/H-chain/internal/engine"
	"github.com/TianXue2002/H-chain/internal/model"
)

// tileColor represents an RGB color for a placed tile.
type tileColor struct {
	R, G, B int
}

// tileKind indexes kindColors by class and region.
type tileKind struct {
	class  model.Class
	region model.Region
}

var kindColors = map[tileKind]tileColor{
	{model.ClassFree, model.RegionIntra}:      {R: 76, G: 175, B: 80},  // green
	{model.ClassFree, model.RegionInter}:      {R: 33, G: 150, B: 243}, // blue
	{model.ClassPreplaced, model.RegionIntra}: {R: 255, G: 152, B: 0},  // orange
	{model.ClassPreplaced, model.RegionInter}: {R: 156, G: 39, B: 176}, // purple
}

var kindOrder = []tileKind{
	{model.ClassFree, model.RegionIntra},
	{model.ClassFree, model.RegionInter},
	{model.ClassPreplaced, model.RegionIntra},
	{model.ClassPreplaced, model.RegionInter},
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 8.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	maxCellSize   = 4.0  // mm per grid cell
	maxBandHeight = 40.0 // mm
	bandGap       = 9.0  // mm between bands, room for the x annotations
	maxBands      = 120
	qrSummarySize = 40.0
	maxTableRows  = 12
)

// bandLayout describes how the bounding box is split into horizontal
// bands that each fit the page width.
type bandLayout struct {
	cell        float64 // mm per grid cell
	colsPerBand int
	bands       int
	truncated   bool
}

func layoutBands(boundingWidth, boundingHeight int) bandLayout {
	l := bandLayout{cell: maxCellSize}
	if boundingHeight > 0 {
		l.cell = math.Min(maxCellSize, maxBandHeight/float64(boundingHeight))
	}
	drawWidth := pageWidth - marginLeft - marginRight
	l.colsPerBand = max(1, int(drawWidth/l.cell))
	l.bands = (boundingWidth + l.colsPerBand - 1) / l.colsPerBand
	if l.bands > maxBands {
		l.bands = maxBands
		l.truncated = true
	}
	return l
}

// ExportPDF generates a PDF report of a packing result. The strip is
// drawn in bands across as many pages as needed, followed by a summary
// page whose QR code encodes the JSON summary.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Placed) == 0 || result.BoundingWidth == 0 {
		return fmt.Errorf("no placed tiles to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	layout := layoutBands(result.BoundingWidth, result.BoundingHeight)
	bandH := float64(result.BoundingHeight) * layout.cell
	page := 0
	y := 0.0

	for b := 0; b < layout.bands; b++ {
		if page == 0 || y+bandH+bandGap > pageHeight-marginBottom-legendHeight {
			if page > 0 {
				drawLegend(pdf, pageHeight-marginBottom-legendHeight+2)
			}
			pdf.AddPage()
			page++
			renderPageHeader(pdf, result, page)
			y = drawAreaTop
		}
		x0 := b * layout.colsPerBand
		x1 := min(result.BoundingWidth, x0+layout.colsPerBand)
		renderBand(pdf, result, x0, x1, layout.cell, y)
		y += bandH + bandGap
	}
	if layout.truncated {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		note := fmt.Sprintf("Drawing truncated at x=%d of %d", layout.bands*layout.colsPerBand, result.BoundingWidth)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, note, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	drawLegend(pdf, pageHeight-marginBottom-legendHeight+2)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, result); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderPageHeader draws the title and stats line of a strip page.
func renderPageHeader(pdf *fpdf.Fpdf, result model.PackResult, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Strip layout %d x %d (page %d)", result.BoundingWidth, result.BoundingHeight, pageNum)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Tiles: %d | Used cells: %d | Bounding area: %d | Efficiency: %.1f%% | Separation: %d (%s)",
		len(result.Placed), result.UsedCells(), result.BoundingArea(), result.Efficiency(),
		result.Settings.Separation, result.Settings.Policy)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// clip returns the part of [a, b) inside [lo, hi).
func clip(a, b, lo, hi int) (int, int, bool) {
	a, b = max(a, lo), min(b, hi)
	return a, b, a < b
}

// renderBand draws the columns [x0, x1) of the strip at vertical position top.
func renderBand(pdf *fpdf.Fpdf, result model.PackResult, x0, x1 int, cell, top float64) {
	bandW := float64(x1-x0) * cell
	bandH := float64(result.BoundingHeight) * cell

	// Free cells
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(marginLeft, top, bandW, bandH, "FD")

	for _, t := range result.Placed {
		col := kindColors[tileKind{t.Class, t.Region}]
		c := engine.Clearance(result.Settings, t)

		for _, r := range t.Footprint(t.Anchor) {
			py := top + float64(r.Y)*cell
			ph := float64(r.H) * cell

			if c > 0 {
				if a, b, ok := clip(r.Right(), r.Right()+c, x0, x1); ok {
					mx := marginLeft + float64(a-x0)*cell
					drawHatchPattern(pdf, mx, py, float64(b-a)*cell, ph)
				}
			}

			a, b, ok := clip(r.X, r.Right(), x0, x1)
			if !ok {
				continue
			}
			px := marginLeft + float64(a-x0)*cell
			pw := float64(b-a) * cell

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.2)
			pdf.Rect(px, py, pw, ph, "FD")

			// Tile label only if the rectangle is large enough
			if pw > 15 && ph > 6 && a == r.X {
				pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
				pdf.SetTextColor(0, 0, 0)
				label := t.Label
				if label == "" {
					label = t.ID
				}
				if lw := pdf.GetStringWidth(label); lw < pw-2 {
					pdf.SetXY(px+(pw-lw)/2, py+ph/2-2)
					pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
				}
			}
		}
	}

	drawBandAnnotations(pdf, x0, x1, marginLeft, top+bandH, bandW)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark a
// clearance margin.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetFillColor(255, 225, 225)
	pdf.Rect(x, y, w, h, "F")
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawBandAnnotations labels the first and last column of a band below it.
func drawBandAnnotations(pdf *fpdf.Fpdf, x0, x1 int, left, bottom, bandW float64) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)

	start := fmt.Sprintf("x=%d", x0)
	pdf.SetXY(left, bottom+0.5)
	pdf.CellFormat(pdf.GetStringWidth(start), 3.5, start, "", 0, "L", false, 0, "")

	end := fmt.Sprintf("x=%d", x1)
	endW := pdf.GetStringWidth(end)
	pdf.SetXY(left+bandW-endW, bottom+0.5)
	pdf.CellFormat(endW, 3.5, end, "", 0, "R", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders the colour key for the tile kinds at startY.
func drawLegend(pdf *fpdf.Fpdf, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(18, 4, "Legend:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 20
	for _, k := range kindOrder {
		col := kindColors[k]
		label := fmt.Sprintf("%s %s", k.class, k.region)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		w := pdf.GetStringWidth(label) + 2
		pdf.CellFormat(w, 4, label, "", 0, "L", false, 0, "")
		xPos += w + 8
	}

	drawHatchPattern(pdf, xPos, startY+0.5, 3, 3)
	pdf.SetXY(xPos+4, startY)
	pdf.CellFormat(20, 4, "Clearance", "", 0, "L", false, 0, "")
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) error {
	summary := result.Summary()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	if err := registerQR(pdf, "qr_summary", summary); err != nil {
		return err
	}
	qrX := pageWidth - marginRight - qrSummarySize
	pdf.ImageOptions("qr_summary", qrX, marginTop+16, qrSummarySize, qrSummarySize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Bounding Box", fmt.Sprintf("%d x %d", summary.BoundingWidth, summary.BoundingHeight)},
		{"Tiles Placed", fmt.Sprintf("%d (%d preplaced, %d inter)", summary.Placed, summary.Preplaced, summary.Inter)},
		{"Parts Placed", fmt.Sprintf("%d", countParts(result))},
		{"Unplaced Tiles", fmt.Sprintf("%d", summary.Unplaced)},
		{"Used Cells", fmt.Sprintf("%d", summary.UsedCells)},
		{"Efficiency", fmt.Sprintf("%.1f%%", summary.Efficiency)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tile Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 30, 50, 30, 35, 25, 30}
	headers := []string{"#", "Tile", "Kind", "Anchor", "Size", "Parts", "Clearance"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, t := range result.Placed {
		if i == maxTableRows {
			pdf.SetXY(marginLeft, y)
			more := fmt.Sprintf("... and %d more", len(result.Placed)-maxTableRows)
			pdf.CellFormat(100, 6, more, "", 0, "L", false, 0, "")
			y += 6
			break
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			t.ID,
			fmt.Sprintf("%s %s", t.Class, t.Region),
			fmt.Sprintf("%d", t.Anchor),
			fmt.Sprintf("%d x %d", t.TotalWidth(), t.TotalHeight()),
			fmt.Sprintf("%d", len(t.Parts)),
			fmt.Sprintf("%d", engine.Clearance(result.Settings, t)),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Unplaced) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Tiles", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, t := range result.Unplaced {
			if y > pageHeight-marginBottom-30 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "- "+t.String(), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Settings block to the right of the statistics, below the QR code
	sy := marginTop + 18 + qrSummarySize + 4
	sx := pageWidth - marginRight - 80
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(sx, sy)
	pdf.CellFormat(80, 7, "Packing Settings", "", 0, "L", false, 0, "")
	sy += 9

	s := result.Settings
	settingsItems := []struct {
		label string
		value string
	}{
		{"Strip Bounds", fmt.Sprintf("%d x %d", s.MaxWidth, s.MaxHeight)},
		{"Separation", fmt.Sprintf("%d", s.Separation)},
		{"Clearance Policy", string(s.Policy)},
		{"Rounding", string(s.Rounding)},
		{"Push Policy", string(s.Push)},
		{"Tile Order", string(s.Order)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(sx, sy)
		pdf.CellFormat(35, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 5, item.value, "", 0, "L", false, 0, "")
		sy += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by stripack", "", 0, "C", false, 0, "")
	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countParts returns the total number of placed parts across all tiles.
func countParts(result model.PackResult) int {
	total := 0
	for _, t := range result.Placed {
		total += len(t.Parts)
	}
	return total
}
