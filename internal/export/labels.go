package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/TianXue2002/H-chain/internal/model"
)

// TileLabel holds the data encoded into each tile label's QR code.
type TileLabel struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Class  string `json:"class"`
	Region string `json:"region"`
	Anchor int    `json:"anchor"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Parts  int    `json:"parts"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectTileLabels extracts label information for every placed tile, in
// placement order.
func CollectTileLabels(result model.PackResult) []TileLabel {
	labels := make([]TileLabel, 0, len(result.Placed))
	for _, t := range result.Placed {
		labels = append(labels, TileLabel{
			ID:     t.ID,
			Label:  t.Label,
			Class:  t.Class.String(),
			Region: t.Region.String(),
			Anchor: t.Anchor,
			Width:  t.TotalWidth(),
			Height: t.TotalHeight(),
			Parts:  len(t.Parts),
		})
	}
	return labels
}

// ExportLabels generates a PDF label sheet with one QR-coded label per
// placed tile, laid out 3 x 10 on US Letter.
func ExportLabels(path string, result model.PackResult) error {
	labels := CollectTileLabels(result)
	if len(labels) == 0 {
		return fmt.Errorf("no placed tiles to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for tile %s: %w", label.ID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// registerQR encodes payload as JSON into a QR code PNG and registers it
// with the document under name.
func registerQR(pdf *fpdf.Fpdf, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	return pdf.Error()
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info TileLabel) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	imgName := "qr_" + info.ID
	if err := registerQR(pdf, imgName, info); err != nil {
		return err
	}
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	title := info.Label
	if title == "" {
		title = "Tile " + info.ID
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d cells, %d part(s)", info.Width, info.Height, info.Parts)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%s %s @ x=%d", info.Class, info.Region, info.Anchor), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
