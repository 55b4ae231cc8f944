package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/TianXue2002/H-chain/internal/engine"
	"github.com/TianXue2002/H-chain/internal/model"
)

// Sheet names written by ExportExcel.
const (
	SheetTiles   = "Tiles"
	SheetSummary = "Summary"
	SheetGaps    = "Gaps"
)

// tileHeaders match the importer's header aliases, so an exported
// workbook can be imported again.
var tileHeaders = []interface{}{"Tile", "Label", "Class", "Region", "Anchor", "Width", "Height", "Offset_X", "Offset_Y", "Margin"}

// ExportExcel writes a workbook with one row per placed part on the
// Tiles sheet, the result summary on the Summary sheet and the free runs
// inside the bounding box on the Gaps sheet.
func ExportExcel(path string, result model.PackResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTiles); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeTilesSheet(f, result, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result, bold); err != nil {
		return err
	}
	if err := writeGapsSheet(f, result, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeTilesSheet(f *excelize.File, result model.PackResult, headerStyle int) error {
	if err := f.SetSheetRow(SheetTiles, "A1", &tileHeaders); err != nil {
		return fmt.Errorf("write tile headers: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(tileHeaders), 1)
	if err := f.SetCellStyle(SheetTiles, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style tile headers: %w", err)
	}

	row := 2
	for _, t := range result.Placed {
		c := engine.Clearance(result.Settings, t)
		for _, p := range t.Parts {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []interface{}{
				t.ID, t.Label, t.Class.String(), t.Region.String(), t.Anchor,
				p.Width, p.Height, p.OffsetX, p.OffsetY, c,
			}
			if err := f.SetSheetRow(SheetTiles, cell, &values); err != nil {
				return fmt.Errorf("write tile %s: %w", t.ID, err)
			}
			row++
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackResult, headerStyle int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	s := result.Summary()
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Bounding Width", s.BoundingWidth},
		{"Bounding Height", s.BoundingHeight},
		{"Placed Tiles", s.Placed},
		{"Preplaced Tiles", s.Preplaced},
		{"Inter Tiles", s.Inter},
		{"Unplaced Tiles", s.Unplaced},
		{"Used Cells", s.UsedCells},
		{"Efficiency %", s.Efficiency},
		{"Separation", s.Separation},
		{"Clearance Policy", s.Policy},
		{"Rounding", string(result.Settings.Rounding)},
		{"Push Policy", string(result.Settings.Push)},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle)
}

func writeGapsSheet(f *excelize.File, result model.PackResult, headerStyle int) error {
	if _, err := f.NewSheet(SheetGaps); err != nil {
		return fmt.Errorf("create gaps sheet: %w", err)
	}
	header := []interface{}{"Row", "X", "Width"}
	if err := f.SetSheetRow(SheetGaps, "A1", &header); err != nil {
		return fmt.Errorf("write gap headers: %w", err)
	}
	for i, g := range model.DetectGaps(result, 1) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{g.Row, g.X, g.Width}
		if err := f.SetSheetRow(SheetGaps, cell, &values); err != nil {
			return fmt.Errorf("write gap: %w", err)
		}
	}
	return f.SetCellStyle(SheetGaps, "A1", "C1", headerStyle)
}
