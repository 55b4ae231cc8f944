// Package importer loads tile descriptions from text, CSV, Excel and DXF
// files. CSV import supports automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/TianXue2002/H-chain/internal/model"
)

// ImportResult holds the results of an import operation. The bounding
// fields are only set when reading a results file.
type ImportResult struct {
	Tiles          []model.Tile
	BoundingWidth  int
	BoundingHeight int
	Errors         []string
	Warnings       []string
}

// AsResult turns imported anchored tiles into a pack result.
func (r ImportResult) AsResult(settings model.Settings) model.PackResult {
	return model.PackResult{
		Settings:       settings,
		BoundingWidth:  r.BoundingWidth,
		BoundingHeight: r.BoundingHeight,
		Placed:         r.Tiles,
	}
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Tile    int
	Class   int
	Region  int
	Anchor  int
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"tile":     {"tile", "id", "tile id", "name", "label", "group"},
	"class":    {"class", "kind", "type"},
	"region":   {"region", "clearance", "tag"},
	"anchor":   {"anchor", "x", "position", "position_x", "pos"},
	"width":    {"width", "w"},
	"height":   {"height", "h"},
	"offset_x": {"offset_x", "offsetx", "dx", "offset x"},
	"offset_y": {"offset_y", "offsety", "dy", "offset y", "row"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (tile, class, region, anchor, width, height, dx, dy) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"tile":     &mapping.Tile,
		"class":    &mapping.Class,
		"region":   &mapping.Region,
		"anchor":   &mapping.Anchor,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"offset_x": &mapping.OffsetX,
		"offset_y": &mapping.OffsetY,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// partRow is one parsed data row before grouping into tiles.
type partRow struct {
	key       string
	class     model.Class
	region    model.Region
	hasRegion bool
	anchor    int
	part      model.Part
}

// parseRow extracts a part row using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (partRow, string, string) {
	pr := partRow{key: getCell(row, mapping.Tile)}
	var warning string

	intCell := func(idx int, name string, required bool) (int, string) {
		s := getCell(row, idx)
		if s == "" {
			if required {
				return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
			}
			return 0, ""
		}
		v, err := parseInt(s)
		if err != nil {
			return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
		}
		return v, ""
	}

	var msg string
	if pr.part.Width, msg = intCell(mapping.Width, "width", true); msg != "" {
		return pr, msg, ""
	}
	if pr.part.Height, msg = intCell(mapping.Height, "height", true); msg != "" {
		return pr, msg, ""
	}
	if pr.part.OffsetX, msg = intCell(mapping.OffsetX, "offset_x", false); msg != "" {
		return pr, msg, ""
	}
	if pr.part.OffsetY, msg = intCell(mapping.OffsetY, "offset_y", false); msg != "" {
		return pr, msg, ""
	}
	if pr.anchor, msg = intCell(mapping.Anchor, "anchor", false); msg != "" {
		return pr, msg, ""
	}
	if err := pr.part.Validate(); err != nil {
		return pr, fmt.Sprintf("%s: %v", rowLabel, err), ""
	}

	if s := getCell(row, mapping.Class); s != "" {
		c, ok := model.ParseClass(s)
		if !ok {
			warning = fmt.Sprintf("%s: Unknown class '%s', defaulting to Free", rowLabel, s)
		}
		pr.class = c
	}
	if s := getCell(row, mapping.Region); s != "" {
		r, ok := model.ParseRegion(s)
		if ok {
			pr.region, pr.hasRegion = r, true
		} else {
			warning = fmt.Sprintf("%s: Unknown region '%s', defaulting to Intra", rowLabel, s)
		}
	}
	if pr.class == model.ClassPreplaced && pr.anchor < 0 {
		return pr, fmt.Sprintf("%s: Anchor %d must be non-negative", rowLabel, pr.anchor), ""
	}
	return pr, "", warning
}

// ImportCSV imports tiles from a CSV file, one row per part.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings, opts)
}

// ImportCSVFromReader imports tiles from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil, opts)
}

// ImportExcel imports tiles from the first sheet of an Excel workbook.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil, opts)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Rows with the same tile key form one tile, in first-seen order. Rows
// with an empty key are tiles of their own.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	type group struct {
		tile   model.Tile
		tagged bool
		line   string
	}
	var groups []*group
	byKey := map[string]*group{}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pr, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		g := byKey[pr.key]
		if pr.key == "" || g == nil {
			t := model.NewTile()
			t.Label = pr.key
			t.Class = pr.class
			t.Anchor = pr.anchor
			g = &group{tile: t, line: rowLabel}
			groups = append(groups, g)
			if pr.key != "" {
				byKey[pr.key] = g
			}
		} else if pr.class != g.tile.Class || pr.anchor != g.tile.Anchor {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Class or anchor differs from the first row of tile '%s', keeping the first", rowLabel, pr.key))
		}
		g.tile.Parts = append(g.tile.Parts, pr.part)
		if pr.hasRegion {
			g.tagged = true
			if pr.region == model.RegionInter {
				g.tile.Region = model.RegionInter
			}
		}
	}

	for _, g := range groups {
		classify(&g.tile, g.tagged, opts)
		result.Tiles = append(result.Tiles, g.tile)
	}
	return result
}

// Import loads tiles from path, choosing the reader by extension. Plain
// text files are read as results files when they start with a bounding
// header, and as tile descriptions otherwise.
func Import(path string, opts Options) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ImportCSV(path, opts)
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, opts)
	case ".dxf":
		return ImportDXF(path, opts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("Bounding")) {
		return ReadResults(bytes.NewReader(data))
	}
	return ParseTiles(bytes.NewReader(data), opts)
}

// ImportPreplaced loads a preplaced-tile file from disk.
func ImportPreplaced(path string, opts Options) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ParsePreplaced(f, opts)
}
