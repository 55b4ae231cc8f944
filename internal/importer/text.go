package importer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TianXue2002/H-chain/internal/model"
)

// Options controls how untagged tiles are classified.
type Options struct {
	// Seams are strip rows; tiles without an explicit region become
	// Inter when a part crosses one of them.
	Seams []int
}

type textLine struct {
	num    int
	fields []string
}

// readLines returns the non-blank lines of r split into fields. Lines
// starting with '#' are comments.
func readLines(r io.Reader) ([]textLine, error) {
	var lines []textLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, textLine{num: n, fields: strings.Fields(text)})
	}
	return lines, sc.Err()
}

// parseInt accepts integers and integral decimals such as "3.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// parseParts reads groups of four integers w h dx dy.
func parseParts(fields []string) ([]model.Part, error) {
	if len(fields) == 0 || len(fields)%4 != 0 {
		return nil, fmt.Errorf("expected groups of 'w h dx dy', got %d values", len(fields))
	}
	parts := make([]model.Part, 0, len(fields)/4)
	for i := 0; i < len(fields); i += 4 {
		var v [4]int
		for j := range v {
			n, err := parseInt(fields[i+j])
			if err != nil {
				return nil, err
			}
			v[j] = n
		}
		p := model.Part{Width: v[0], Height: v[1], OffsetX: v[2], OffsetY: v[3]}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// splitRegionTag strips a leading interTile/intraTile tag from fields.
func splitRegionTag(fields []string) ([]string, model.Region, bool) {
	if len(fields) == 0 {
		return fields, model.RegionIntra, false
	}
	if _, err := parseInt(fields[0]); err == nil {
		return fields, model.RegionIntra, false
	}
	r, ok := model.ParseRegion(fields[0])
	if !ok {
		return fields, model.RegionIntra, false
	}
	return fields[1:], r, true
}

func classify(t *model.Tile, tagged bool, opts Options) {
	if !tagged && len(opts.Seams) > 0 {
		t.Region = model.RegionForSeams(*t, opts.Seams)
	}
}

// ParseTiles reads a tile description file. Each record is a part-count
// line followed by that many part lines "[interTile|intraTile] w h dx dy".
// A line "preplaced x w h dx dy ..." declares a preplaced tile inline.
// Malformed records are skipped with a diagnostic.
func ParseTiles(r io.Reader, opts Options) ImportResult {
	result := ImportResult{}

	lines, err := readLines(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read tiles: %v", err))
		return result
	}

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		label := fmt.Sprintf("Line %d", ln.num)

		if strings.EqualFold(ln.fields[0], "preplaced") {
			tile, err := parsePreplacedFields(ln.fields[1:], opts)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label, err))
				continue
			}
			result.Tiles = append(result.Tiles, tile)
			continue
		}

		if len(ln.fields) != 1 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Expected a part count, got %q", label, strings.Join(ln.fields, " ")))
			continue
		}
		count, err := parseInt(ln.fields[0])
		if err != nil || count <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid part count %q", label, ln.fields[0]))
			continue
		}
		if count > len(lines)-1-i {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Unexpected end of file after part count", label))
			break
		}

		var parts []model.Part
		region, tagged := model.RegionIntra, false
		var recordErr string
		for k := 1; k <= count; k++ {
			pl := lines[i+k]
			fields, reg, ok := splitRegionTag(pl.fields)
			if ok {
				tagged = true
				if reg == model.RegionInter {
					region = model.RegionInter
				}
			}
			ps, err := parseParts(fields)
			if err != nil || len(ps) != 1 {
				if err == nil {
					err = fmt.Errorf("expected one part per line")
				}
				recordErr = fmt.Sprintf("Line %d: Invalid tile part: %v", pl.num, err)
				break
			}
			parts = append(parts, ps[0])
		}
		i += count
		if recordErr != "" {
			result.Errors = append(result.Errors, recordErr)
			continue
		}

		tile := model.NewTile(parts...)
		tile.Region = region
		classify(&tile, tagged, opts)
		result.Tiles = append(result.Tiles, tile)
	}

	if len(result.Tiles) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No tiles found")
	}
	return result
}

// parsePreplacedFields reads "[tag] x w h dx dy [w h dx dy ...]".
func parsePreplacedFields(fields []string, opts Options) (model.Tile, error) {
	fields, region, tagged := splitRegionTag(fields)
	if len(fields) < 5 {
		return model.Tile{}, fmt.Errorf("expected 'x w h dx dy', got %d values", len(fields))
	}
	x, err := parseInt(fields[0])
	if err != nil {
		return model.Tile{}, fmt.Errorf("invalid anchor: %w", err)
	}
	if x < 0 {
		return model.Tile{}, fmt.Errorf("anchor %d must be non-negative", x)
	}
	parts, err := parseParts(fields[1:])
	if err != nil {
		return model.Tile{}, err
	}
	tile := model.NewPreplacedTile(x, parts...)
	tile.Region = region
	classify(&tile, tagged, opts)
	return tile, nil
}

// ParsePreplaced reads one preplaced tile per line: "x w h dx dy" with
// further "w h dx dy" groups for multi-part tiles.
func ParsePreplaced(r io.Reader, opts Options) ImportResult {
	result := ImportResult{}

	lines, err := readLines(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read preplaced tiles: %v", err))
		return result
	}
	for _, ln := range lines {
		tile, err := parsePreplacedFields(ln.fields, opts)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", ln.num, err))
			continue
		}
		result.Tiles = append(result.Tiles, tile)
	}
	return result
}

// ReadResults reads a file written by the result exporter back into
// anchored tiles, in placement order.
func ReadResults(r io.Reader) ImportResult {
	result := ImportResult{}

	lines, err := readLines(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read results: %v", err))
		return result
	}

	for _, ln := range lines {
		label := fmt.Sprintf("Line %d", ln.num)
		head := ln.fields[0]

		if head == "Bounding" && len(ln.fields) == 3 {
			v, err := parseInt(ln.fields[2])
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label, err))
				continue
			}
			switch ln.fields[1] {
			case "Width:":
				result.BoundingWidth = v
			case "Height:":
				result.BoundingHeight = v
			default:
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unknown header %q", label, ln.fields[1]))
			}
			continue
		}

		tag, suffix, _ := strings.Cut(head, "/")
		class, ok := model.ParseClass(tag)
		if !ok || tag == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Skipped unknown record %q", label, head))
			continue
		}
		region := model.RegionIntra
		if suffix != "" {
			if region, ok = model.ParseRegion(suffix); !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: Unknown region %q", label, suffix))
				continue
			}
		}
		if len(ln.fields) < 6 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Expected anchor and parts", label))
			continue
		}
		x, err := parseInt(ln.fields[1])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid anchor: %v", label, err))
			continue
		}
		parts, err := parseParts(ln.fields[2:])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		tile := model.NewTile(parts...)
		tile.Class = class
		tile.Region = region
		tile.Anchor = x
		tile.Placed = true
		result.Tiles = append(result.Tiles, tile)
	}
	return result
}
