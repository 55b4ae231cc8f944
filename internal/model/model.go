package model

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid packing settings")

// Hard limits on the occupancy grid. Settings above these are refused
// rather than clamped.
const (
	HardMaxWidth  = 1 << 26
	HardMaxHeight = 4096
)

// Defaults matching the dimensions of the reference packer.
const (
	DefaultMaxWidth  = 1000000
	DefaultMaxHeight = 100
)

// ClearancePolicy selects how the clearance of an Inter tile is derived.
type ClearancePolicy string

const (
	PolicyFixed    ClearancePolicy = "fixed"    // Separation applied as-is
	PolicyPeriodic ClearancePolicy = "periodic" // Separation rounded to a multiple of the tile width
)

// Rounding selects the periodic clearance formula.
type Rounding string

const (
	RoundingLiteral Rounding = "literal" // (S/W + 1) * W
	RoundingCeil    Rounding = "ceil"    // ceil(S/W) * W
)

// PushPolicy selects how preplaced tiles are pushed ahead of an incoming
// free tile.
type PushPolicy string

const (
	PushLiteral PushPolicy = "literal" // incomingX - extent; never positive, so nothing moves
	PushClear   PushPolicy = "clear"   // shift just past the incoming tile's span
)

// TileOrder selects the order in which free tiles are placed.
type TileOrder string

const (
	OrderInput  TileOrder = "input"
	OrderArea   TileOrder = "area"
	OrderHeight TileOrder = "height"
)

// Settings holds the strip bounds and the placement policies.
type Settings struct {
	MaxWidth         int             `json:"max_width" toml:"max_width" yaml:"max_width"`
	MaxHeight        int             `json:"max_height" toml:"max_height" yaml:"max_height"`
	Separation       int             `json:"separation" toml:"separation" yaml:"separation"`
	Policy           ClearancePolicy `json:"policy" toml:"policy" yaml:"policy"`
	Rounding         Rounding        `json:"rounding" toml:"rounding" yaml:"rounding"`
	Push             PushPolicy      `json:"push" toml:"push" yaml:"push"`
	RebuildFreeTiles bool            `json:"rebuild_free_tiles" toml:"rebuild_free_tiles" yaml:"rebuild_free_tiles"`
	Order            TileOrder       `json:"order" toml:"order" yaml:"order"`
	InterFirst       bool            `json:"inter_first" toml:"inter_first" yaml:"inter_first"`
	Seams            []int           `json:"seams,omitempty" toml:"seams,omitempty" yaml:"seams,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxWidth:         DefaultMaxWidth,
		MaxHeight:        DefaultMaxHeight,
		Separation:       0,
		Policy:           PolicyFixed,
		Rounding:         RoundingLiteral,
		Push:             PushClear,
		RebuildFreeTiles: true,
		Order:            OrderInput,
		InterFirst:       true,
	}
}

// Validate checks the settings once at session setup. Negative
// separation is an error; nothing is clamped.
func (s Settings) Validate() error {
	if s.MaxWidth <= 0 || s.MaxWidth > HardMaxWidth {
		return fmt.Errorf("%w: max width %d outside (0, %d]", ErrInvalidSettings, s.MaxWidth, HardMaxWidth)
	}
	if s.MaxHeight <= 0 || s.MaxHeight > HardMaxHeight {
		return fmt.Errorf("%w: max height %d outside (0, %d]", ErrInvalidSettings, s.MaxHeight, HardMaxHeight)
	}
	if s.Separation < 0 {
		return fmt.Errorf("%w: separation %d must be non-negative", ErrInvalidSettings, s.Separation)
	}
	switch s.Policy {
	case PolicyFixed, PolicyPeriodic:
	default:
		return fmt.Errorf("%w: unknown clearance policy %q", ErrInvalidSettings, s.Policy)
	}
	switch s.Rounding {
	case RoundingLiteral, RoundingCeil:
	default:
		return fmt.Errorf("%w: unknown rounding %q", ErrInvalidSettings, s.Rounding)
	}
	switch s.Push {
	case PushLiteral, PushClear:
	default:
		return fmt.Errorf("%w: unknown push policy %q", ErrInvalidSettings, s.Push)
	}
	switch s.Order {
	case OrderInput, OrderArea, OrderHeight:
	default:
		return fmt.Errorf("%w: unknown tile order %q", ErrInvalidSettings, s.Order)
	}
	for _, seam := range s.Seams {
		if seam < 0 || seam > s.MaxHeight {
			return fmt.Errorf("%w: seam %d outside [0, %d]", ErrInvalidSettings, seam, s.MaxHeight)
		}
	}
	return nil
}
