package model

// RenderConfig bounds the ASCII visualization window.
type RenderConfig struct {
	Rows int `json:"rows" toml:"rows" yaml:"rows"`
	Cols int `json:"cols" toml:"cols" yaml:"cols"`
}

// AppConfig holds the packing settings plus command-line preferences.
type AppConfig struct {
	Packing  Settings     `json:"packing" toml:"packing" yaml:"packing"`
	LogLevel string       `json:"log_level" toml:"log_level" yaml:"log_level"` // logrus level name
	Render   RenderConfig `json:"render" toml:"render" yaml:"render"`
}

// DefaultAppConfig returns an AppConfig populated with DefaultSettings()
// and a 20x80 render window.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Packing:  DefaultSettings(),
		LogLevel: "info",
		Render:   RenderConfig{Rows: 20, Cols: 80},
	}
}

// ApplyDefaults fills zero-valued fields left out of a partial config
// file with their defaults.
func (c *AppConfig) ApplyDefaults() {
	d := DefaultAppConfig()
	if c.Packing.MaxWidth == 0 {
		c.Packing.MaxWidth = d.Packing.MaxWidth
	}
	if c.Packing.MaxHeight == 0 {
		c.Packing.MaxHeight = d.Packing.MaxHeight
	}
	if c.Packing.Policy == "" {
		c.Packing.Policy = d.Packing.Policy
	}
	if c.Packing.Rounding == "" {
		c.Packing.Rounding = d.Packing.Rounding
	}
	if c.Packing.Push == "" {
		c.Packing.Push = d.Packing.Push
	}
	if c.Packing.Order == "" {
		c.Packing.Order = d.Packing.Order
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Render.Rows <= 0 {
		c.Render.Rows = d.Render.Rows
	}
	if c.Render.Cols <= 0 {
		c.Render.Cols = d.Render.Cols
	}
}
