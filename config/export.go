package config

import "fmt"

// ExportConfig controls file exports of board assignments and sampled
// series. When Dir is empty no files are written.
type ExportConfig struct {
	Dir    string `json:"dir"`
	Format string `json:"format"` // "csv" or "json"
}

// SetDefaults applies the default export format.
func (c *ExportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks the export format.
func (c ExportConfig) Validate() error {
	switch c.Format {
	case "csv", "json":
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", c.Format)
	}
}

// Enabled reports whether exports are requested.
func (c ExportConfig) Enabled() bool {
	return c.Dir != ""
}
