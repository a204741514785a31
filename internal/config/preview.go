package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/reactordeck/internal/region"
)

// PreviewConfig holds the settings shared by deckd and cellrender. Every
// field is optional; the Get* methods supply the default for anything the
// file leaves out, so a partial file is safe.
type PreviewConfig struct {
	// Rasteriser
	Resolution    *int     `json:"resolution,omitempty"`
	Margin        *float64 `json:"margin,omitempty"`
	VisibleMargin *float64 `json:"visible_margin,omitempty"`

	// Rendering
	PlotSizeInches    *float64 `json:"plot_size_inches,omitempty"`
	RenderWorkers     *int     `json:"render_workers,omitempty"`
	EChartsAssetsHost *string  `json:"echarts_assets_host,omitempty"` // empty uses the go-echarts CDN

	// Server
	Listen *string `json:"listen,omitempty"`
	DBPath *string `json:"db_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyPreviewConfig returns a PreviewConfig with every field unset.
func EmptyPreviewConfig() *PreviewConfig {
	return &PreviewConfig{}
}

// DefaultPreviewConfig returns a PreviewConfig with every field set to its
// default.
func DefaultPreviewConfig() *PreviewConfig {
	e := EmptyPreviewConfig()
	return &PreviewConfig{
		Resolution:        ptrInt(e.GetResolution()),
		Margin:            ptrFloat64(e.GetMargin()),
		VisibleMargin:     ptrFloat64(e.GetVisibleMargin()),
		PlotSizeInches:    ptrFloat64(e.GetPlotSizeInches()),
		RenderWorkers:     ptrInt(e.GetRenderWorkers()),
		EChartsAssetsHost: ptrString(e.GetEChartsAssetsHost()),
		Listen:            ptrString(e.GetListen()),
		DBPath:            ptrString(e.GetDBPath()),
	}
}

// LoadPreviewConfig loads a PreviewConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadPreviewConfig(path string) (*PreviewConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPreviewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PreviewConfig) Validate() error {
	if c.Resolution != nil && (*c.Resolution < 2 || *c.Resolution > region.MaxResolution) {
		return fmt.Errorf("resolution must be between 2 and %d, got %d", region.MaxResolution, *c.Resolution)
	}
	if c.Margin != nil && *c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %f", *c.Margin)
	}
	if c.VisibleMargin != nil && *c.VisibleMargin < 0 {
		return fmt.Errorf("visible_margin must be non-negative, got %f", *c.VisibleMargin)
	}
	if c.PlotSizeInches != nil && *c.PlotSizeInches <= 0 {
		return fmt.Errorf("plot_size_inches must be positive, got %f", *c.PlotSizeInches)
	}
	if c.RenderWorkers != nil && *c.RenderWorkers < 1 {
		return fmt.Errorf("render_workers must be at least 1, got %d", *c.RenderWorkers)
	}
	if c.DBPath != nil && *c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// GetResolution returns the resolution value or the default.
func (c *PreviewConfig) GetResolution() int {
	if c.Resolution == nil {
		return region.DefaultResolution
	}
	return *c.Resolution
}

// GetMargin returns the margin value or the default.
func (c *PreviewConfig) GetMargin() float64 {
	if c.Margin == nil {
		return region.DefaultMargin
	}
	return *c.Margin
}

// GetVisibleMargin returns the visible_margin value or the default.
func (c *PreviewConfig) GetVisibleMargin() float64 {
	if c.VisibleMargin == nil {
		return region.DefaultVisibleMargin
	}
	return *c.VisibleMargin
}

// GetPlotSizeInches returns the plot_size_inches value or the default.
func (c *PreviewConfig) GetPlotSizeInches() float64 {
	if c.PlotSizeInches == nil {
		return 5
	}
	return *c.PlotSizeInches
}

// GetRenderWorkers returns the render_workers value or the default.
func (c *PreviewConfig) GetRenderWorkers() int {
	if c.RenderWorkers == nil {
		return 4
	}
	return *c.RenderWorkers
}

// GetEChartsAssetsHost returns the echarts_assets_host value or the default.
func (c *PreviewConfig) GetEChartsAssetsHost() string {
	if c.EChartsAssetsHost == nil {
		return ""
	}
	return *c.EChartsAssetsHost
}

// GetListen returns the listen value or the default.
func (c *PreviewConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetDBPath returns the db_path value or the default.
func (c *PreviewConfig) GetDBPath() string {
	if c.DBPath == nil {
		return "reactordeck.db"
	}
	return *c.DBPath
}

// RegionOptions returns the rasteriser options this config selects.
func (c *PreviewConfig) RegionOptions() region.Options {
	return region.Options{
		Resolution:    c.GetResolution(),
		Margin:        c.GetMargin(),
		VisibleMargin: c.GetVisibleMargin(),
	}
}
