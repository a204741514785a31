package deck

import (
	"errors"
	"math"
	"strings"

	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/region"
)

// Cell is a pin cell: concentric regions inside a rectangular pitch.
// Materials and Colors run from the innermost region outward and carry one
// entry more than Radii, the last one filling the space outside the pin.
type Cell struct {
	Name      string       `json:"name" yaml:"name"`
	Radii     region.Radii `json:"radii" yaml:"radii"`
	PitchX    float64      `json:"pitch_x" yaml:"pitch_x"`
	PitchY    float64      `json:"pitch_y" yaml:"pitch_y"`
	Height    float64      `json:"height" yaml:"height"`
	Materials []string     `json:"materials" yaml:"materials"`
	Colors    []string     `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Normalize sorts the radii ascending.
func (c *Cell) Normalize() {
	c.Radii = c.Radii.Sorted()
}

// Validate checks the cell on its own; material references are checked by
// the document.
func (c Cell) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, invalidf("must enter a cell name"))
	}
	if err := c.Radii.Validate(); err != nil {
		errs = append(errs, invalidf("cell %q: %v", c.Name, err))
	}
	if c.PitchX <= 0 || c.PitchY <= 0 {
		errs = append(errs, invalidf("cell %q: must enter a positive cell pitch", c.Name))
	}
	if c.Height <= 0 {
		errs = append(errs, invalidf("cell %q: height must be positive", c.Name))
	}
	switch {
	case len(c.Materials) == 0:
		errs = append(errs, invalidf("cell %q: must have at least one material", c.Name))
	case len(c.Materials) != len(c.Radii)+1:
		errs = append(errs, invalidf("cell %q: material/radius mismatch: %d materials for %d radii, want %d",
			c.Name, len(c.Materials), len(c.Radii), len(c.Radii)+1))
	}
	if len(c.Colors) > 0 {
		if len(c.Colors) != len(c.Radii)+1 {
			errs = append(errs, invalidf("cell %q: %d colours for %d regions", c.Name, len(c.Colors), len(c.Radii)+1))
		}
		if _, err := palette.ParseAll(c.Colors); err != nil {
			errs = append(errs, invalidf("cell %q: %v", c.Name, err))
		}
	}
	if len(c.Radii) > 0 && c.PitchX > 0 && c.PitchY > 0 {
		if half := math.Min(c.PitchX, c.PitchY) / 2; c.Radii.Max() > half {
			errs = append(errs, invalidf("cell %q: outer radius %g exceeds half pitch %g", c.Name, c.Radii.Max(), half))
		}
	}
	return errors.Join(errs...)
}

// Raster classifies the cell's preview grid.
func (c Cell) Raster(opts region.Options) (*region.Raster, error) {
	return region.Rasterize(c.Radii, c.Materials, c.Colors, opts)
}

// OuterColor is the colour of the region outside the pin, or "" if the cell
// has no colours.
func (c Cell) OuterColor() string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[len(c.Colors)-1]
}

func (c Cell) clone() Cell {
	c.Radii = append(region.Radii(nil), c.Radii...)
	c.Materials = append([]string(nil), c.Materials...)
	c.Colors = append([]string(nil), c.Colors...)
	return c
}
