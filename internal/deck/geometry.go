package deck

import (
	"errors"
	"fmt"
)

// BoundaryType is the particle boundary condition on a face of the root
// geometry.
type BoundaryType string

const (
	Vacuum       BoundaryType = "vacuum"
	Reflective   BoundaryType = "reflective"
	Transmission BoundaryType = "transmission"
)

func (b BoundaryType) valid() bool {
	switch b {
	case Vacuum, Reflective, Transmission:
		return true
	}
	return false
}

// Bound is the extent of the root geometry along one axis.
type Bound struct {
	Min  float64      `json:"min" yaml:"min"`
	Max  float64      `json:"max" yaml:"max"`
	Type BoundaryType `json:"type" yaml:"type"`
}

// Width is Max-Min.
func (b Bound) Width() float64 { return b.Max - b.Min }

// Geometry selects the root universe (a cell or an assembly) and its outer
// boundary.
type Geometry struct {
	Root string `json:"root" yaml:"root"`
	X    Bound  `json:"x" yaml:"x"`
	Y    Bound  `json:"y" yaml:"y"`
	Z    Bound  `json:"z" yaml:"z"`
}

// Validate checks the bounds are ordered and the boundary types known.
func (g Geometry) Validate() error {
	var errs []error
	if g.Root == "" {
		errs = append(errs, invalidf("root geometry is required"))
	}
	for _, ax := range []struct {
		name string
		b    Bound
	}{{"x", g.X}, {"y", g.Y}, {"z", g.Z}} {
		if ax.b.Min >= ax.b.Max {
			errs = append(errs, invalidf("%s bound: min %g must be below max %g", ax.name, ax.b.Min, ax.b.Max))
		}
		if !ax.b.Type.valid() {
			errs = append(errs, invalidf("%s bound: unknown boundary type %q", ax.name, ax.b.Type))
		}
	}
	return errors.Join(errs...)
}

// DeriveBounds proposes the bounds for root: a cell spans ±pitch/2 and
// ±height/2, an assembly spans its lattice and its main cell's height.
// Every face defaults to a vacuum boundary.
func DeriveBounds(root string, doc Document) (Geometry, error) {
	g := Geometry{Root: root}
	var hx, hy, hz float64
	if c, ok := doc.Cells[root]; ok {
		hx, hy, hz = c.PitchX/2, c.PitchY/2, c.Height/2
	} else if a, ok := doc.Assemblies[root]; ok {
		main, ok := doc.Cells[a.MainCell]
		if !ok {
			return Geometry{}, notFoundf("assembly %q main cell %q", root, a.MainCell)
		}
		x, y := a.Bounds()
		hx, hy, hz = x[1], y[1], main.Height/2
	} else {
		return Geometry{}, notFoundf("root geometry %q", root)
	}
	g.X = Bound{Min: -hx, Max: hx, Type: Vacuum}
	g.Y = Bound{Min: -hy, Max: hy, Type: Vacuum}
	g.Z = Bound{Min: -hz, Max: hz, Type: Vacuum}
	return g, nil
}

// WithTypes returns g with the boundary type of each axis replaced; empty
// values keep the current type.
func (g Geometry) WithTypes(x, y, z BoundaryType) Geometry {
	if x != "" {
		g.X.Type = x
	}
	if y != "" {
		g.Y.Type = y
	}
	if z != "" {
		g.Z.Type = z
	}
	return g
}

// Lower returns the (x, y, z) lower corner.
func (g Geometry) Lower() [3]float64 { return [3]float64{g.X.Min, g.Y.Min, g.Z.Min} }

// Upper returns the (x, y, z) upper corner.
func (g Geometry) Upper() [3]float64 { return [3]float64{g.X.Max, g.Y.Max, g.Z.Max} }

func (g Geometry) String() string {
	return fmt.Sprintf("%s x[%g,%g] y[%g,%g] z[%g,%g]", g.Root, g.X.Min, g.X.Max, g.Y.Min, g.Y.Max, g.Z.Min, g.Z.Max)
}
