package deck

import (
	"errors"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// MeshKind distinguishes spatial meshes from energy filters.
type MeshKind string

const (
	SpatialMesh  MeshKind = "spatial"
	EnergyFilter MeshKind = "energy"
)

// Spacing selects how energy group edges are distributed.
type Spacing string

const (
	LinearSpacing Spacing = "linear"
	LogSpacing    Spacing = "log"
)

// Mesh is a named tally filter, either a regular spatial mesh over the root
// geometry or a set of energy groups.
type Mesh struct {
	Name string   `json:"name" yaml:"name"`
	Kind MeshKind `json:"kind" yaml:"kind"`

	XRes   int     `json:"x_res,omitempty" yaml:"x_res,omitempty"`
	YRes   int     `json:"y_res,omitempty" yaml:"y_res,omitempty"`
	ZRes   int     `json:"z_res,omitempty" yaml:"z_res,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Depth  float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	EnergyGroups  int     `json:"energy_groups,omitempty" yaml:"energy_groups,omitempty"`
	EnergyStart   float64 `json:"energy_start,omitempty" yaml:"energy_start,omitempty"`
	EnergyEnd     float64 `json:"energy_end,omitempty" yaml:"energy_end,omitempty"`
	EnergySpacing Spacing `json:"energy_spacing,omitempty" yaml:"energy_spacing,omitempty"`
}

// NewSpatialMesh covers the root geometry with an xr by yr by zr mesh.
func NewSpatialMesh(name string, g Geometry, xr, yr, zr int) Mesh {
	return Mesh{
		Name:   name,
		Kind:   SpatialMesh,
		XRes:   xr,
		YRes:   yr,
		ZRes:   zr,
		Width:  g.X.Width(),
		Depth:  g.Y.Width(),
		Height: g.Z.Width(),
	}
}

// NewEnergyFilter splits [start, end] eV into groups.
func NewEnergyFilter(name string, groups int, start, end float64, spacing Spacing) Mesh {
	return Mesh{
		Name:          name,
		Kind:          EnergyFilter,
		EnergyGroups:  groups,
		EnergyStart:   start,
		EnergyEnd:     end,
		EnergySpacing: spacing,
	}
}

// Validate checks the fields relevant to the mesh kind.
func (m Mesh) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, invalidf("mesh name is required"))
	}
	switch m.Kind {
	case SpatialMesh:
		if m.XRes < 1 || m.YRes < 1 || m.ZRes < 1 {
			errs = append(errs, invalidf("mesh %q: resolution must be at least 1 on every axis", m.Name))
		}
		if m.Width <= 0 || m.Depth <= 0 || m.Height <= 0 {
			errs = append(errs, invalidf("mesh %q: extent must be positive", m.Name))
		}
	case EnergyFilter:
		if m.EnergyGroups < 1 {
			errs = append(errs, invalidf("energy filter %q: need at least one group", m.Name))
		}
		if m.EnergyStart >= m.EnergyEnd {
			errs = append(errs, invalidf("energy filter %q: start %g must be below end %g", m.Name, m.EnergyStart, m.EnergyEnd))
		}
		switch m.EnergySpacing {
		case LinearSpacing:
			if m.EnergyStart < 0 {
				errs = append(errs, invalidf("energy filter %q: start must be non-negative", m.Name))
			}
		case LogSpacing:
			if m.EnergyStart <= 0 {
				errs = append(errs, invalidf("energy filter %q: log spacing needs a positive start", m.Name))
			}
		default:
			errs = append(errs, invalidf("energy filter %q: unknown spacing %q", m.Name, m.EnergySpacing))
		}
	default:
		errs = append(errs, invalidf("mesh %q: unknown kind %q", m.Name, m.Kind))
	}
	return errors.Join(errs...)
}

// EnergyEdges returns the EnergyGroups+1 group boundaries of an energy
// filter, or nil for a spatial mesh.
func (m Mesh) EnergyEdges() []float64 {
	if m.Kind != EnergyFilter || m.EnergyGroups < 1 {
		return nil
	}
	dst := make([]float64, m.EnergyGroups+1)
	if m.EnergySpacing == LogSpacing {
		return floats.LogSpan(dst, m.EnergyStart, m.EnergyEnd)
	}
	return floats.Span(dst, m.EnergyStart, m.EnergyEnd)
}

// Bins returns the number of tally bins the filter contributes.
func (m Mesh) Bins() int {
	if m.Kind == EnergyFilter {
		return m.EnergyGroups
	}
	return m.XRes * m.YRes * m.ZRes
}
