// Package region classifies a 2-D sampling grid into the concentric regions
// of a pin cell and labels each point for the cell preview.
//
// Regions are numbered from the centre: region 0 is the disk inside the
// first radius, region i is the annulus [radii[i-1], radii[i]) and region
// len(radii) is everything outside the last radius. A point lying exactly on
// a radius belongs to the region outside it.
package region

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidOptions is returned for a resolution outside [2, MaxResolution]
// or a negative margin.
var ErrInvalidOptions = errors.New("invalid raster options")

// Options control the sampling grid. Only the extent depends on the radii;
// the sample count is fixed by Resolution.
type Options struct {
	Resolution    int     `json:"resolution"`
	Margin        float64 `json:"margin"`
	VisibleMargin float64 `json:"visible_margin"`
}

const (
	DefaultResolution    = 250
	DefaultMargin        = 0.25
	DefaultVisibleMargin = 0.10

	// MaxResolution bounds the samples per axis; cost grows with its square.
	MaxResolution = 1000
)

// DefaultOptions returns a 250x250 grid extending 25% past the outer radius,
// with the outer region coloured out to 10% past it.
func DefaultOptions() Options {
	return Options{Resolution: DefaultResolution, Margin: DefaultMargin, VisibleMargin: DefaultVisibleMargin}
}

// Validate reports whether the options can produce a grid.
func (o Options) Validate() error {
	if o.Resolution < 2 || o.Resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d, need 2 to %d", ErrInvalidOptions, o.Resolution, MaxResolution)
	}
	if o.Margin < 0 || o.VisibleMargin < 0 {
		return fmt.Errorf("%w: margins must be non-negative (margin=%g visible=%g)",
			ErrInvalidOptions, o.Margin, o.VisibleMargin)
	}
	return nil
}

// Raster is the classified grid. Regions, Values and Labels are indexed
// [row][col] with rows following Y and columns following X.
type Raster struct {
	X           []float64   `json:"x"`
	Y           []float64   `json:"y"`
	Edge        float64     `json:"edge"`
	VisibleEdge float64     `json:"visible_edge"`
	Radii       Radii       `json:"radii"`
	Regions     [][]int     `json:"regions"`
	Values      *mat.Dense  `json:"-"`
	Labels      [][]string  `json:"labels"`
	Scale       []ScaleStop `json:"colorscale"`
}

// Circle is a boundary overlay centred on the origin.
type Circle struct {
	Radius float64 `json:"radius"`
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
}

// Classify returns the region index of (x, y). radii must be sorted ascending
// and non-empty.
func Classify(radii Radii, x, y float64) int {
	d := math.Hypot(x, y)
	if d < radii[0] {
		return 0
	}
	last := len(radii) - 1
	if d >= radii[last] {
		return len(radii)
	}
	// First radius strictly greater than d; d >= radii[0] so k >= 1.
	return sort.Search(len(radii), func(i int) bool { return radii[i] > d })
}

// Rasterize samples a square grid around the origin and assigns every point a
// region, a colour value and a label. The radii are sorted before use and the
// caller's slices are never modified.
func Rasterize(radii Radii, materials, colors []string, opts Options) (*Raster, error) {
	if err := radii.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sorted := radii.Sorted()
	outerR := sorted[len(sorted)-1]

	edge := outerR * (1 + opts.Margin)
	visible := outerR * (1 + opts.VisibleMargin)

	xs := floats.Span(make([]float64, opts.Resolution), -edge, edge)
	ys := floats.Span(make([]float64, opts.Resolution), -edge, edge)

	scale := ScaleValues(len(colors))
	outer := len(sorted)

	rows, cols := len(ys), len(xs)
	regions := make([][]int, rows)
	labels := make([][]string, rows)
	values := mat.NewDense(rows, cols, nil)

	for j, y := range ys {
		regionRow := make([]int, cols)
		labelRow := make([]string, cols)
		for i, x := range xs {
			k := Classify(sorted, x, y)
			regionRow[i] = k
			labelRow[i] = LabelFor(k, materials)
			values.Set(j, i, ValueFor(k, scale, x, y, visible, outer))
		}
		regions[j] = regionRow
		labels[j] = labelRow
	}

	return &Raster{
		X:           xs,
		Y:           ys,
		Edge:        edge,
		VisibleEdge: visible,
		Radii:       sorted,
		Regions:     regions,
		Values:      values,
		Labels:      labels,
		Scale:       Colorscale(colors),
	}, nil
}

// Boundaries returns one circle per radius, innermost first.
func (r *Raster) Boundaries() []Circle {
	out := make([]Circle, len(r.Radii))
	for i, rad := range r.Radii {
		out[i] = Circle{Radius: rad, X0: -rad, Y0: -rad, X1: rad, Y1: rad}
	}
	return out
}

// Dims returns the grid shape as (rows, cols).
func (r *Raster) Dims() (rows, cols int) {
	return len(r.Y), len(r.X)
}

// ValueRows copies Values into nested slices for JSON encoding.
func (r *Raster) ValueRows() [][]float64 {
	rows, cols := r.Values.Dims()
	out := make([][]float64, rows)
	for j := 0; j < rows; j++ {
		out[j] = mat.Row(make([]float64, cols), j, r.Values)
	}
	return out
}

// RegionCounts returns how many grid points fall in each region.
func (r *Raster) RegionCounts() []int {
	counts := make([]int, len(r.Radii)+1)
	for _, row := range r.Regions {
		for _, k := range row {
			counts[k]++
		}
	}
	return counts
}
