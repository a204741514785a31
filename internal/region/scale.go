package region

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Background is the colour drawn for value 0: unfilled space and every
// point when no colours are supplied.
const Background = "rgb(255, 255, 255)"

// ScaleStop is one entry of a colour scale: a position in [0,1] and its colour.
type ScaleStop struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ScaleValues partitions [0,1] into n+1 evenly spaced values and drops the
// first, so region k maps to the k-th returned value. n <= 0 yields nil.
func ScaleValues(n int) []float64 {
	if n <= 0 {
		return nil
	}
	span := floats.Span(make([]float64, n+1), 0, 1)
	return span[1:]
}

// Colorscale builds the scale used to colour a raster's Values: the
// background at 0 followed by one stop per supplied colour.
func Colorscale(colors []string) []ScaleStop {
	stops := []ScaleStop{{Value: 0, Color: Background}}
	for i, v := range ScaleValues(len(colors)) {
		stops = append(stops, ScaleStop{Value: v, Color: colors[i]})
	}
	return stops
}

// LabelFor returns the hover label for a region: the matching material when
// one was supplied, otherwise a synthetic "Region N" (1-based).
func LabelFor(region int, materials []string) string {
	if region >= 0 && region < len(materials) {
		return materials[region]
	}
	return fmt.Sprintf("Region %d", region+1)
}

// ValueFor returns the colour-scale value for a point. The outer region is
// only coloured inside the visible square so the exterior does not flood the
// preview; regions without a colour fall back to 0.
func ValueFor(region int, scale []float64, x, y, visibleEdge float64, outer int) float64 {
	if len(scale) == 0 {
		return 0
	}
	if region == outer && !insideSquare(x, y, visibleEdge) {
		return 0
	}
	if region < 0 || region >= len(scale) {
		return 0
	}
	return scale[region]
}

func insideSquare(x, y, half float64) bool {
	return -half < x && x < half && -half < y && y < half
}
