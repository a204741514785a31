// Package render draws cell and assembly previews: static PNGs with
// gonum/plot and interactive HTML heat maps with go-echarts.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/region"
)

// DefaultSize is the edge length of a square preview.
const DefaultSize = 5 * vg.Inch

// circleSegments is the number of straight segments used to draw a circle.
const circleSegments = 180

// PlotOptions control static previews.
type PlotOptions struct {
	Title string
	Size  vg.Length
}

func (o PlotOptions) size() vg.Length {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

// rasterGrid adapts a Raster to plotter.GridXYZ.
type rasterGrid struct {
	r *region.Raster
}

func (g rasterGrid) Dims() (c, r int)   { return len(g.r.X), len(g.r.Y) }
func (g rasterGrid) Z(c, r int) float64 { return g.r.Values.At(r, c) }
func (g rasterGrid) X(c int) float64    { return g.r.X[c] }
func (g rasterGrid) Y(r int) float64    { return g.r.Y[r] }

// discrete is a fixed list of colours usable as a plot palette.
type discrete []color.Color

func (d discrete) Colors() []color.Color { return d }

// scalePalette turns a colour scale into one palette entry per stop. The
// stops are evenly spaced, so a heat map over [0,1] lands each region value
// on its own colour.
func scalePalette(stops []region.ScaleStop) (discrete, error) {
	out := make(discrete, len(stops))
	for i, s := range stops {
		c, err := palette.Parse(s.Color)
		if err != nil {
			return nil, fmt.Errorf("colour scale stop %d: %w", i, err)
		}
		out[i] = c.Clamped()
	}
	return out, nil
}

func circleXYs(radius, cx, cy float64) plotter.XYs {
	pts := make(plotter.XYs, circleSegments+1)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / circleSegments
		pts[i].X = cx + radius*math.Cos(theta)
		pts[i].Y = cy + radius*math.Sin(theta)
	}
	return pts
}

// CellPlot builds the cell preview: the raster's values as a heat map, a
// black outline at every radius and axes clipped to the visible square.
func CellPlot(r *region.Raster, o PlotOptions) (*plot.Plot, error) {
	if r == nil || r.Values == nil {
		return nil, fmt.Errorf("render: empty raster")
	}
	pal, err := scalePalette(r.Scale)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"

	hm := plotter.NewHeatMap(rasterGrid{r}, pal)
	hm.Min, hm.Max = 0, 1
	p.Add(hm)

	for _, c := range r.Boundaries() {
		line, err := plotter.NewLine(circleXYs(c.Radius, 0, 0))
		if err != nil {
			return nil, err
		}
		line.Color = color.Black
		line.Width = vg.Points(1)
		p.Add(line)
	}

	edge := r.VisibleEdge
	if edge <= 0 {
		edge = 1
	}
	p.X.Min, p.X.Max = -edge, edge
	p.Y.Min, p.Y.Max = -edge, edge
	return p, nil
}

// CellPNG writes the cell preview as a square PNG.
func CellPNG(w io.Writer, r *region.Raster, o PlotOptions) error {
	p, err := CellPlot(r, o)
	if err != nil {
		return err
	}
	return writePNG(w, p, o.size())
}

// SaveCellPNG writes the cell preview to path, creating parent
// directories as needed.
func SaveCellPNG(path string, r *region.Raster, o PlotOptions) error {
	p, err := CellPlot(r, o)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := p.Save(o.size(), o.size(), path); err != nil {
		return fmt.Errorf("save cell plot: %w", err)
	}
	return nil
}

func writePNG(w io.Writer, p *plot.Plot, size vg.Length) error {
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
