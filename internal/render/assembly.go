package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/palette"
)

// cellColors returns one colour per region of c. Cells saved without
// colours get a generated palette so their regions stay distinguishable.
func cellColors(c deck.Cell) ([]color.Color, error) {
	values := c.Colors
	if len(values) == 0 {
		values = palette.Generate(len(c.Radii) + 1)
	}
	parsed, err := palette.ParseAll(values)
	if err != nil {
		return nil, fmt.Errorf("cell %q: %w", c.Name, err)
	}
	out := make([]color.Color, len(parsed))
	for i, p := range parsed {
		out[i] = p.Clamped()
	}
	return out, nil
}

func square(cx, cy, hx, hy float64) plotter.XYs {
	return plotter.XYs{
		{X: cx - hx, Y: cy - hy},
		{X: cx + hx, Y: cy - hy},
		{X: cx + hx, Y: cy + hy},
		{X: cx - hx, Y: cy + hy},
	}
}

func filled(pts plotter.XYs, fill color.Color, outline bool) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, err
	}
	poly.Color = fill
	if outline {
		poly.LineStyle.Color = color.Gray{Y: 64}
		poly.LineStyle.Width = vg.Points(0.5)
	} else {
		poly.LineStyle.Width = 0
	}
	return poly, nil
}

// AssemblyPlot draws every lattice position as its cell: the pitch square
// in the outer colour with the pin's regions layered outermost first.
func AssemblyPlot(a deck.Assembly, cells map[string]deck.Cell, o PlotOptions) (*plot.Plot, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	colors := make(map[string][]color.Color)
	for _, name := range a.CellNames() {
		c, ok := cells[name]
		if !ok {
			return nil, fmt.Errorf("assembly %q: %w: cell %q", a.Name, deck.ErrNotFound, name)
		}
		cc, err := cellColors(c)
		if err != nil {
			return nil, err
		}
		colors[name] = cc
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"

	xb, yb := a.Bounds()
	hx, hy := a.PitchX/2, a.PitchY/2
	for y := 0; y < a.NumY; y++ {
		for x := 0; x < a.NumX; x++ {
			cx := xb[0] + (float64(x)+0.5)*a.PitchX
			cy := yb[0] + (float64(y)+0.5)*a.PitchY
			name := a.CellAt(deck.Index{X: x, Y: y})
			radii := cells[name].Radii.Sorted()
			cc := colors[name]

			bg, err := filled(square(cx, cy, hx, hy), cc[len(cc)-1], true)
			if err != nil {
				return nil, err
			}
			p.Add(bg)
			for k := len(radii) - 1; k >= 0; k-- {
				disk, err := filled(circleXYs(radii[k], cx, cy), cc[k], false)
				if err != nil {
					return nil, err
				}
				p.Add(disk)
			}
		}
	}

	p.X.Min, p.X.Max = xb[0], xb[1]
	p.Y.Min, p.Y.Max = yb[0], yb[1]
	return p, nil
}

// AssemblyPNG writes the lattice preview as a square PNG.
func AssemblyPNG(w io.Writer, a deck.Assembly, cells map[string]deck.Cell, o PlotOptions) error {
	p, err := AssemblyPlot(a, cells, o)
	if err != nil {
		return err
	}
	return writePNG(w, p, o.size())
}
