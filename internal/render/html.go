package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/reactordeck/internal/region"
)

// DefaultMaxPoints bounds the number of heat map cells sent to the browser.
const DefaultMaxPoints = 20000

// HTMLOptions control the interactive preview.
type HTMLOptions struct {
	Title      string
	AssetsHost string // empty uses the go-echarts CDN
	MaxPoints  int
	Width      string
	Height     string
}

// Stride returns the sampling step along each axis that keeps a
// rows x cols grid within maxPoints cells.
func Stride(rows, cols, maxPoints int) int {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	total := rows * cols
	if total <= maxPoints {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(total) / float64(maxPoints))))
}

func axisLabels(vals []float64, stride int) []string {
	out := make([]string, 0, len(vals)/stride+1)
	for i := 0; i < len(vals); i += stride {
		out = append(out, strconv.FormatFloat(vals[i], 'f', 3, 64))
	}
	return out
}

// CellHeatMap builds the interactive preview. Each cell carries the region
// label so hovering shows the material under the cursor.
func CellHeatMap(r *region.Raster, o HTMLOptions) (*charts.HeatMap, int, error) {
	if r == nil || r.Values == nil {
		return nil, 0, fmt.Errorf("render: empty raster")
	}
	rows, cols := r.Dims()
	stride := Stride(rows, cols, o.MaxPoints)

	data := make([]opts.HeatMapData, 0, (rows/stride+1)*(cols/stride+1))
	for j, yi := 0, 0; j < rows; j, yi = j+stride, yi+1 {
		for i, xi := 0, 0; i < cols; i, xi = i+stride, xi+1 {
			data = append(data, opts.HeatMapData{
				Name:  r.Labels[j][i],
				Value: [3]interface{}{xi, yi, r.Values.At(j, i)},
			})
		}
	}

	inRange := make([]string, len(r.Scale))
	for i, s := range r.Scale {
		inRange[i] = s.Color
	}
	width, height := o.Width, o.Height
	if width == "" {
		width = "720px"
	}
	if height == "" {
		height = "720px"
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: width, Height: height, AssetsHost: o.AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("radii=%s points=%d stride=%d", r.Radii, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "x (cm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: axisLabels(r.Y, stride), Name: "y (cm)", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:      opts.Bool(false),
			Min:       0,
			Max:       1,
			Dimension: "2",
			InRange:   &opts.VisualMapInRange{Color: inRange},
		}),
	)
	hm.SetXAxis(axisLabels(r.X, stride)).AddSeries("regions", data)
	return hm, stride, nil
}

// CellHTML writes the interactive preview as a standalone HTML page.
func CellHTML(w io.Writer, r *region.Raster, o HTMLOptions) error {
	hm, _, err := CellHeatMap(r, o)
	if err != nil {
		return err
	}
	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
