package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/reactordeck/internal/httputil"
	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/region"
	"github.com/banshee-data/reactordeck/internal/render"
	"github.com/banshee-data/reactordeck/internal/version"
)

// PreviewResponse is the JSON form of a classified cell.
type PreviewResponse struct {
	*region.Raster
	Values     [][]float64     `json:"values"`
	Boundaries []region.Circle `json:"boundaries"`
	Counts     []int           `json:"region_counts"`
}

func newPreviewResponse(r *region.Raster) PreviewResponse {
	return PreviewResponse{
		Raster:     r,
		Values:     r.ValueRows(),
		Boundaries: r.Boundaries(),
		Counts:     r.RegionCounts(),
	}
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, version.Get())
}

// splitList splits a comma separated query value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveColors maps registered colour names to their values; anything
// else is passed through as a colour literal.
func (s *Server) resolveColors(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if c, ok := s.colors.Lookup(v); ok {
			v = c
		}
		out[i] = v
	}
	return out
}

func (s *Server) plotOptions(title string) render.PlotOptions {
	return render.PlotOptions{
		Title: title,
		Size:  vg.Length(s.cfg.GetPlotSizeInches()) * vg.Inch,
	}
}

func (s *Server) htmlOptions(title string) render.HTMLOptions {
	return render.HTMLOptions{
		Title:      title,
		AssetsHost: s.cfg.GetEChartsAssetsHost(),
	}
}

// showPreview classifies an ad-hoc cell:
//
//	GET /api/preview?radii=0.41,0.475&materials=Fuel,Clad,Water&color=Fuel&color=...&format=png
//
// Colours are repeated parameters because rgb() values contain commas.
func (s *Server) showPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	radii, err := region.ParseRadii(q.Get("radii"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.cfg.RegionOptions()
	if v := q.Get("resolution"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("invalid resolution %q", v))
			return
		}
		opts.Resolution = n
	}

	colors := s.resolveColors(q["color"])
	if _, err := palette.ParseAll(colors); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	start := s.clock.Now()
	ras, err := region.Rasterize(radii, splitList(q.Get("materials")), colors, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRaster(w, ras, q.Get("format"), q.Get("title"))
	s.logf("preview of %d regions at %dx%d took %v", len(radii)+1, opts.Resolution, opts.Resolution, s.clock.Since(start))
}

// writeRaster encodes ras as json (the default), png or html.
func (s *Server) writeRaster(w http.ResponseWriter, ras *region.Raster, format, title string) {
	var buf bytes.Buffer
	switch format {
	case "", "json":
		httputil.WriteJSONOK(w, newPreviewResponse(ras))
	case "png":
		if err := render.CellPNG(&buf, ras, s.plotOptions(title)); err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteBody(w, "image/png", buf.Bytes())
	case "html":
		if err := render.CellHTML(&buf, ras, s.htmlOptions(title)); err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
	default:
		httputil.BadRequest(w, fmt.Sprintf("unsupported format %q, want json, png or html", format))
	}
}

func (s *Server) cellRaster(w http.ResponseWriter, r *http.Request) (*region.Raster, string, bool) {
	name := r.PathValue("name")
	cell, ok := s.deck.Snapshot().Cells[name]
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("cell %q not found", name))
		return nil, "", false
	}
	ras, err := cell.Raster(s.cfg.RegionOptions())
	if err != nil {
		s.writeError(w, err)
		return nil, "", false
	}
	return ras, name, true
}

func (s *Server) cellPreviewPNG(w http.ResponseWriter, r *http.Request) {
	ras, name, ok := s.cellRaster(w, r)
	if !ok {
		return
	}
	s.writeRaster(w, ras, "png", name)
}

func (s *Server) cellPreviewHTML(w http.ResponseWriter, r *http.Request) {
	ras, name, ok := s.cellRaster(w, r)
	if !ok {
		return
	}
	s.writeRaster(w, ras, "html", name)
}

func (s *Server) assemblyPreviewPNG(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	doc := s.deck.Snapshot()
	a, ok := doc.Assemblies[name]
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("assembly %q not found", name))
		return
	}
	var buf bytes.Buffer
	if err := render.AssemblyPNG(&buf, a, doc.Cells, s.plotOptions(name)); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteBody(w, "image/png", buf.Bytes())
}
