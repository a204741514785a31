package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/reactordeck/internal/config"
	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/render"
	"github.com/banshee-data/reactordeck/internal/security"
)

// job renders one cell, or one assembly when assembly is set.
type job struct {
	name     string
	cell     *deck.Cell
	assembly *deck.Assembly
	cells    map[string]deck.Cell
}

// deckJobs lists every cell and assembly of doc in name order.
func deckJobs(doc deck.Document) []job {
	var jobs []job
	for _, name := range doc.CellNames() {
		c := doc.Cells[name]
		jobs = append(jobs, job{name: name, cell: &c})
	}
	names := make([]string, 0, len(doc.Assemblies))
	for name := range doc.Assemblies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := doc.Assemblies[name]
		jobs = append(jobs, job{name: name, assembly: &a, cells: doc.Cells})
	}
	return jobs
}

type renderer struct {
	cfg    *config.PreviewConfig
	outDir string
	png    bool
	html   bool
}

// renderAll runs the jobs on at most cfg.GetRenderWorkers() goroutines and
// returns the files written, sorted. The first failure cancels the rest.
func (r *renderer) renderAll(ctx context.Context, jobs []job) ([]string, error) {
	var (
		mu      sync.Mutex
		written []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.GetRenderWorkers())
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths, err := r.render(j)
			if err != nil {
				return fmt.Errorf("%s: %w", j.name, err)
			}
			mu.Lock()
			written = append(written, paths...)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	sort.Strings(written)
	return written, err
}

func (r *renderer) render(j job) ([]string, error) {
	opts := render.PlotOptions{
		Title: j.name,
		Size:  vg.Length(r.cfg.GetPlotSizeInches()) * vg.Inch,
	}
	if j.assembly != nil {
		if !r.png {
			return nil, nil
		}
		p, err := security.OutputPath(r.outDir, j.name, ".png")
		if err != nil {
			return nil, err
		}
		f, err := os.Create(p)
		if err != nil {
			return nil, err
		}
		if err := render.AssemblyPNG(f, *j.assembly, j.cells, opts); err != nil {
			f.Close()
			return nil, err
		}
		return []string{p}, f.Close()
	}

	ras, err := j.cell.Raster(r.cfg.RegionOptions())
	if err != nil {
		return nil, err
	}
	var out []string
	if r.png {
		p, err := security.OutputPath(r.outDir, j.name, ".png")
		if err != nil {
			return nil, err
		}
		if err := render.SaveCellPNG(p, ras, opts); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if r.html {
		p, err := security.OutputPath(r.outDir, j.name, ".html")
		if err != nil {
			return nil, err
		}
		f, err := os.Create(p)
		if err != nil {
			return nil, err
		}
		hopts := render.HTMLOptions{Title: j.name, AssetsHost: r.cfg.GetEChartsAssetsHost()}
		if err := render.CellHTML(f, ras, hopts); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	log.Printf("rendered %s", j.name)
	return out, nil
}
