// Command cellrender writes cell and assembly previews to disk.
//
// A single cell is described with flags:
//
//	cellrender -radii 0.41,0.475 -materials Fuel,Clad,Water -colors 'Fuel;Clad;Water' -out previews
//
// or every cell and assembly of a deck is rendered from a file or a running
// deckd:
//
//	cellrender -deck deck.yaml -format both
//	cellrender -server http://localhost:8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/reactordeck/internal/config"
	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/httputil"
	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/region"
	"github.com/banshee-data/reactordeck/internal/units"
	"github.com/banshee-data/reactordeck/internal/version"
)

// options are the parsed command line.
type options struct {
	radii      string
	materials  string
	colors     string
	unit       string
	name       string
	deckPath   string
	server     string
	outDir     string
	format     string
	configPath string
	workers    int
	resolution int
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("cellrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.radii, "radii", "", "Comma separated radii of a single cell")
	fs.StringVar(&o.materials, "materials", "", "Comma separated materials, innermost first, one more than radii")
	fs.StringVar(&o.colors, "colors", "", "Semicolon separated colours or registered colour names")
	fs.StringVar(&o.unit, "units", units.CM, "Units of -radii: "+units.GetValidUnitsString())
	fs.StringVar(&o.name, "name", "cell", "Name of the single cell, used for its file name")
	fs.StringVar(&o.deckPath, "deck", "", "Render every cell and assembly of this deck file")
	fs.StringVar(&o.server, "server", "", "Render the current deck of a deckd at this base URL")
	fs.StringVar(&o.outDir, "out", ".", "Output directory")
	fs.StringVar(&o.format, "format", "png", "Output format: png, html or both")
	fs.StringVar(&o.configPath, "config", "", "Path to a preview config JSON file")
	fs.IntVar(&o.workers, "workers", 0, "Concurrent renders (overrides config)")
	fs.IntVar(&o.resolution, "resolution", 0, "Samples per axis (overrides config)")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, o.validate()
}

func (o options) validate() error {
	if o.version {
		return nil
	}
	sources := 0
	for _, s := range []string{o.radii, o.deckPath, o.server} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of -radii, -deck or -server is required")
	}
	if !units.IsValid(o.unit) {
		return fmt.Errorf("invalid units %q, want one of %s", o.unit, units.GetValidUnitsString())
	}
	switch o.format {
	case "png", "html", "both":
	default:
		return fmt.Errorf("invalid format %q, want png, html or both", o.format)
	}
	if o.workers < 0 || o.resolution < 0 {
		return errors.New("-workers and -resolution must not be negative")
	}
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	if o.version {
		fmt.Println(version.Get())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 30 * time.Second}
	written, err := run(ctx, o, client)
	for _, p := range written {
		fmt.Println(p)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, o options, client httputil.HTTPClient) ([]string, error) {
	cfg := config.DefaultPreviewConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadPreviewConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.workers > 0 {
		cfg.RenderWorkers = &o.workers
	}
	if o.resolution > 0 {
		cfg.Resolution = &o.resolution
	}

	var jobs []job
	switch {
	case o.radii != "":
		cell, err := flagCell(o, palette.NewRegistry())
		if err != nil {
			return nil, err
		}
		jobs = []job{{name: cell.Name, cell: &cell}}
	case o.deckPath != "":
		doc, err := deck.ReadFile(o.deckPath)
		if err != nil {
			return nil, err
		}
		jobs = deckJobs(doc)
	default:
		var doc deck.Document
		url := strings.TrimRight(o.server, "/") + "/api/deck"
		if err := httputil.GetJSON(ctx, client, url, &doc); err != nil {
			return nil, fmt.Errorf("failed to fetch deck: %w", err)
		}
		jobs = deckJobs(doc)
	}

	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	r := &renderer{cfg: cfg, outDir: o.outDir, png: o.format != "html", html: o.format != "png"}
	return r.renderAll(ctx, jobs)
}

// flagCell builds the single cell described by -radii, -materials and
// -colors, with the radii converted to centimetres.
func flagCell(o options, colors *palette.Registry) (deck.Cell, error) {
	radii, err := region.ParseRadii(o.radii)
	if err != nil {
		return deck.Cell{}, err
	}
	cell := deck.Cell{
		Name:  o.name,
		Radii: region.Radii(units.ScaleAll(radii, o.unit)).Sorted(),
	}
	for _, m := range strings.Split(o.materials, ",") {
		if m = strings.TrimSpace(m); m != "" {
			cell.Materials = append(cell.Materials, m)
		}
	}
	for _, c := range strings.Split(o.colors, ";") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if v, ok := colors.Lookup(c); ok {
			c = v
		}
		cell.Colors = append(cell.Colors, c)
	}
	if _, err := palette.ParseAll(cell.Colors); err != nil {
		return deck.Cell{}, err
	}
	return cell, nil
}
