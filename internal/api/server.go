// Package api serves the deck editor's JSON API and cell previews.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/reactordeck/internal/config"
	"github.com/banshee-data/reactordeck/internal/db"
	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/httputil"
	"github.com/banshee-data/reactordeck/internal/monitoring"
	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/region"
	"github.com/banshee-data/reactordeck/internal/timeutil"
)

// ANSI escape codes for the access log
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// History gives read access to saved deck versions.
type History interface {
	Get(ctx context.Context, docID string, version int) (deck.Document, error)
	ListVersions(ctx context.Context, docID string) ([]db.VersionInfo, error)
}

type Server struct {
	deck    *deck.Controller
	history History
	colors  *palette.Registry
	cfg     *config.PreviewConfig
	clock   timeutil.Clock
	logf    func(format string, v ...interface{})
}

// NewServer wires the API to a deck controller. history may be nil, in
// which case the version endpoints report 404.
func NewServer(ctrl *deck.Controller, history History, colors *palette.Registry, cfg *config.PreviewConfig) *Server {
	if colors == nil {
		colors = palette.NewRegistry()
	}
	if cfg == nil {
		cfg = config.EmptyPreviewConfig()
	}
	return &Server{
		deck:    ctrl,
		history: history,
		colors:  colors,
		cfg:     cfg,
		clock:   timeutil.RealClock{},
		logf:    monitoring.Prefixed("api"),
	}
}

// SetClock replaces the clock used to time renders.
func (s *Server) SetClock(c timeutil.Clock) {
	s.clock = c
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes, all under /api/.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", s.showVersion)
	mux.HandleFunc("/api/preview", s.showPreview)
	mux.HandleFunc("/api/colors", s.handleColors)

	mux.HandleFunc("/api/deck", s.showDeck)
	mux.HandleFunc("/api/deck/versions", s.listVersions)
	mux.HandleFunc("GET /api/deck/versions/{version}", s.showVersionedDeck)

	mux.HandleFunc("/api/deck/materials", s.putMaterial)
	mux.HandleFunc("DELETE /api/deck/materials/{name}", s.deleteMaterial)
	mux.HandleFunc("/api/deck/cells", s.putCell)
	mux.HandleFunc("DELETE /api/deck/cells/{name}", s.deleteCell)
	mux.HandleFunc("GET /api/deck/cells/{name}/preview.png", s.cellPreviewPNG)
	mux.HandleFunc("GET /api/deck/cells/{name}/preview.html", s.cellPreviewHTML)
	mux.HandleFunc("/api/deck/assemblies", s.putAssembly)
	mux.HandleFunc("POST /api/deck/assemblies/{name}/inject", s.injectCells)
	mux.HandleFunc("GET /api/deck/assemblies/{name}/preview.png", s.assemblyPreviewPNG)
	mux.HandleFunc("/api/deck/geometry", s.setGeometry)
	mux.HandleFunc("/api/deck/meshes", s.putMesh)
	mux.HandleFunc("/api/deck/tally", s.setTally)
	mux.HandleFunc("/api/deck/settings", s.setSettings)
	return mux
}

// writeError maps deck, store and rasteriser errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deck.ErrNotFound), errors.Is(err, db.ErrNoVersions):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, deck.ErrInUse):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, deck.ErrInvalid),
		errors.Is(err, region.ErrNoRadii),
		errors.Is(err, region.ErrInvalidRadius),
		errors.Is(err, region.ErrInvalidOptions):
		httputil.BadRequest(w, err.Error())
	default:
		s.logf("internal error: %v", err)
		httputil.InternalServerError(w, err.Error())
	}
}
