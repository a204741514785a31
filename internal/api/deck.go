package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/httputil"
	"github.com/banshee-data/reactordeck/internal/palette"
)

func (s *Server) showDeck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.deck.Snapshot())
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.history == nil {
		httputil.NotFound(w, "version history is not available")
		return
	}
	versions, err := s.history.ListVersions(r.Context(), s.deck.Snapshot().ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, versions)
}

func (s *Server) showVersionedDeck(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		httputil.NotFound(w, "version history is not available")
		return
	}
	v, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || v < 1 {
		httputil.BadRequest(w, fmt.Sprintf("invalid version %q", r.PathValue("version")))
		return
	}
	doc, err := s.history.Get(r.Context(), s.deck.Snapshot().ID, v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, doc)
}

// decodePost reads a POST body into v, writing the error response itself.
func decodePost(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return false
	}
	if err := httputil.DecodeJSON(r, v); err != nil {
		httputil.BadRequest(w, err.Error())
		return false
	}
	return true
}

// respond writes the updated deck or maps err to a status.
func (s *Server) respond(w http.ResponseWriter, doc deck.Document, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, doc)
}

func (s *Server) putMaterial(w http.ResponseWriter, r *http.Request) {
	var m deck.Material
	if !decodePost(w, r, &m) {
		return
	}
	doc, err := s.deck.PutMaterial(r.Context(), m)
	s.respond(w, doc, err)
}

func (s *Server) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deck.DeleteMaterial(r.Context(), r.PathValue("name"))
	s.respond(w, doc, err)
}

func (s *Server) putCell(w http.ResponseWriter, r *http.Request) {
	var c deck.Cell
	if !decodePost(w, r, &c) {
		return
	}
	c.Colors = s.resolveColors(c.Colors)
	doc, err := s.deck.PutCell(r.Context(), c)
	s.respond(w, doc, err)
}

func (s *Server) deleteCell(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deck.DeleteCell(r.Context(), r.PathValue("name"))
	s.respond(w, doc, err)
}

// AssemblyRequest creates or replaces an assembly. Pitch defaults to the
// main cell's.
type AssemblyRequest struct {
	Name     string `json:"name"`
	MainCell string `json:"main_cell"`
	NumX     int    `json:"num_x"`
	NumY     int    `json:"num_y"`
}

func (s *Server) putAssembly(w http.ResponseWriter, r *http.Request) {
	var req AssemblyRequest
	if !decodePost(w, r, &req) {
		return
	}
	current := s.deck.Snapshot()
	main, ok := current.Cells[req.MainCell]
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("main cell %q not found", req.MainCell))
		return
	}
	a := deck.NewAssembly(req.Name, main, req.NumX, req.NumY)
	if existing, ok := current.Assemblies[req.Name]; ok && existing.MainCell == req.MainCell &&
		existing.NumX == req.NumX && existing.NumY == req.NumY {
		a.Injected = existing.Injected
	}
	doc, err := s.deck.PutAssembly(r.Context(), a)
	s.respond(w, doc, err)
}

// InjectRequest places Cell at the given lattice positions, or clears it
// when Indices is empty.
type InjectRequest struct {
	Cell    string       `json:"cell"`
	Indices []deck.Index `json:"indices"`
}

func (s *Server) injectCells(w http.ResponseWriter, r *http.Request) {
	var req InjectRequest
	if !decodePost(w, r, &req) {
		return
	}
	name := r.PathValue("name")
	doc, err := s.deck.Apply(r.Context(), func(d *deck.Document) error {
		a, ok := d.Assemblies[name]
		if !ok {
			return fmt.Errorf("assembly %q: %w", name, deck.ErrNotFound)
		}
		if _, ok := d.Cells[req.Cell]; !ok {
			return fmt.Errorf("cell %q: %w", req.Cell, deck.ErrNotFound)
		}
		a.Inject(req.Cell, req.Indices)
		d.Assemblies[name] = a
		return nil
	})
	s.respond(w, doc, err)
}

// GeometryRequest selects the root universe and its boundary conditions.
// Bounds are derived from the root.
type GeometryRequest struct {
	Root string            `json:"root"`
	X    deck.BoundaryType `json:"x,omitempty"`
	Y    deck.BoundaryType `json:"y,omitempty"`
	Z    deck.BoundaryType `json:"z,omitempty"`
}

func (s *Server) setGeometry(w http.ResponseWriter, r *http.Request) {
	var req GeometryRequest
	if !decodePost(w, r, &req) {
		return
	}
	g, err := deck.DeriveBounds(req.Root, s.deck.Snapshot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.deck.SetGeometry(r.Context(), g.WithTypes(req.X, req.Y, req.Z))
	s.respond(w, doc, err)
}

// putMesh stores a mesh. Spatial meshes sent without extents cover the
// current root geometry.
func (s *Server) putMesh(w http.ResponseWriter, r *http.Request) {
	var m deck.Mesh
	if !decodePost(w, r, &m) {
		return
	}
	if m.Kind == deck.SpatialMesh && m.Width == 0 && m.Depth == 0 && m.Height == 0 {
		g := s.deck.Snapshot().Geometry
		if g == nil {
			httputil.BadRequest(w, "set the root geometry before adding a spatial mesh")
			return
		}
		m = deck.NewSpatialMesh(m.Name, *g, m.XRes, m.YRes, m.ZRes)
	}
	doc, err := s.deck.PutMesh(r.Context(), m)
	s.respond(w, doc, err)
}

func (s *Server) setTally(w http.ResponseWriter, r *http.Request) {
	var t deck.Tally
	if !decodePost(w, r, &t) {
		return
	}
	doc, err := s.deck.SetTally(r.Context(), t)
	s.respond(w, doc, err)
}

func (s *Server) setSettings(w http.ResponseWriter, r *http.Request) {
	var rs deck.RunSettings
	if !decodePost(w, r, &rs) {
		return
	}
	doc, err := s.deck.SetSettings(r.Context(), rs)
	s.respond(w, doc, err)
}

// handleColors lists the named colours (GET) or registers one (POST).
func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		httputil.WriteJSONOK(w, s.colors.Options())
	case http.MethodPost:
		var n palette.Named
		if err := httputil.DecodeJSON(r, &n); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		added, err := s.colors.Add(n.Label, n.Value)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, added)
	default:
		httputil.MethodNotAllowed(w)
	}
}
