package deck

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/banshee-data/reactordeck/internal/monitoring"
	"github.com/banshee-data/reactordeck/internal/timeutil"
)

// Persister stores committed document versions.
type Persister interface {
	SaveVersion(ctx context.Context, doc Document) error
}

// Controller owns the current document. Every change is made on a clone
// and only becomes visible once it validates and, if a Persister is set,
// has been saved.
type Controller struct {
	mu    sync.RWMutex
	doc   Document
	store Persister
	clock timeutil.Clock
	logf  func(format string, v ...interface{})
}

// NewController returns a controller holding doc. store may be nil.
func NewController(doc Document, store Persister, clock timeutil.Clock) *Controller {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	doc = doc.Clone()
	doc.ensureMaps()
	return &Controller{
		doc:   doc,
		store: store,
		clock: clock,
		logf:  monitoring.Prefixed("deck"),
	}
}

// Snapshot returns a copy of the current document.
func (c *Controller) Snapshot() Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.Clone()
}

// Restore replaces the current document without bumping its version or
// persisting it, for loading a deck at startup.
func (c *Controller) Restore(doc Document) error {
	doc = doc.Clone()
	doc.ensureMaps()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("restore deck %s: %w", doc.ID, err)
	}
	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
	c.logf("restored deck %s at version %d", doc.ID, doc.Version)
	return nil
}

// Apply runs fn against a clone of the current document. If fn succeeds
// and the result validates, the version is incremented, the result is
// persisted and then committed. On any error the current document is left
// untouched.
func (c *Controller) Apply(ctx context.Context, fn func(*Document) error) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.doc.Clone()
	if err := fn(&next); err != nil {
		return Document{}, err
	}
	next.ensureMaps()
	if err := next.Validate(); err != nil {
		return Document{}, err
	}
	next.Version = c.doc.Version + 1
	next.UpdatedAt = c.clock.Now().UTC()

	if c.store != nil {
		if err := c.store.SaveVersion(ctx, next); err != nil {
			return Document{}, fmt.Errorf("persist deck %s version %d: %w", next.ID, next.Version, err)
		}
	}
	c.doc = next
	c.logf("deck %s now at version %d", next.ID, next.Version)
	return next.Clone(), nil
}

// PutMaterial adds or replaces a material.
func (c *Controller) PutMaterial(ctx context.Context, m Material) (Document, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return Document{}, err
	}
	return c.Apply(ctx, func(d *Document) error {
		d.Materials[m.Name] = m.clone()
		return nil
	})
}

// DeleteMaterial removes a material no cell uses.
func (c *Controller) DeleteMaterial(ctx context.Context, name string) (Document, error) {
	return c.Apply(ctx, func(d *Document) error {
		if _, ok := d.Materials[name]; !ok {
			return notFoundf("material %q", name)
		}
		if users := d.usersOfMaterial(name); len(users) > 0 {
			return fmt.Errorf("%w: material %q is used by %s", ErrInUse, name, strings.Join(users, ", "))
		}
		delete(d.Materials, name)
		return nil
	})
}

// PutCell adds or replaces a cell. Its radii are sorted and every material
// it names must already exist.
func (c *Controller) PutCell(ctx context.Context, cell Cell) (Document, error) {
	cell.Name = strings.TrimSpace(cell.Name)
	cell.Normalize()
	if err := cell.Validate(); err != nil {
		return Document{}, err
	}
	return c.Apply(ctx, func(d *Document) error {
		if _, clash := d.Assemblies[cell.Name]; clash {
			return invalidf("cell %q: an assembly already has that name", cell.Name)
		}
		if err := d.checkMaterials(cell); err != nil {
			return err
		}
		d.Cells[cell.Name] = cell.clone()
		return nil
	})
}

// DeleteCell removes a cell no assembly or root geometry uses.
func (c *Controller) DeleteCell(ctx context.Context, name string) (Document, error) {
	return c.Apply(ctx, func(d *Document) error {
		if _, ok := d.Cells[name]; !ok {
			return notFoundf("cell %q", name)
		}
		if users := d.usersOfCell(name); len(users) > 0 {
			return fmt.Errorf("%w: cell %q is used by %s", ErrInUse, name, strings.Join(users, ", "))
		}
		delete(d.Cells, name)
		return nil
	})
}

// PutAssembly adds or replaces an assembly.
func (c *Controller) PutAssembly(ctx context.Context, a Assembly) (Document, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := a.Validate(); err != nil {
		return Document{}, err
	}
	return c.Apply(ctx, func(d *Document) error {
		if _, clash := d.Cells[a.Name]; clash {
			return invalidf("assembly %q: a cell already has that name", a.Name)
		}
		if err := d.checkCells(a); err != nil {
			return err
		}
		d.Assemblies[a.Name] = a.clone()
		return nil
	})
}

// SetGeometry sets the root geometry. The run settings' source box follows
// the new bounds.
func (c *Controller) SetGeometry(ctx context.Context, g Geometry) (Document, error) {
	if err := g.Validate(); err != nil {
		return Document{}, err
	}
	return c.Apply(ctx, func(d *Document) error {
		if !d.hasRoot(g.Root) {
			return notFoundf("root geometry %q", g.Root)
		}
		d.Geometry = &g
		if d.Settings != nil {
			d.Settings.SourceFromGeometry(g)
		}
		return nil
	})
}

// PutMesh adds or replaces a mesh or energy filter.
func (c *Controller) PutMesh(ctx context.Context, m Mesh) (Document, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return Document{}, err
	}
	return c.Apply(ctx, func(d *Document) error {
		d.Meshes[m.Name] = m
		return nil
	})
}

// SetTally replaces the tally.
func (c *Controller) SetTally(ctx context.Context, t Tally) (Document, error) {
	return c.Apply(ctx, func(d *Document) error {
		if err := t.Validate(d.Meshes); err != nil {
			return err
		}
		tt := t.clone()
		d.Tally = &tt
		return nil
	})
}

// SetSettings replaces the run settings. A zero source box is filled from
// the root geometry when one is set.
func (c *Controller) SetSettings(ctx context.Context, s RunSettings) (Document, error) {
	return c.Apply(ctx, func(d *Document) error {
		if s.Source == (Box{}) && d.Geometry != nil {
			s.SourceFromGeometry(*d.Geometry)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		d.Settings = &s
		return nil
	})
}
