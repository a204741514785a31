package deck

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Document is a complete deck. Values are passed around by copy; use Clone
// before mutating a document that is shared.
type Document struct {
	ID         string              `json:"id" yaml:"id"`
	Version    int                 `json:"version" yaml:"version"`
	Name       string              `json:"name" yaml:"name"`
	Materials  map[string]Material `json:"materials" yaml:"materials"`
	Cells      map[string]Cell     `json:"cells" yaml:"cells"`
	Assemblies map[string]Assembly `json:"assemblies" yaml:"assemblies"`
	Geometry   *Geometry           `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Meshes     map[string]Mesh     `json:"meshes" yaml:"meshes"`
	Tally      *Tally              `json:"tally,omitempty" yaml:"tally,omitempty"`
	Settings   *RunSettings        `json:"settings,omitempty" yaml:"settings,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at" yaml:"updated_at"`
}

// NewDocument returns an empty deck with a fresh ID and default run
// settings.
func NewDocument(name string) Document {
	s := DefaultRunSettings()
	return Document{
		ID:         uuid.NewString(),
		Name:       name,
		Materials:  map[string]Material{},
		Cells:      map[string]Cell{},
		Assemblies: map[string]Assembly{},
		Meshes:     map[string]Mesh{},
		Settings:   &s,
	}
}

// ensureMaps replaces nil maps so decoded documents can be written to.
func (d *Document) ensureMaps() {
	if d.Materials == nil {
		d.Materials = map[string]Material{}
	}
	if d.Cells == nil {
		d.Cells = map[string]Cell{}
	}
	if d.Assemblies == nil {
		d.Assemblies = map[string]Assembly{}
	}
	if d.Meshes == nil {
		d.Meshes = map[string]Mesh{}
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Materials = make(map[string]Material, len(d.Materials))
	for k, v := range d.Materials {
		out.Materials[k] = v.clone()
	}
	out.Cells = make(map[string]Cell, len(d.Cells))
	for k, v := range d.Cells {
		out.Cells[k] = v.clone()
	}
	out.Assemblies = make(map[string]Assembly, len(d.Assemblies))
	for k, v := range d.Assemblies {
		out.Assemblies[k] = v.clone()
	}
	out.Meshes = make(map[string]Mesh, len(d.Meshes))
	for k, v := range d.Meshes {
		out.Meshes[k] = v
	}
	if d.Geometry != nil {
		g := *d.Geometry
		out.Geometry = &g
	}
	if d.Tally != nil {
		t := d.Tally.clone()
		out.Tally = &t
	}
	if d.Settings != nil {
		s := *d.Settings
		out.Settings = &s
	}
	return out
}

// RootNames lists the cells and assemblies that can be used as the root
// geometry, sorted.
func (d Document) RootNames() []string {
	names := make([]string, 0, len(d.Cells)+len(d.Assemblies))
	for n := range d.Cells {
		names = append(names, n)
	}
	for n := range d.Assemblies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CellNames returns the cell names, sorted.
func (d Document) CellNames() []string {
	names := make([]string, 0, len(d.Cells))
	for n := range d.Cells {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks every entry and the references between them.
func (d Document) Validate() error {
	var errs []error
	for name, m := range d.Materials {
		if name != m.Name {
			errs = append(errs, invalidf("material key %q does not match name %q", name, m.Name))
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for name, c := range d.Cells {
		if name != c.Name {
			errs = append(errs, invalidf("cell key %q does not match name %q", name, c.Name))
		}
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := d.checkMaterials(c); err != nil {
			errs = append(errs, err)
		}
	}
	for name, a := range d.Assemblies {
		if name != a.Name {
			errs = append(errs, invalidf("assembly key %q does not match name %q", name, a.Name))
		}
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := d.checkCells(a); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Geometry != nil {
		if err := d.Geometry.Validate(); err != nil {
			errs = append(errs, err)
		}
		if !d.hasRoot(d.Geometry.Root) {
			errs = append(errs, notFoundf("root geometry %q", d.Geometry.Root))
		}
	}
	for name, m := range d.Meshes {
		if name != m.Name {
			errs = append(errs, invalidf("mesh key %q does not match name %q", name, m.Name))
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Tally != nil {
		if err := d.Tally.Validate(d.Meshes); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Settings != nil {
		if err := d.Settings.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d Document) hasRoot(name string) bool {
	if _, ok := d.Cells[name]; ok {
		return true
	}
	_, ok := d.Assemblies[name]
	return ok
}

func (d Document) checkMaterials(c Cell) error {
	var errs []error
	for _, m := range c.Materials {
		if _, ok := d.Materials[m]; !ok {
			errs = append(errs, notFoundf("cell %q material %q", c.Name, m))
		}
	}
	return errors.Join(errs...)
}

func (d Document) checkCells(a Assembly) error {
	var errs []error
	for _, name := range a.CellNames() {
		if _, ok := d.Cells[name]; !ok {
			errs = append(errs, notFoundf("assembly %q cell %q", a.Name, name))
		}
	}
	return errors.Join(errs...)
}

// usersOfCell lists the assemblies and root geometry referencing a cell.
func (d Document) usersOfCell(name string) []string {
	var users []string
	for an, a := range d.Assemblies {
		for _, cn := range a.CellNames() {
			if cn == name {
				users = append(users, "assembly "+an)
				break
			}
		}
	}
	if d.Geometry != nil && d.Geometry.Root == name {
		users = append(users, "root geometry")
	}
	sort.Strings(users)
	return users
}

// usersOfMaterial lists the cells that fill a region with a material.
func (d Document) usersOfMaterial(name string) []string {
	var users []string
	for cn, c := range d.Cells {
		for _, m := range c.Materials {
			if m == name {
				users = append(users, "cell "+cn)
				break
			}
		}
	}
	sort.Strings(users)
	return users
}
