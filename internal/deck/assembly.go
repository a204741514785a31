package deck

import (
	"errors"
	"sort"
	"strings"
)

// Index addresses one lattice position; X counts columns from the left and
// Y counts rows from the bottom.
type Index struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Assembly is a rectangular lattice filled with a main cell, with some
// positions replaced by other cells (guide tubes, burnable absorbers, ...).
type Assembly struct {
	Name     string             `json:"name" yaml:"name"`
	MainCell string             `json:"main_cell" yaml:"main_cell"`
	NumX     int                `json:"num_x" yaml:"num_x"`
	NumY     int                `json:"num_y" yaml:"num_y"`
	PitchX   float64            `json:"pitch_x" yaml:"pitch_x"`
	PitchY   float64            `json:"pitch_y" yaml:"pitch_y"`
	Injected map[string][]Index `json:"injected,omitempty" yaml:"injected,omitempty"`
}

// NewAssembly lays out an nx by ny lattice of main, taking the pitch from it.
func NewAssembly(name string, main Cell, nx, ny int) Assembly {
	return Assembly{
		Name:     name,
		MainCell: main.Name,
		NumX:     nx,
		NumY:     ny,
		PitchX:   main.PitchX,
		PitchY:   main.PitchY,
	}
}

// Validate checks the lattice on its own; cell references are checked by
// the document.
func (a Assembly) Validate() error {
	var errs []error
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, invalidf("assembly name is required"))
	}
	if a.MainCell == "" {
		errs = append(errs, invalidf("assembly %q: main cell is required", a.Name))
	}
	if a.NumX < 1 || a.NumY < 1 {
		errs = append(errs, invalidf("assembly %q: lattice must be at least 1x1, got %dx%d", a.Name, a.NumX, a.NumY))
	}
	if a.PitchX <= 0 || a.PitchY <= 0 {
		errs = append(errs, invalidf("assembly %q: pitch must be positive", a.Name))
	}
	owner := map[Index]string{}
	for _, cell := range a.injectedNames() {
		if cell == a.MainCell {
			errs = append(errs, invalidf("assembly %q: main cell %q cannot also be injected", a.Name, cell))
		}
		for _, idx := range a.Injected[cell] {
			if !a.contains(idx) {
				errs = append(errs, invalidf("assembly %q: %s position (%d,%d) outside %dx%d lattice",
					a.Name, cell, idx.X, idx.Y, a.NumX, a.NumY))
			}
			if prev, ok := owner[idx]; ok && prev != cell {
				errs = append(errs, invalidf("assembly %q: position (%d,%d) assigned to both %s and %s",
					a.Name, idx.X, idx.Y, prev, cell))
			}
			owner[idx] = cell
		}
	}
	return errors.Join(errs...)
}

func (a Assembly) contains(idx Index) bool {
	return idx.X >= 0 && idx.X < a.NumX && idx.Y >= 0 && idx.Y < a.NumY
}

func (a Assembly) injectedNames() []string {
	names := make([]string, 0, len(a.Injected))
	for name := range a.Injected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Toggle returns selection with each idx added if absent or removed if
// present. The input slice is not modified.
func Toggle(selection []Index, idx ...Index) []Index {
	out := append([]Index(nil), selection...)
	for _, p := range idx {
		found := -1
		for i, s := range out {
			if s == p {
				found = i
				break
			}
		}
		if found >= 0 {
			out = append(out[:found], out[found+1:]...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// Inject assigns indices to cell, removing those positions from every other
// injected cell. An empty selection clears the cell's injections.
func (a *Assembly) Inject(cell string, indices []Index) {
	if a.Injected == nil {
		a.Injected = map[string][]Index{}
	}
	if len(indices) == 0 {
		delete(a.Injected, cell)
		return
	}
	taken := make(map[Index]bool, len(indices))
	for _, idx := range indices {
		taken[idx] = true
	}
	for name, positions := range a.Injected {
		if name == cell {
			continue
		}
		kept := positions[:0:0]
		for _, p := range positions {
			if !taken[p] {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(a.Injected, name)
		} else {
			a.Injected[name] = kept
		}
	}
	a.Injected[cell] = append([]Index(nil), indices...)
}

// CellAt returns the cell filling idx.
func (a Assembly) CellAt(idx Index) string {
	for _, name := range a.injectedNames() {
		for _, p := range a.Injected[name] {
			if p == idx {
				return name
			}
		}
	}
	return a.MainCell
}

// Layout returns the cell name at every position, top row first so the
// result reads the way the lattice is drawn.
func (a Assembly) Layout() [][]string {
	rows := make([][]string, a.NumY)
	for y := 0; y < a.NumY; y++ {
		row := make([]string, a.NumX)
		for x := 0; x < a.NumX; x++ {
			row[x] = a.CellAt(Index{X: x, Y: y})
		}
		rows[a.NumY-1-y] = row
	}
	return rows
}

// CellNames returns every cell the lattice uses, main cell first.
func (a Assembly) CellNames() []string {
	return append([]string{a.MainCell}, a.injectedNames()...)
}

// Bounds returns the lattice extent centred on the origin.
func (a Assembly) Bounds() (x, y [2]float64) {
	hx := float64(a.NumX) * a.PitchX / 2
	hy := float64(a.NumY) * a.PitchY / 2
	return [2]float64{-hx, hx}, [2]float64{-hy, hy}
}

func (a Assembly) clone() Assembly {
	if a.Injected != nil {
		inj := make(map[string][]Index, len(a.Injected))
		for k, v := range a.Injected {
			inj[k] = append([]Index(nil), v...)
		}
		a.Injected = inj
	}
	return a
}
