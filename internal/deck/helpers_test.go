package deck

import (
	"context"
	"errors"
	"sync"

	"github.com/banshee-data/reactordeck/internal/region"
)

func fuel() Material {
	return Material{
		Name:        "Fuel",
		Density:     10.4,
		Temperature: 900,
		Constituents: []Constituent{
			{Element: "U235", AtomicMass: 235.04, Percent: 4.5, Basis: WeightPercent},
			{Element: "U238", AtomicMass: 238.05, Percent: 95.5, Basis: WeightPercent},
		},
	}
}

func clad() Material { return Material{Name: "Clad", Density: 6.55, Temperature: 600} }

func water() Material { return Material{Name: "Water", Density: 0.74, Temperature: 580} }

func pinCell() Cell {
	return Cell{
		Name:      "pin",
		Radii:     region.Radii{0.39, 0.45},
		PitchX:    1.26,
		PitchY:    1.26,
		Height:    200,
		Materials: []string{"Fuel", "Clad", "Water"},
		Colors:    []string{"rgb(255, 0, 0)", "rgb(25, 255, 0)", "rgb(0, 22, 255)"},
	}
}

func guideTube() Cell {
	return Cell{
		Name:      "guide",
		Radii:     region.Radii{0.56, 0.6},
		PitchX:    1.26,
		PitchY:    1.26,
		Height:    200,
		Materials: []string{"Water", "Clad", "Water"},
	}
}

// sampleDocument is a small but complete deck.
func sampleDocument() Document {
	d := NewDocument("sample")
	d.ID = "5b0f3c1e-0000-4000-8000-000000000001"
	for _, m := range []Material{fuel(), clad(), water()} {
		d.Materials[m.Name] = m
	}
	for _, c := range []Cell{pinCell(), guideTube()} {
		d.Cells[c.Name] = c
	}
	a := NewAssembly("17x17", pinCell(), 3, 3)
	a.Inject("guide", []Index{{X: 1, Y: 1}})
	d.Assemblies[a.Name] = a
	return d
}

type recordingStore struct {
	mu    sync.Mutex
	saved []Document
	fail  bool
}

var errStoreDown = errors.New("store down")

func (s *recordingStore) SaveVersion(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.saved = append(s.saved, doc.Clone())
	return nil
}
