package deck

import (
	"errors"
	"strings"
)

// Basis selects how a constituent's percentage is interpreted.
type Basis string

const (
	AtomPercent   Basis = "ao"
	WeightPercent Basis = "wo"
)

// Constituent is one element or nuclide of a material.
type Constituent struct {
	Element    string  `json:"element" yaml:"element"`
	AtomicMass float64 `json:"atomic_mass" yaml:"atomic_mass"`
	Percent    float64 `json:"percent" yaml:"percent"`
	Basis      Basis   `json:"basis" yaml:"basis"`
}

// Material is a named substance that regions of a cell are filled with.
type Material struct {
	Name         string        `json:"name" yaml:"name"`
	Density      float64       `json:"density" yaml:"density"`
	DensityUnits string        `json:"density_units,omitempty" yaml:"density_units,omitempty"`
	Temperature  float64       `json:"temperature" yaml:"temperature"`
	Constituents []Constituent `json:"constituents,omitempty" yaml:"constituents,omitempty"`
}

// Validate reports every problem with the material at once.
func (m Material) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, invalidf("material name is required"))
	}
	if m.Density <= 0 {
		errs = append(errs, invalidf("material %q: density must be positive, got %g", m.Name, m.Density))
	}
	if m.Temperature < 0 {
		errs = append(errs, invalidf("material %q: temperature must be non-negative, got %g", m.Name, m.Temperature))
	}
	for i, c := range m.Constituents {
		if err := c.validate(); err != nil {
			errs = append(errs, invalidf("material %q constituent %d: %v", m.Name, i, err))
		}
	}
	return errors.Join(errs...)
}

func (c Constituent) validate() error {
	switch {
	case strings.TrimSpace(c.Element) == "":
		return errors.New("element is required")
	case c.Percent <= 0 || c.Percent > 100:
		return errors.New("percent must be in (0, 100]")
	case c.AtomicMass < 0:
		return errors.New("atomic mass must be non-negative")
	case c.Basis != AtomPercent && c.Basis != WeightPercent:
		return errors.New(`basis must be "ao" or "wo"`)
	}
	return nil
}

// AddConstituent appends an element to the material. A zero mass falls back
// to elementMass, the tabulated mass of the element, and a false weight flag
// selects atom percent.
func (m *Material) AddConstituent(element string, mass, elementMass, percent float64, weight bool) error {
	if percent == 0 {
		return invalidf("a composition percentage must be specified")
	}
	if mass == 0 {
		mass = elementMass
	}
	basis := AtomPercent
	if weight {
		basis = WeightPercent
	}
	c := Constituent{Element: element, AtomicMass: mass, Percent: percent, Basis: basis}
	if err := c.validate(); err != nil {
		return invalidf("%s in %q: %v", element, m.Name, err)
	}
	m.Constituents = append(m.Constituents, c)
	return nil
}

func (m Material) clone() Material {
	m.Constituents = append([]Constituent(nil), m.Constituents...)
	return m
}
