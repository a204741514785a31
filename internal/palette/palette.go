// Package palette parses and generates the region colours used by the cell
// and assembly previews.
package palette

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Named is a colour choice offered to the user.
type Named struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Defaults are the stock fuel, cladding and moderator colours.
func Defaults() []Named {
	return []Named{
		{Label: "Fuel", Value: "rgb(255, 0, 0)"},
		{Label: "Clad", Value: "rgb(25, 255, 0)"},
		{Label: "Water", Value: "rgb(0, 22, 255)"},
	}
}

// Parse accepts "rgb(r, g, b)" with 0-255 channels or a "#rrggbb" hex string.
func Parse(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		return c, nil
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "rgb(") || !strings.HasSuffix(lower, ")") {
		return colorful.Color{}, fmt.Errorf("parse colour %q: want rgb(r, g, b) or #rrggbb", s)
	}
	var r, g, b int
	body := strings.ReplaceAll(lower[len("rgb("):len(lower)-1], " ", "")
	if n, err := fmt.Sscanf(body, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return colorful.Color{}, fmt.Errorf("parse colour %q: malformed rgb triple", s)
	}
	for _, ch := range []int{r, g, b} {
		if ch < 0 || ch > 255 {
			return colorful.Color{}, fmt.Errorf("parse colour %q: channel %d outside 0-255", s, ch)
		}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// Format renders c in the rgb(r, g, b) form.
func Format(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// Generate returns n colours spread evenly around the hue wheel.
func Generate(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		out[i] = Format(colorful.Hsl(hue, 0.7, 0.5))
	}
	return out
}

// ParseAll parses every entry, reporting all failures together.
func ParseAll(values []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, len(values))
	var errs []error
	for i, v := range values {
		c, err := Parse(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[i] = c
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Registry holds the colours a deck can pick from. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	options []Named
}

// NewRegistry returns a registry seeded with Defaults.
func NewRegistry() *Registry {
	return &Registry{options: Defaults()}
}

// Add registers a named colour. The value is normalised to rgb(r, g, b).
// Adding an existing label replaces its colour.
func (r *Registry) Add(label, value string) (Named, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Named{}, errors.New("colour name is required")
	}
	c, err := Parse(value)
	if err != nil {
		return Named{}, err
	}
	n := Named{Label: label, Value: Format(c)}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.options {
		if r.options[i].Label == label {
			r.options[i] = n
			return n, nil
		}
	}
	r.options = append(r.options, n)
	return n, nil
}

// Options returns a copy of the registered colours in insertion order.
func (r *Registry) Options() []Named {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Named, len(r.options))
	copy(out, r.options)
	return out
}

// Lookup returns the colour registered under label.
func (r *Registry) Lookup(label string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.options {
		if o.Label == label {
			return o.Value, true
		}
	}
	return "", false
}
