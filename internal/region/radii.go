package region

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrNoRadii is returned when a cell is described without any boundary radius.
var ErrNoRadii = errors.New("at least one radius required")

// ErrInvalidRadius is returned for a radius that is not a finite,
// non-negative number.
var ErrInvalidRadius = errors.New("invalid radius")

// Radii are the concentric boundaries of a pin cell, innermost first once sorted.
type Radii []float64

// ParseRadii parses a comma-separated list such as "0.4, 0.45" into sorted radii.
// Empty tokens are ignored, so a trailing comma is accepted.
func ParseRadii(s string) (Radii, error) {
	var out Radii
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidRadius, tok, err)
		}
		out = append(out, v)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out.Sorted(), nil
}

// Validate checks there is at least one radius and every value is finite and non-negative.
func (r Radii) Validate() error {
	if len(r) == 0 {
		return ErrNoRadii
	}
	for i, v := range r {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: radius %d is %v, radii must be finite and non-negative", ErrInvalidRadius, i, v)
		}
	}
	return nil
}

// Sorted returns an ascending copy; the receiver is not modified.
func (r Radii) Sorted() Radii {
	out := make(Radii, len(r))
	copy(out, r)
	sort.Float64s(out)
	return out
}

// Max returns the outermost radius, or 0 for an empty list.
func (r Radii) Max() float64 {
	m := 0.0
	for _, v := range r {
		if v > m {
			m = v
		}
	}
	return m
}

// String renders the radii in the same comma-separated form ParseRadii accepts.
func (r Radii) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
