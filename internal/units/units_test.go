package units

import (
	"math"
	"testing"
)

func TestToCentimetres(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		unit     string
		expected float64
	}{
		{"4.1 mm fuel radius", 4.1, MM, 0.41},
		{"1.26 cm pitch", 1.26, CM, 1.26},
		{"0.5 in", 0.5, INCH, 1.27},
		{"2 m core", 2, M, 200},
		{"unknown units default to cm", 3, "furlong", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToCentimetres(tt.value, tt.unit)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ToCentimetres(%f, %s) = %f, want %f", tt.value, tt.unit, result, tt.expected)
			}
			back := FromCentimetres(result, tt.unit)
			if math.Abs(back-tt.value) > 1e-9 {
				t.Errorf("FromCentimetres round trip = %f, want %f", back, tt.value)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%q) = false", u)
		}
	}
	for _, u := range []string{"", "CM", "km", "mps"} {
		if IsValid(u) {
			t.Errorf("IsValid(%q) = true", u)
		}
	}
	if got := GetValidUnitsString(); got != "cm, mm, m, in" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}

func TestScaleAll(t *testing.T) {
	in := []float64{4, 4.5}
	out := ScaleAll(in, MM)
	if math.Abs(out[0]-0.4) > 1e-12 || math.Abs(out[1]-0.45) > 1e-12 {
		t.Errorf("ScaleAll = %v", out)
	}
	if in[0] != 4 {
		t.Error("input slice was modified")
	}
}
