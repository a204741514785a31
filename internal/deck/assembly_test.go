package deck

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	t.Parallel()

	sel := []Index{{0, 0}, {1, 1}}
	got := Toggle(sel, Index{1, 1}, Index{2, 2})
	want := []Index{{0, 0}, {2, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Toggle() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Index{{0, 0}, {1, 1}}, sel); diff != "" {
		t.Errorf("Toggle() modified its input (-want +got):\n%s", diff)
	}
	assert.Empty(t, Toggle(Toggle(nil, Index{3, 3}), Index{3, 3}))
}

func TestAssembly_Inject(t *testing.T) {
	t.Parallel()

	a := NewAssembly("asm", pinCell(), 3, 3)
	a.Inject("guide", []Index{{1, 1}, {0, 0}})
	a.Inject("absorber", []Index{{0, 0}, {2, 2}})

	assert.Equal(t, "guide", a.CellAt(Index{1, 1}))
	assert.Equal(t, "absorber", a.CellAt(Index{0, 0}), "later injection takes the position")
	assert.Equal(t, "absorber", a.CellAt(Index{2, 2}))
	assert.Equal(t, "pin", a.CellAt(Index{2, 0}))
	assert.Equal(t, []Index{{1, 1}}, a.Injected["guide"])

	a.Inject("guide", []Index{{0, 0}, {2, 2}})
	_, ok := a.Injected["absorber"]
	assert.False(t, ok, "cells left with no positions are dropped")

	a.Inject("guide", nil)
	assert.Empty(t, a.Injected)
	require.NoError(t, a.Validate())
}

func TestAssembly_Layout(t *testing.T) {
	t.Parallel()

	a := NewAssembly("asm", pinCell(), 3, 2)
	a.Inject("guide", []Index{{0, 1}, {2, 0}})
	want := [][]string{
		{"guide", "pin", "pin"},
		{"pin", "pin", "guide"},
	}
	if diff := cmp.Diff(want, a.Layout()); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"pin", "guide"}, a.CellNames())
}

func TestAssembly_Bounds(t *testing.T) {
	t.Parallel()

	a := NewAssembly("asm", pinCell(), 17, 15)
	x, y := a.Bounds()
	assert.InDelta(t, -10.71, x[0], 1e-9)
	assert.InDelta(t, 10.71, x[1], 1e-9)
	assert.InDelta(t, -9.45, y[0], 1e-9)
	assert.InDelta(t, 9.45, y[1], 1e-9)
}

func TestAssembly_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Assembly)
	}{
		{"no name", func(a *Assembly) { a.Name = "" }},
		{"no main cell", func(a *Assembly) { a.MainCell = "" }},
		{"empty lattice", func(a *Assembly) { a.NumX = 0 }},
		{"zero pitch", func(a *Assembly) { a.PitchX = 0 }},
		{"main injected", func(a *Assembly) { a.Injected = map[string][]Index{"pin": {{0, 0}}} }},
		{"out of range", func(a *Assembly) { a.Injected = map[string][]Index{"guide": {{3, 0}}} }},
		{"double assignment", func(a *Assembly) {
			a.Injected = map[string][]Index{"guide": {{1, 1}}, "absorber": {{1, 1}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembly("asm", pinCell(), 3, 3)
			tt.mutate(&a)
			assert.ErrorIs(t, a.Validate(), ErrInvalid)
		})
	}
}
