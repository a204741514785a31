package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpatialMesh(t *testing.T) {
	t.Parallel()

	g, err := DeriveBounds("17x17", sampleDocument())
	require.NoError(t, err)

	m := NewSpatialMesh("grid", g, 3, 3, 1)
	require.NoError(t, m.Validate())
	assert.InDelta(t, 3.78, m.Width, 1e-12)
	assert.InDelta(t, 3.78, m.Depth, 1e-12)
	assert.InDelta(t, 200, m.Height, 1e-12)
	assert.Equal(t, 9, m.Bins())
	assert.Nil(t, m.EnergyEdges())
}

func TestMesh_EnergyEdges(t *testing.T) {
	t.Parallel()

	lin := NewEnergyFilter("lin", 4, 0, 20e6, LinearSpacing)
	require.NoError(t, lin.Validate())
	assert.Equal(t, []float64{0, 5e6, 10e6, 15e6, 20e6}, lin.EnergyEdges())
	assert.Equal(t, 4, lin.Bins())

	log := NewEnergyFilter("log", 3, 1e-2, 1e7, LogSpacing)
	require.NoError(t, log.Validate())
	edges := log.EnergyEdges()
	require.Len(t, edges, 4)
	want := []float64{1e-2, 1e1, 1e4, 1e7}
	for i := range want {
		assert.InEpsilon(t, want[i], edges[i], 1e-9)
	}
}

func TestMesh_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Mesh
	}{
		{"no name", Mesh{Kind: SpatialMesh, XRes: 1, YRes: 1, ZRes: 1, Width: 1, Depth: 1, Height: 1}},
		{"unknown kind", Mesh{Name: "m", Kind: "angular"}},
		{"zero resolution", Mesh{Name: "m", Kind: SpatialMesh, XRes: 0, YRes: 1, ZRes: 1, Width: 1, Depth: 1, Height: 1}},
		{"zero extent", Mesh{Name: "m", Kind: SpatialMesh, XRes: 1, YRes: 1, ZRes: 1}},
		{"no groups", NewEnergyFilter("e", 0, 0, 1, LinearSpacing)},
		{"inverted range", NewEnergyFilter("e", 2, 5, 1, LinearSpacing)},
		{"log from zero", NewEnergyFilter("e", 2, 0, 1, LogSpacing)},
		{"unknown spacing", NewEnergyFilter("e", 2, 0, 1, "cubic")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.m.Validate(), ErrInvalid)
		})
	}
}
