package deck

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	t.Parallel()

	d := NewDocument("core")
	_, err := uuid.Parse(d.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Version)
	require.NotNil(t, d.Settings)
	assert.Equal(t, DefaultRunSettings(), *d.Settings)
	assert.NotEqual(t, d.ID, NewDocument("core").ID)
	assert.NoError(t, d.Validate())
}

func TestDocument_Clone(t *testing.T) {
	t.Parallel()

	d := sampleDocument()
	g, err := DeriveBounds("pin", d)
	require.NoError(t, err)
	d.Geometry = &g
	d.Tally = &Tally{Scores: []string{"flux"}}

	cp := d.Clone()
	if diff := cmp.Diff(d, cp); diff != "" {
		t.Fatalf("Clone() mismatch (-orig +clone):\n%s", diff)
	}

	cp.Cells["pin"].Radii[0] = 0.1
	cp.Materials["Fuel"].Constituents[0].Percent = 3
	cp.Assemblies["17x17"].Injected["guide"][0] = Index{X: 0, Y: 0}
	cp.Geometry.X.Type = Reflective
	cp.Tally.Scores[0] = "total"
	cp.Settings.Particles = 1
	delete(cp.Cells, "guide")

	assert.Equal(t, 0.39, d.Cells["pin"].Radii[0])
	assert.Equal(t, 4.5, d.Materials["Fuel"].Constituents[0].Percent)
	assert.Equal(t, Index{X: 1, Y: 1}, d.Assemblies["17x17"].Injected["guide"][0])
	assert.Equal(t, Vacuum, d.Geometry.X.Type)
	assert.Equal(t, "flux", d.Tally.Scores[0])
	assert.Equal(t, 500, d.Settings.Particles)
	assert.Contains(t, d.Cells, "guide")
}

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, sampleDocument().Validate())
	assert.Equal(t, []string{"17x17", "guide", "pin"}, sampleDocument().RootNames())
	assert.Equal(t, []string{"guide", "pin"}, sampleDocument().CellNames())

	t.Run("missing material", func(t *testing.T) {
		d := sampleDocument()
		delete(d.Materials, "Clad")
		assert.ErrorIs(t, d.Validate(), ErrNotFound)
	})
	t.Run("missing cell", func(t *testing.T) {
		d := sampleDocument()
		delete(d.Cells, "guide")
		assert.ErrorIs(t, d.Validate(), ErrNotFound)
	})
	t.Run("missing root", func(t *testing.T) {
		d := sampleDocument()
		g, err := DeriveBounds("pin", d)
		require.NoError(t, err)
		g.Root = "core"
		d.Geometry = &g
		assert.ErrorIs(t, d.Validate(), ErrNotFound)
	})
	t.Run("key mismatch", func(t *testing.T) {
		d := sampleDocument()
		c := d.Cells["pin"]
		c.Name = "other"
		d.Cells["pin"] = c
		assert.ErrorIs(t, d.Validate(), ErrInvalid)
	})
}
