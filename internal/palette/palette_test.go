package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "rgb(255, 0, 0)", want: "rgb(255, 0, 0)"},
		{in: "rgb(25,255,0)", want: "rgb(25, 255, 0)"},
		{in: "  RGB( 0, 22, 255 ) ", want: "rgb(0, 22, 255)"},
		{in: "#ff0000", want: "rgb(255, 0, 0)"},
		{in: "#00ff80", want: "rgb(0, 255, 128)"},
		{in: "rgb(256, 0, 0)", wantErr: true},
		{in: "rgb(1, 2)", wantErr: true},
		{in: "red", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			c, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(c))
		})
	}
}

func TestParseAll_ReportsEveryFailure(t *testing.T) {
	_, err := ParseAll([]string{"rgb(1, 2, 3)", "nope", "#12"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), "#12")

	cs, err := ParseAll([]string{"rgb(1, 2, 3)", "#000000"})
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestGenerate(t *testing.T) {
	assert.Nil(t, Generate(0))

	got := Generate(5)
	require.Len(t, got, 5)
	seen := map[string]bool{}
	for _, c := range got {
		_, err := Parse(c)
		require.NoError(t, err, "generated colour %q must parse", c)
		seen[c] = true
	}
	assert.Len(t, seen, 5, "generated colours should be distinct")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, Defaults(), r.Options())

	n, err := r.Add("Gap", "#808080")
	require.NoError(t, err)
	assert.Equal(t, Named{Label: "Gap", Value: "rgb(128, 128, 128)"}, n)
	assert.Len(t, r.Options(), 4)

	// Replacing keeps the position.
	_, err = r.Add("Fuel", "rgb(200, 0, 0)")
	require.NoError(t, err)
	v, ok := r.Lookup("Fuel")
	assert.True(t, ok)
	assert.Equal(t, "rgb(200, 0, 0)", v)
	assert.Equal(t, "Fuel", r.Options()[0].Label)

	_, err = r.Add("  ", "#000000")
	assert.Error(t, err)
	_, err = r.Add("Bad", "not-a-colour")
	assert.Error(t, err)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_OptionsIsACopy(t *testing.T) {
	r := NewRegistry()
	opts := r.Options()
	opts[0].Label = "mutated"
	assert.Equal(t, "Fuel", r.Options()[0].Label)
}
