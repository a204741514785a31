package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/region"
	"github.com/banshee-data/reactordeck/internal/timeutil"
)

const testDocID = "0c8f1a52-6f3e-4a59-9b7d-5d2f4e1c0a11"

var testEpoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func testDoc(version int) deck.Document {
	d := deck.NewDocument("pwr")
	d.ID = testDocID
	d.Version = version
	d.UpdatedAt = testEpoch.Add(time.Duration(version) * time.Minute)
	d.Materials["Fuel"] = deck.Material{Name: "Fuel", Density: 10.4, Temperature: 900}
	d.Materials["Water"] = deck.Material{Name: "Water", Density: 0.74, Temperature: 580}
	d.Cells["pin"] = deck.Cell{
		Name:      "pin",
		Radii:     region.Radii{0.41},
		PitchX:    1.26,
		PitchY:    1.26,
		Height:    100,
		Materials: []string{"Fuel", "Water"},
	}
	return d
}

func TestDeckStore_SaveAndLoad(t *testing.T) {
	store := NewDeckStore(newTestDB(t))
	ctx := context.Background()

	for v := 1; v <= 3; v++ {
		require.NoError(t, store.SaveVersion(ctx, testDoc(v)))
	}

	latest, err := store.Latest(ctx, testDocID)
	require.NoError(t, err)
	if diff := cmp.Diff(testDoc(3), latest); diff != "" {
		t.Errorf("Latest() mismatch (-want +got):\n%s", diff)
	}

	second, err := store.Get(ctx, testDocID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	_, err = store.Get(ctx, testDocID, 9)
	assert.ErrorIs(t, err, deck.ErrNotFound)

	versions, err := store.ListVersions(ctx, testDocID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version, "newest first")
	assert.Equal(t, testEpoch.Add(3*time.Minute), versions[0].CreatedAt)
	assert.Positive(t, versions[0].Bytes)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, testDocID, docs[0].ID)
	assert.Equal(t, "pwr", docs[0].Name)
	assert.Equal(t, 3, docs[0].LatestVersion)
	assert.Equal(t, testEpoch.Add(time.Minute), docs[0].CreatedAt)
}

func TestDeckStore_DuplicateVersion(t *testing.T) {
	store := NewDeckStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, testDoc(1)))
	assert.Error(t, store.SaveVersion(ctx, testDoc(1)))

	versions, err := store.ListVersions(ctx, testDocID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestDeckStore_Empty(t *testing.T) {
	store := NewDeckStore(newTestDB(t))
	ctx := context.Background()

	_, err := store.Latest(ctx, testDocID)
	assert.True(t, errors.Is(err, ErrNoVersions))
	_, err = store.LatestDocument(ctx)
	assert.True(t, errors.Is(err, ErrNoVersions))

	versions, err := store.ListVersions(ctx, testDocID)
	require.NoError(t, err)
	assert.Empty(t, versions)
	assert.NotNil(t, versions, "empty lists encode as []")

	assert.Error(t, store.SaveVersion(ctx, deck.Document{}), "documents need an id")
}

func TestDeckStore_LatestDocumentAndDelete(t *testing.T) {
	store := NewDeckStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, testDoc(1)))
	other := testDoc(4)
	other.ID = "9a3b7c55-2222-4f00-8abc-000000000002"
	other.Name = "bwr"
	require.NoError(t, store.SaveVersion(ctx, other))

	latest, err := store.LatestDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bwr", latest.Name)

	require.NoError(t, store.DeleteDocument(ctx, other.ID))
	_, err = store.Latest(ctx, other.ID)
	assert.ErrorIs(t, err, ErrNoVersions, "versions cascade with the document")
	assert.ErrorIs(t, store.DeleteDocument(ctx, other.ID), deck.ErrNotFound)

	latest, err = store.LatestDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, testDocID, latest.ID)
}

func TestDeckStore_WithController(t *testing.T) {
	store := NewDeckStore(newTestDB(t))
	ctx := context.Background()
	clock := timeutil.NewMockClock(testEpoch)

	c := deck.NewController(testDoc(0), store, clock)
	_, err := c.PutMaterial(ctx, deck.Material{Name: "Clad", Density: 6.5})
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = c.PutCell(ctx, deck.Cell{
		Name:      "clad-pin",
		Radii:     region.Radii{0.41, 0.47},
		PitchX:    1.26,
		PitchY:    1.26,
		Height:    100,
		Materials: []string{"Fuel", "Clad", "Water"},
	})
	require.NoError(t, err)

	saved, err := store.Latest(ctx, testDocID)
	require.NoError(t, err)
	if diff := cmp.Diff(c.Snapshot(), saved); diff != "" {
		t.Errorf("stored deck differs from controller (-controller +stored):\n%s", diff)
	}
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, testEpoch.Add(time.Second), saved.UpdatedAt)
}
