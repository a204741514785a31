package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/reactordeck/internal/config"
	"github.com/banshee-data/reactordeck/internal/db"
	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/monitoring"
	"github.com/banshee-data/reactordeck/internal/region"
)

func init() {
	monitoring.SetLogger(nil)
}

func newTestStore(t *testing.T) (*db.DB, *db.DeckStore) {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "deckd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewDeckStore(database)
}

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, "", *configPath)
	assert.Equal(t, "", *listen, "empty listen defers to the config")
	assert.Equal(t, "", *dbPath)
	assert.Equal(t, "", *deckPath)
	assert.False(t, *showVersion)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.GetListen())
	assert.Equal(t, 250, cfg.GetResolution())

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestOpenDeckStartsEmpty(t *testing.T) {
	_, store := newTestStore(t)
	ctrl, err := openDeck(context.Background(), store, "")
	require.NoError(t, err)

	doc := ctrl.Snapshot()
	assert.Equal(t, "untitled", doc.Name)
	assert.Equal(t, 0, doc.Version)
	assert.NotEmpty(t, doc.ID)
}

func TestOpenDeckResumesLatest(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t)

	first, err := openDeck(ctx, store, "")
	require.NoError(t, err)
	_, err = first.PutMaterial(ctx, deck.Material{Name: "Water", Density: 0.74, Temperature: 580})
	require.NoError(t, err)

	resumed, err := openDeck(ctx, store, "")
	require.NoError(t, err)
	doc := resumed.Snapshot()
	assert.Equal(t, first.Snapshot().ID, doc.ID)
	assert.Equal(t, 1, doc.Version)
	assert.Contains(t, doc.Materials, "Water")
}

func TestOpenDeckFromFile(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t)

	doc := deck.NewDocument("from-file")
	doc.Materials["Fuel"] = deck.Material{Name: "Fuel", Density: 10.4, Temperature: 900}
	doc.Materials["Water"] = deck.Material{Name: "Water", Density: 0.74, Temperature: 580}
	doc.Cells["pin"] = deck.Cell{
		Name: "pin", Radii: region.Radii{0.4}, PitchX: 1.26, PitchY: 1.26, Height: 100,
		Materials: []string{"Fuel", "Water"},
	}
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, deck.WriteFile(path, doc))

	ctrl, err := openDeck(ctx, store, path)
	require.NoError(t, err)
	assert.Equal(t, 1, ctrl.Snapshot().Version)

	saved, err := store.Latest(ctx, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, saved.Cells, "pin")

	// Reloading the same file continues the history instead of clashing.
	again, err := openDeck(ctx, store, path)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Snapshot().Version)

	_, err = openDeck(ctx, store, filepath.Join(t.TempDir(), "deck.txt"))
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	database, store := newTestStore(t)
	ctrl, err := openDeck(context.Background(), store, "")
	require.NoError(t, err)

	h, err := newHandler(ctrl, store, database, config.DefaultPreviewConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ctrl.Snapshot().ID)

	req := httptest.NewRequest(http.MethodGet, "/debug/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
