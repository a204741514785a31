package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/reactordeck/internal/region"
)

func TestDefaultPreviewConfig(t *testing.T) {
	cfg := DefaultPreviewConfig()

	if cfg.Resolution == nil || *cfg.Resolution != 250 {
		t.Errorf("Expected Resolution 250, got %v", cfg.Resolution)
	}
	if cfg.Margin == nil || *cfg.Margin != 0.25 {
		t.Errorf("Expected Margin 0.25, got %v", cfg.Margin)
	}
	if cfg.Listen == nil || *cfg.Listen != ":8080" {
		t.Errorf("Expected Listen ':8080', got %v", cfg.Listen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	if got, want := cfg.RegionOptions(), region.DefaultOptions(); got != want {
		t.Errorf("RegionOptions() = %+v, want %+v", got, want)
	}
}

func TestEmptyPreviewConfig_Getters(t *testing.T) {
	cfg := EmptyPreviewConfig()

	if cfg.GetResolution() != 250 {
		t.Errorf("GetResolution() = %d, want 250", cfg.GetResolution())
	}
	if cfg.GetVisibleMargin() != 0.10 {
		t.Errorf("GetVisibleMargin() = %f, want 0.10", cfg.GetVisibleMargin())
	}
	if cfg.GetPlotSizeInches() != 5 {
		t.Errorf("GetPlotSizeInches() = %f, want 5", cfg.GetPlotSizeInches())
	}
	if cfg.GetRenderWorkers() != 4 {
		t.Errorf("GetRenderWorkers() = %d, want 4", cfg.GetRenderWorkers())
	}
	if cfg.GetDBPath() != "reactordeck.db" {
		t.Errorf("GetDBPath() = %q, want reactordeck.db", cfg.GetDBPath())
	}
	if cfg.GetEChartsAssetsHost() != "" {
		t.Errorf("GetEChartsAssetsHost() = %q, want empty", cfg.GetEChartsAssetsHost())
	}
	empty := ""
	cfg.Listen = &empty
	if cfg.GetListen() != ":8080" {
		t.Errorf("GetListen() with empty value = %q, want :8080", cfg.GetListen())
	}
}

func TestLoadPreviewConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "preview.json")

	testJSON := `{
  "resolution": 101,
  "visible_margin": 0.05,
  "render_workers": 8,
  "listen": "127.0.0.1:9090"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadPreviewConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetResolution() != 101 {
		t.Errorf("GetResolution() = %d, want 101", cfg.GetResolution())
	}
	if cfg.GetRenderWorkers() != 8 {
		t.Errorf("GetRenderWorkers() = %d, want 8", cfg.GetRenderWorkers())
	}
	if cfg.GetListen() != "127.0.0.1:9090" {
		t.Errorf("GetListen() = %q, want 127.0.0.1:9090", cfg.GetListen())
	}
	// Omitted fields fall back to defaults.
	if cfg.GetMargin() != 0.25 {
		t.Errorf("GetMargin() = %f, want default 0.25", cfg.GetMargin())
	}
	opts := cfg.RegionOptions()
	if opts.Resolution != 101 || opts.VisibleMargin != 0.05 {
		t.Errorf("RegionOptions() = %+v", opts)
	}
}

func TestLoadPreviewConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("preview.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "absent.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"low resolution", write("res.json", `{"resolution": 1}`), "resolution must be between 2 and 1000"},
		{"high resolution", write("reshigh.json", `{"resolution": 1001}`), "resolution must be between 2 and 1000"},
		{"negative margin", write("margin.json", `{"margin": -0.1}`), "margin must be non-negative"},
		{"zero workers", write("workers.json", `{"render_workers": 0}`), "render_workers"},
		{"empty db path", write("db.json", `{"db_path": ""}`), "db_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPreviewConfig(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPreviewConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "huge.json")
	data := make([]byte, 1024*1024+1)
	for i := range data {
		data[i] = ' '
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPreviewConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}
