package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/draftforge/draftforge/pkg/config"
	"github.com/draftforge/draftforge/pkg/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSourceModel(t *testing.T) {
	path := writeTemp(t, "house.json", `{"name": "house", "components": {}}`)

	src, err := readSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.model == nil || src.drawings != nil {
		t.Errorf("object input should decode as a model: %+v", src)
	}
	if src.model.Name != "house" {
		t.Errorf("model name = %q", src.model.Name)
	}
}

func TestReadSourceDrawings(t *testing.T) {
	path := writeTemp(t, "plans.json", `[{"title": "Floor Plan", "elements": []}]`)

	src, err := readSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.drawings == nil || src.model != nil {
		t.Errorf("array input should decode as drawings: %+v", src)
	}
	if len(src.drawings) != 1 || src.drawings[0].Title != "Floor Plan" {
		t.Errorf("drawings = %+v", src.drawings)
	}
}

func TestReadSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"empty file", "", errors.ErrCodeInvalidModel},
		{"broken json", "{nope", errors.ErrCodeInvalidModel},
		{"broken array", "[{]", errors.ErrCodeInvalidModel},
	}

	for _, tt := range tests {
		path := writeTemp(t, "bad.json", tt.content)
		_, err := readSource(path)
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want %s", tt.name, err, tt.code)
		}
	}

	_, err := readSource(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file: error = %v, want INVALID_PATH", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"house.json", "dxf", "house.dxf"},
		{"plans/site.json", "dwg", "plans/site.dwg"},
		{"model", "svg", "model.svg"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Units = "mm"
	cfg.Export.Author = "Drafting Dept"
	cfg.Export.LayerColors = map[string]string{"HVAC": "#00ff00"}

	opts := &exportOpts{precision: 2}
	applyConfigDefaults(opts, cfg)

	if opts.units != "mm" || opts.author != "Drafting Dept" {
		t.Errorf("config defaults not applied: %+v", opts)
	}
	if opts.precision != 2 {
		t.Errorf("explicit precision should win, got %d", opts.precision)
	}

	// -1 is the flag sentinel for "unset"; 0 is an explicit precision.
	opts = &exportOpts{precision: -1}
	applyConfigDefaults(opts, cfg)
	if opts.precision != cfg.Export.Precision {
		t.Errorf("unset precision should take the config value, got %d", opts.precision)
	}
	opts = &exportOpts{precision: 0}
	applyConfigDefaults(opts, cfg)
	if opts.precision != 0 {
		t.Errorf("explicit zero precision should survive, got %d", opts.precision)
	}
	if opts.layerColors["HVAC"] != "#00ff00" {
		t.Errorf("layer colors not applied: %v", opts.layerColors)
	}

	// Explicit flags are never overwritten.
	opts = &exportOpts{units: "ft", layerColors: map[string]string{}}
	applyConfigDefaults(opts, cfg)
	if opts.units != "ft" {
		t.Errorf("explicit units should win, got %q", opts.units)
	}
	if len(opts.layerColors) != 0 {
		t.Errorf("explicit layer colors should win, got %v", opts.layerColors)
	}
}

func TestRunExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plans.json")
	content := `[{"title": "Plan", "elements": [{"kind": "line", "end": {"x": 10, "y": 8}}]}]`
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "draftforge.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nenabled = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "plans.dxf")
	ctx := withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
	opts := &exportOpts{format: "dxf", output: output, precision: -1, configPath: cfgPath}

	if err := runExport(ctx, input, opts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasSuffix(out, "0\nEOF\n") {
		t.Error("output file should end with the EOF marker")
	}
	if !strings.Contains(out, "2\nPLAN\n") {
		t.Error("drawing layer missing from output")
	}
}

func TestBuildCacheDisabled(t *testing.T) {
	cfg := config.Default()
	logger := newLogger(io.Discard, log.InfoLevel)

	c := buildCache(&exportOpts{noCache: true}, cfg, logger)
	if _, hit, err := c.Get(context.Background(), "k"); hit || err != nil {
		t.Errorf("null cache Get = (%v, %v), want miss without error", hit, err)
	}
}
