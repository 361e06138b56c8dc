package stub

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
)

func TestAllFormatsRegistered(t *testing.T) {
	want := map[string]bool{
		"step": true, "iges": true, "ifc": true, "obj": true,
		"stl": true, "gltf": true, "pdf": true, "svg": true,
	}

	for _, e := range All() {
		if !want[e.Format()] {
			t.Errorf("unexpected format %q", e.Format())
		}
		delete(want, e.Format())
	}
	if len(want) != 0 {
		t.Errorf("missing stub encoders: %v", want)
	}
}

func TestStructuralValidity(t *testing.T) {
	tests := []struct {
		encoder        encode.Encoder
		header, footer string
	}{
		{STEP(), "ISO-10303-21;", "END-ISO-10303-21;\n"},
		{IFC(), "ISO-10303-21;", "END-ISO-10303-21;\n"},
		{STL(), "solid draftforge", "endsolid draftforge\n"},
		{PDF(), "%PDF-1.4", "%%EOF\n"},
		{SVG(), "<svg", "</svg>\n"},
	}

	for _, tt := range tests {
		art, err := tt.encoder.Encode(context.Background(), nil, nil, encode.Options{})
		if err != nil {
			t.Fatalf("%s: %v", tt.encoder.Format(), err)
		}
		out := string(art.Data)
		if !strings.HasPrefix(out, tt.header) {
			t.Errorf("%s: missing header %q", tt.encoder.Format(), tt.header)
		}
		if !strings.HasSuffix(out, tt.footer) {
			t.Errorf("%s: missing footer %q", tt.encoder.Format(), tt.footer)
		}
	}
}

func TestGLTFIsValidJSON(t *testing.T) {
	art, err := GLTF().Encode(context.Background(), nil, nil, encode.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(art.Data, &doc); err != nil {
		t.Fatalf("glTF output is not valid JSON: %v", err)
	}
	asset, ok := doc["asset"].(map[string]any)
	if !ok || asset["version"] != "2.0" {
		t.Errorf("asset.version = %v, want 2.0", doc["asset"])
	}
}

func TestOBJEmitsLineGeometry(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine,
			Geometry: entity.Line{Start: geom.Point{X: 1, Y: 2}, End: geom.Point{X: 3, Y: 4}}},
	}

	art, err := OBJ().Encode(context.Background(), entities, nil, encode.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := string(art.Data)
	if !strings.Contains(out, "v 1 2 0\n") || !strings.Contains(out, "l 1 2\n") {
		t.Errorf("OBJ should emit v/l records:\n%s", out)
	}
}

func TestSVGEscapesText(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeText,
			Geometry: entity.Text{Value: "a < b & c", Height: 1}},
	}

	art, err := SVG().Encode(context.Background(), entities, nil, encode.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(art.Data), "a &lt; b &amp; c") {
		t.Errorf("text not escaped:\n%s", art.Data)
	}
}

func TestStubsIgnoreMissingOptionalData(t *testing.T) {
	// No layers, no author, no entities: every stub must still succeed.
	for _, e := range All() {
		art, err := e.Encode(context.Background(), nil, nil, encode.Options{})
		if err != nil {
			t.Errorf("%s: error on empty input: %v", e.Format(), err)
		}
		if art == nil || len(art.Data) == 0 {
			t.Errorf("%s: empty artifact", e.Format())
		}
	}
}
