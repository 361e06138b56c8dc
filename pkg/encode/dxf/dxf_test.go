package dxf

import (
	"context"
	"strings"
	"testing"

	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
)

func encodeString(t *testing.T, entities []entity.Entity, layers []entity.Layer, opts encode.Options) string {
	t.Helper()
	art, err := New().Encode(context.Background(), entities, layers, opts)
	if err != nil {
		t.Fatal(err)
	}
	return string(art.Data)
}

func TestSectionsInOrder(t *testing.T) {
	out := encodeString(t, nil, nil, encode.Options{Units: "mm"})

	sections := []string{"HEADER", "TABLES", "BLOCKS", "ENTITIES", "OBJECTS"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, "2\n"+s+"\n")
		if idx < 0 {
			t.Fatalf("missing section %s", s)
		}
		if idx < last {
			t.Errorf("section %s out of order", s)
		}
		last = idx
	}
}

func TestTerminalEOF(t *testing.T) {
	out := encodeString(t, nil, nil, encode.Options{Units: "in"})

	if !strings.HasSuffix(out, "0\nEOF\n") {
		t.Errorf("output should end with 0\\nEOF, got %q", out[len(out)-20:])
	}
	if strings.Count(out, "\nEOF\n")+boolToInt(strings.HasPrefix(out, "EOF\n")) != 1 {
		t.Errorf("want exactly one EOF marker")
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestPrecisionFormatting(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine, Layer: "0",
			Geometry: entity.Line{Start: geom.Point{X: 1.23456789}, End: geom.Point{X: 2}}},
	}

	out := encodeString(t, entities, nil, encode.Options{Units: "in", Precision: 2})
	if !strings.Contains(out, "10\n1.23\n") {
		t.Errorf("coordinates should use 2 decimals, got:\n%s", out)
	}

	out = encodeString(t, entities, nil, encode.Options{Units: "in", Precision: 4})
	if !strings.Contains(out, "10\n1.2346\n") {
		t.Error("coordinates should use 4 decimals (rounded)")
	}

	// Zero is explicit, not "unset": whole-number coordinates.
	out = encodeString(t, entities, nil, encode.Options{Units: "in", Precision: 0})
	if !strings.Contains(out, "10\n1\n") {
		t.Errorf("precision 0 should round to whole numbers, got:\n%s", out)
	}

	// Negative falls back to the default.
	out = encodeString(t, entities, nil, encode.Options{Units: "in", Precision: -1})
	if !strings.Contains(out, "10\n1.234568\n") {
		t.Error("negative precision should fall back to 6 decimals")
	}
}

func TestLayerTable(t *testing.T) {
	layers := []entity.Layer{
		entity.NewLayer("0", "#ffffff"),
		entity.NewLayer("STRUCTURE", "#ff0000"),
	}

	out := encodeString(t, nil, layers, encode.Options{Units: "in"})

	if !strings.Contains(out, "0\nLAYER\n2\nSTRUCTURE\n") {
		t.Error("missing STRUCTURE layer record")
	}
	if !strings.Contains(out, "62\n1\n") {
		t.Error("STRUCTURE layer should carry red color index 1")
	}
	if !strings.Contains(out, "6\nCONTINUOUS\n") {
		t.Error("layer should carry its line type")
	}
}

func TestEntityTemplates(t *testing.T) {
	layers := []entity.Layer{entity.NewLayer("0", "#ffffff")}
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine, Layer: "0", Geometry: entity.Line{End: geom.Point{X: 1}}},
		{Handle: "2", Type: entity.TypeCircle, Layer: "0", Geometry: entity.Circle{Radius: 3}},
		{Handle: "3", Type: entity.TypeArc, Layer: "0", Geometry: entity.Arc{Radius: 2, StartAngle: 0, EndAngle: 90}},
		{Handle: "4", Type: entity.TypeText, Layer: "0", Geometry: entity.Text{Value: "hello", Height: 0.25}},
		{Handle: "5", Type: entity.TypePolyline, Layer: "0",
			Geometry: entity.Polyline{Points: []geom.Point{{X: 0}, {X: 1}, {X: 1, Y: 1}}, Closed: true}},
		{Handle: "6", Type: entity.TypeDimension, Layer: "0",
			Geometry: entity.Dimension{End: geom.Point{X: 5}, Value: "5.00"}},
	}

	out := encodeString(t, entities, layers, encode.Options{Units: "in"})

	for _, record := range []string{"LINE", "CIRCLE", "ARC", "TEXT", "LWPOLYLINE", "DIMENSION"} {
		if !strings.Contains(out, "0\n"+record+"\n") {
			t.Errorf("missing %s record", record)
		}
	}
	if !strings.Contains(out, "90\n3\n") {
		t.Error("polyline should carry vertex count 3")
	}
	if !strings.Contains(out, "1\nhello\n") {
		t.Error("text value missing")
	}
}

func TestByLayerColorResolution(t *testing.T) {
	layers := []entity.Layer{entity.NewLayer("HVAC", "#00ff00")}
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine, Layer: "HVAC", Color: entity.ByLayer,
			Geometry: entity.Line{End: geom.Point{X: 1}}},
	}

	out := encodeString(t, entities, layers, encode.Options{Units: "in"})

	// Green resolves to ACI 3 via the layer, not the default 7.
	if !strings.Contains(out, "0\nLINE\n5\n1\n8\nHVAC\n62\n3\n") {
		t.Errorf("BYLAYER should resolve to the layer color:\n%s", out)
	}
}

func TestUnsupportedTypeSkippedWithWarning(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeSpline, Layer: "0"}, // no geometry payload
		{Handle: "2", Type: entity.TypeLine, Layer: "0", Geometry: entity.Line{}},
	}

	art, err := New().Encode(context.Background(), entities, nil, encode.Options{Units: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Warnings) != 1 {
		t.Errorf("warnings = %v, want one", art.Warnings)
	}
	if strings.Contains(string(art.Data), "SPLINE") {
		t.Error("skipped entity should not appear in output")
	}
}
