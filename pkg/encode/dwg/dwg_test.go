package dwg

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
}

func testEncoder() *Encoder {
	return &Encoder{Clock: fixedClock}
}

func testLayers() []entity.Layer {
	return []entity.Layer{
		entity.NewLayer("0", "#ffffff"),
		entity.NewLayer("STRUCTURE", "#ff0000"),
	}
}

func TestEncodeHeader(t *testing.T) {
	art, err := testEncoder().Encode(context.Background(), nil, nil, encode.Options{
		Units:     "mm",
		Precision: 4,
		Author:    "draftforge",
	})
	if err != nil {
		t.Fatal(err)
	}
	data := art.Data

	if string(data[:6]) != DefaultVersion {
		t.Errorf("signature = %q, want %q", data[:6], DefaultVersion)
	}
	for i := 6; i < 12; i++ {
		if data[i] != 0 {
			t.Errorf("reserved byte %d = %#x, want 0", i, data[i])
		}
	}
	if got := int32(binary.LittleEndian.Uint32(data[12:])); got != Magic {
		t.Errorf("magic = %#x, want %#x", got, Magic)
	}
	if got := int32(binary.LittleEndian.Uint32(data[16:])); got != HeaderVersion {
		t.Errorf("header version = %d, want %d", got, HeaderVersion)
	}
	if got := int16(binary.LittleEndian.Uint16(data[20:])); got != 4 { // mm units code
		t.Errorf("units code = %d, want 4", got)
	}
}

func TestEncodeEndsWithEOFMarker(t *testing.T) {
	art, err := testEncoder().Encode(context.Background(), nil, testLayers(), encode.Options{Units: "in"})
	if err != nil {
		t.Fatal(err)
	}
	data := art.Data
	if len(data) < 2 {
		t.Fatal("output too short")
	}
	if got := binary.LittleEndian.Uint16(data[len(data)-2:]); got != 0 {
		t.Errorf("EOF marker = %#x, want 0x0000", got)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine, Layer: "STRUCTURE", Color: entity.ByLayer,
			Geometry: entity.Line{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}}},
	}
	opts := encode.Options{Units: "in", Author: "a"}

	a, err := testEncoder().Encode(context.Background(), entities, testLayers(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testEncoder().Encode(context.Background(), entities, testLayers(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Data) != string(b.Data) {
		t.Error("same input with fixed clock should produce identical bytes")
	}
}

func TestEncodeSupportedEntities(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypeLine, Layer: "0",
			Geometry: entity.Line{End: geom.Point{X: 1}}},
		{Handle: "2", Type: entity.TypeCircle, Layer: "0",
			Geometry: entity.Circle{Center: geom.Point{X: 2}, Radius: 1}},
		{Handle: "3", Type: entity.TypeText, Layer: "0",
			Geometry: entity.Text{Value: "note", Height: 0.25}},
	}

	art, err := testEncoder().Encode(context.Background(), entities, testLayers(), encode.Options{Units: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", art.Warnings)
	}
	if len(art.Data) == 0 {
		t.Error("empty artifact")
	}
}

func TestEncodeSkipsUnsupportedTypes(t *testing.T) {
	entities := []entity.Entity{
		{Handle: "1", Type: entity.TypePolyline, Layer: "0",
			Geometry: entity.Polyline{Points: []geom.Point{{X: 0}, {X: 1}}}},
		{Handle: "2", Type: entity.TypeLine, Layer: "0",
			Geometry: entity.Line{End: geom.Point{X: 1}}},
	}

	art, err := testEncoder().Encode(context.Background(), entities, testLayers(), encode.Options{Units: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", art.Warnings)
	}
	if !strings.Contains(art.Warnings[0], "POLYLINE") {
		t.Errorf("warning should name the skipped type: %q", art.Warnings[0])
	}
}

func TestLayerRecordColorIndex(t *testing.T) {
	layers := []entity.Layer{entity.NewLayer("STRUCTURE", "#ff0000")}

	art, err := testEncoder().Encode(context.Background(), nil, layers, encode.Options{Units: "in"})
	if err != nil {
		t.Fatal(err)
	}
	data := art.Data

	// Locate the layer record after the fixed+variable header: signature(6),
	// reserved(6), magic(4), hver(4), units(2), precision(8) = 30, then
	// author string (2+0) and timestamp (8) = 40 with an empty author.
	off := 40
	if got := binary.LittleEndian.Uint16(data[off:]); got != 2 {
		t.Fatalf("layer tag = %d, want 2", got)
	}
	off += 2
	nameLen := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	if string(data[off:off+nameLen]) != "STRUCTURE" {
		t.Errorf("layer name = %q", data[off:off+nameLen])
	}
	off += nameLen
	if got := int16(binary.LittleEndian.Uint16(data[off:])); got != int16(entity.ColorRed) {
		t.Errorf("layer color index = %d, want %d", got, entity.ColorRed)
	}
}

func TestFormatKey(t *testing.T) {
	if New().Format() != "dwg" {
		t.Errorf("Format() = %q, want dwg", New().Format())
	}
}
