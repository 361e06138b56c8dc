package convert

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
	"github.com/draftforge/draftforge/pkg/model"
)

func testModel() *model.Model {
	return &model.Model{
		Name: "test house",
		Components: map[string][]model.Component{
			model.CategoryStructure: {
				{ID: "w1", Name: "north wall", Category: model.CategoryStructure,
					Geometry: model.ComponentGeometry{Position: geom.Point{X: 0, Y: 0}, Width: 10, Depth: 0.5}},
				{ID: "c1", Name: "column", Category: model.CategoryStructure,
					Geometry: model.ComponentGeometry{Position: geom.Point{X: 5, Y: 5}, Radius: 0.5}},
			},
			model.CategoryGlazing: {
				{ID: "g1", Name: "window", Category: model.CategoryGlazing,
					Geometry: model.ComponentGeometry{Position: geom.Point{X: 2, Y: 0}, Width: 3, Height: 4}},
			},
		},
	}
}

func TestFromModelLayers(t *testing.T) {
	res, err := FromModel(testModel(), UnitIn, entity.NewCounterSequence())
	if err != nil {
		t.Fatal(err)
	}

	names := make(map[string]bool)
	for _, l := range res.Layers {
		names[l.Name] = true
	}
	for _, want := range []string{entity.DefaultLayer, LayerStructure, LayerGlazing} {
		if !names[want] {
			t.Errorf("missing layer %q, have %v", want, names)
		}
	}
	if len(res.Entities) != 3 {
		t.Errorf("entity count = %d, want 3", len(res.Entities))
	}
}

func TestFromModelHandlesUnique(t *testing.T) {
	res, err := FromModel(testModel(), UnitIn, entity.NewCounterSequence())
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	for _, e := range res.Entities {
		if seen[e.Handle] {
			t.Fatalf("duplicate handle %q", e.Handle)
		}
		seen[e.Handle] = true
	}
}

func TestFromModelUnknownCategoryWarns(t *testing.T) {
	m := &model.Model{
		Components: map[string][]model.Component{
			"antigravity": {{ID: "x1", Geometry: model.ComponentGeometry{Radius: 1}}},
		},
	}
	res, err := FromModel(m, UnitIn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Error("unknown category should produce a warning")
	}
	if res.Entities[0].Layer != entity.DefaultLayer {
		t.Errorf("unknown category layer = %q, want %q", res.Entities[0].Layer, entity.DefaultLayer)
	}
}

func TestFromModelUnmappedMaterialWarns(t *testing.T) {
	m := &model.Model{
		Components: map[string][]model.Component{
			model.CategoryStructure: {
				{ID: "w1", Material: "unobtainium", Geometry: model.ComponentGeometry{Width: 1, Depth: 1}},
			},
		},
	}
	res, err := FromModel(m, UnitIn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "unobtainium") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestFromModelDoesNotMutateInput(t *testing.T) {
	m := testModel()
	before, _ := json.Marshal(m)

	if _, err := FromModel(m, UnitMM, entity.NewCounterSequence()); err != nil {
		t.Fatal(err)
	}

	after, _ := json.Marshal(m)
	if string(before) != string(after) {
		t.Error("conversion mutated its input model")
	}
}

func TestUnitScalingAppliedOnce(t *testing.T) {
	drawings := []model.Drawing{{
		Title: "plan",
		Elements: []model.Element{
			{Kind: model.ElementLine, Start: geom.Point{X: 1, Y: 0}, End: geom.Point{X: 2, Y: 0}},
		},
	}}

	res, err := FromDrawings(drawings, UnitMM, entity.NewCounterSequence())
	if err != nil {
		t.Fatal(err)
	}

	line := res.Entities[0].Geometry.(entity.Line)
	if line.Start.X != 25.4 || line.End.X != 50.8 {
		t.Errorf("scaled line = %+v, want X 25.4..50.8", line)
	}
}

func TestScaleRoundTrip(t *testing.T) {
	const tol = 1e-12
	for unit := range ValidUnits {
		got := Scale(unit) * InverseScale(unit)
		if got < 1-tol || got > 1+tol {
			t.Errorf("Scale(%s)*InverseScale(%s) = %v, want 1", unit, unit, got)
		}
	}
}

func TestValidateUnits(t *testing.T) {
	for _, u := range []string{"mm", "cm", "m", "in", "ft"} {
		if err := ValidateUnits(u); err != nil {
			t.Errorf("ValidateUnits(%q) = %v", u, err)
		}
	}
	if err := ValidateUnits("furlong"); err == nil {
		t.Error("ValidateUnits should reject unknown units")
	}
}

func TestSanitizeLayerName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Floor Plan", "FLOOR_PLAN"},
		{"Section A-A", "SECTION_A_A"},
		{"détails", "D_TAILS"},
		{"", entity.DefaultLayer},
	}

	for _, tt := range tests {
		if got := SanitizeLayerName(tt.title); got != tt.want {
			t.Errorf("SanitizeLayerName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestFromDrawingsLayerPerDrawing(t *testing.T) {
	drawings := []model.Drawing{
		{Title: "Floor Plan", Elements: []model.Element{{Kind: model.ElementLine}}},
		{Title: "Roof Plan", Elements: []model.Element{{Kind: model.ElementCircle, Radius: 2}}},
	}

	res, err := FromDrawings(drawings, UnitIn, entity.NewCounterSequence())
	if err != nil {
		t.Fatal(err)
	}

	// "0" plus one layer per drawing.
	if len(res.Layers) != 3 {
		t.Fatalf("layer count = %d, want 3", len(res.Layers))
	}
	if res.Entities[0].Layer != "FLOOR_PLAN" || res.Entities[1].Layer != "ROOF_PLAN" {
		t.Errorf("entity layers = %q, %q", res.Entities[0].Layer, res.Entities[1].Layer)
	}
}

func TestFromDrawingsUnknownElementSkipped(t *testing.T) {
	drawings := []model.Drawing{{
		Title: "plan",
		Elements: []model.Element{
			{Kind: "hologram"},
			{Kind: model.ElementText, Text: "note", Height: 0.25},
		},
	}}

	res, err := FromDrawings(drawings, UnitIn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entities) != 1 {
		t.Errorf("entity count = %d, want 1 (unknown kind skipped)", len(res.Entities))
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestFromDrawingsTitleBlock(t *testing.T) {
	drawings := []model.Drawing{{
		Title: "plan",
		TitleBlock: &model.TitleBlock{
			ProjectName: "Residence",
			Company:     "Acme Architects",
			Author:      "J. Doe",
		},
	}}

	res, err := FromDrawings(drawings, UnitIn, entity.NewCounterSequence())
	if err != nil {
		t.Fatal(err)
	}

	var border, texts int
	for _, e := range res.Entities {
		if e.Layer != LayerTitleBlock {
			continue
		}
		switch e.Type {
		case entity.TypePolyline:
			border++
		case entity.TypeText:
			texts++
		}
	}
	if border != 1 {
		t.Errorf("border polylines = %d, want 1", border)
	}
	// Project name + company + author; empty optionals omitted without error.
	if texts != 3 {
		t.Errorf("text entities = %d, want 3", texts)
	}
}

func TestCategoryLayerAndColor(t *testing.T) {
	if got := CategoryLayer("structure"); got != LayerStructure {
		t.Errorf("CategoryLayer(structure) = %q", got)
	}
	if got := CategoryLayer("STRUCTURE"); got != LayerStructure {
		t.Errorf("CategoryLayer should be case-insensitive, got %q", got)
	}
	if got := CategoryLayer("mystery"); got != entity.DefaultLayer {
		t.Errorf("CategoryLayer(mystery) = %q", got)
	}
	if got := LayerColor("NO_SUCH_LAYER"); got != DefaultLayerColor {
		t.Errorf("LayerColor fallback = %q", got)
	}
}
