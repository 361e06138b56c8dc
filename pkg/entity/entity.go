// Package entity defines the format-agnostic drawing vocabulary: entities,
// layers, geometry payloads, and display attributes.
//
// This package is the canonical intermediate representation between the model
// converter (pkg/convert) and the format encoders (pkg/encode). Encoders
// consume entities and layers; they never reach back into the source model.
//
// # Core Types
//
//   - [Entity]: one drawable primitive with a unique handle
//   - [Layer]: a named, styleable grouping entities reference
//   - [Geometry]: tagged union of per-type payloads ([Line], [Circle], ...)
//
// # BYLAYER Resolution
//
// Display attributes may hold the sentinel [ByLayer], meaning "inherit from
// the referenced layer". Resolution is an encoder concern: the model stores
// the sentinel verbatim and never substitutes layer defaults itself.
package entity

// Type identifies the kind of drawable primitive an entity represents.
type Type string

// Entity types.
const (
	TypeLine      Type = "LINE"
	TypePolyline  Type = "POLYLINE"
	TypeCircle    Type = "CIRCLE"
	TypeArc       Type = "ARC"
	TypeText      Type = "TEXT"
	TypeDimension Type = "DIMENSION"
	TypeBlock     Type = "BLOCK"
	TypeInsert    Type = "INSERT"
	TypeHatch     Type = "HATCH"
	TypeSpline    Type = "SPLINE"
)

// ByLayer is the sentinel for display attributes inherited from the layer.
const ByLayer = "BYLAYER"

// DefaultLayer is the layer entities fall back to when none is assigned.
// Every export carries at least this layer, mirroring CAD convention.
const DefaultLayer = "0"

// DefaultLineType is the continuous (solid) line pattern.
const DefaultLineType = "CONTINUOUS"

// Entity is one drawable primitive.
//
// Handle is unique within one export session (see [HandleSequence]). Layer
// must name a layer present in the export's layer table, or [DefaultLayer].
type Entity struct {
	Handle     string            `json:"handle" bson:"handle"`
	Type       Type              `json:"type" bson:"type"`
	Layer      string            `json:"layer" bson:"layer"`
	Color      string            `json:"color" bson:"color"`
	LineType   string            `json:"line_type" bson:"line_type"`
	LineWeight float64           `json:"line_weight" bson:"line_weight"`
	Geometry   Geometry          `json:"geometry" bson:"geometry"`
	Properties map[string]string `json:"properties,omitempty" bson:"properties,omitempty"`
}

// Layer is a named grouping entities reference for default display attributes.
// The layer table is built once per export; entities never mutate it.
type Layer struct {
	Name       string  `json:"name" bson:"name"`
	Color      string  `json:"color" bson:"color"`
	LineType   string  `json:"line_type" bson:"line_type"`
	LineWeight float64 `json:"line_weight" bson:"line_weight"`
	Visible    bool    `json:"visible" bson:"visible"`
	Locked     bool    `json:"locked" bson:"locked"`
	Printable  bool    `json:"printable" bson:"printable"`
}

// NewLayer creates a layer with conventional defaults: visible, unlocked,
// printable, continuous lines.
func NewLayer(name, color string) Layer {
	return Layer{
		Name:      name,
		Color:     color,
		LineType:  DefaultLineType,
		Visible:   true,
		Printable: true,
	}
}

// ResolveColor returns the effective color of e given its layer: the layer
// color when e carries the [ByLayer] sentinel, e's own color otherwise.
func ResolveColor(e Entity, layers map[string]Layer) string {
	if e.Color != ByLayer && e.Color != "" {
		return e.Color
	}
	if l, ok := layers[e.Layer]; ok {
		return l.Color
	}
	return ""
}

// LayerTable indexes layers by name for BYLAYER resolution.
func LayerTable(layers []Layer) map[string]Layer {
	table := make(map[string]Layer, len(layers))
	for _, l := range layers {
		table[l.Name] = l
	}
	return table
}
