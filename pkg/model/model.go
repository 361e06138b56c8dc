// Package model defines the input types consumed by the export engine: CAD
// models grouped by component category, and 2D technical drawings.
//
// These are serialization types (JSON for files and API requests, BSON for
// the export history store). The converter in pkg/convert turns them into
// the entity/layer representation; nothing downstream of the converter sees
// these types.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/draftforge/draftforge/pkg/geom"
)

// Component categories. Categories determine the target layer and its color
// during conversion; unknown categories fall back to the default layer color.
const (
	CategoryStructure  = "structure"
	CategoryGlazing    = "glazing"
	CategoryFoundation = "foundation"
	CategoryElectrical = "electrical"
	CategoryPlumbing   = "plumbing"
	CategoryHVAC       = "hvac"
	CategoryFinish     = "finish"
)

// Model is a 3D construction model: components grouped by category plus
// shared dimension and material tables.
type Model struct {
	Name       string                 `json:"name" bson:"name"`
	Components map[string][]Component `json:"components" bson:"components"`
	Dimensions Dimensions             `json:"dimensions" bson:"dimensions"`
	Materials  []Material             `json:"materials,omitempty" bson:"materials,omitempty"`
}

// Component is one physical element of the model (a wall, a window, a duct).
type Component struct {
	ID       string            `json:"id" bson:"id"`
	Name     string            `json:"name" bson:"name"`
	Category string            `json:"category" bson:"category"`
	Material string            `json:"material,omitempty" bson:"material,omitempty"`
	Geometry ComponentGeometry `json:"geometry" bson:"geometry"`
}

// ComponentGeometry is the coarse placement/extent of a component. Radius is
// set for circular components (columns, round ducts); Width/Height/Depth for
// rectangular ones.
type ComponentGeometry struct {
	Position geom.Point `json:"position" bson:"position"`
	Width    float64    `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64    `json:"height,omitempty" bson:"height,omitempty"`
	Depth    float64    `json:"depth,omitempty" bson:"depth,omitempty"`
	Radius   float64    `json:"radius,omitempty" bson:"radius,omitempty"`
}

// Dimensions is the overall model envelope.
type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Depth  float64 `json:"depth" bson:"depth"`
}

// Material describes a construction material referenced by components.
type Material struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

// Drawing is one 2D technical drawing: a titled sheet of drawable elements
// with an optional title block.
type Drawing struct {
	ID         string      `json:"id" bson:"id"`
	Title      string      `json:"title" bson:"title"`
	Scale      string      `json:"scale,omitempty" bson:"scale,omitempty"`
	Elements   []Element   `json:"elements" bson:"elements"`
	TitleBlock *TitleBlock `json:"title_block,omitempty" bson:"title_block,omitempty"`
}

// Element kinds accepted in drawings.
const (
	ElementLine      = "line"
	ElementCircle    = "circle"
	ElementArc       = "arc"
	ElementText      = "text"
	ElementPolyline  = "polyline"
	ElementDimension = "dimension"
)

// Element is one drawable item of a drawing. Fields are populated per Kind:
// lines use Start/End, circles and arcs use Center/Radius, text uses
// Position/Text/Height, polylines use Vertices/Closed, dimensions use
// Start/End/Value.
type Element struct {
	Kind       string       `json:"kind" bson:"kind"`
	Start      geom.Point   `json:"start,omitempty" bson:"start,omitempty"`
	End        geom.Point   `json:"end,omitempty" bson:"end,omitempty"`
	Center     geom.Point   `json:"center,omitempty" bson:"center,omitempty"`
	Position   geom.Point   `json:"position,omitempty" bson:"position,omitempty"`
	Radius     float64      `json:"radius,omitempty" bson:"radius,omitempty"`
	StartAngle float64      `json:"start_angle,omitempty" bson:"start_angle,omitempty"`
	EndAngle   float64      `json:"end_angle,omitempty" bson:"end_angle,omitempty"`
	Text       string       `json:"text,omitempty" bson:"text,omitempty"`
	Height     float64      `json:"height,omitempty" bson:"height,omitempty"`
	Vertices   []geom.Point `json:"vertices,omitempty" bson:"vertices,omitempty"`
	Closed     bool         `json:"closed,omitempty" bson:"closed,omitempty"`
	Value      string       `json:"value,omitempty" bson:"value,omitempty"`
	Color      string       `json:"color,omitempty" bson:"color,omitempty"`
}

// TitleBlock carries the sheet metadata drawn into the title block frame.
type TitleBlock struct {
	ProjectName   string `json:"project_name" bson:"project_name"`
	DrawingNumber string `json:"drawing_number,omitempty" bson:"drawing_number,omitempty"`
	Company       string `json:"company,omitempty" bson:"company,omitempty"`
	Author        string `json:"author,omitempty" bson:"author,omitempty"`
	Date          string `json:"date,omitempty" bson:"date,omitempty"`
	Revision      string `json:"revision,omitempty" bson:"revision,omitempty"`
}

// Hash returns the SHA-256 content hash of the model's canonical JSON form,
// used as the cache key component for exported artifacts.
func (m *Model) Hash() string {
	data, _ := json.Marshal(m)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashDrawings returns the content hash of a drawing set, analogous to
// [Model.Hash].
func HashDrawings(drawings []Drawing) string {
	data, _ := json.Marshal(drawings)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
