package entity

import "github.com/draftforge/draftforge/pkg/geom"

// Geometry is the tagged union of per-type payloads. Encoders switch on the
// concrete type (or Kind) instead of duck-typing optional fields.
//
// Vertices returns the vertex-bearing coordinates of the payload, used for
// bounding-box computation. Payloads without meaningful vertices (none
// currently) return nil.
type Geometry interface {
	Kind() Type
	Vertices() []geom.Point
}

// Line is a straight segment from Start to End.
type Line struct {
	Start geom.Point `json:"start" bson:"start"`
	End   geom.Point `json:"end" bson:"end"`
}

func (Line) Kind() Type { return TypeLine }

func (l Line) Vertices() []geom.Point { return []geom.Point{l.Start, l.End} }

// Circle is a full circle around Center.
type Circle struct {
	Center geom.Point `json:"center" bson:"center"`
	Radius float64    `json:"radius" bson:"radius"`
}

func (Circle) Kind() Type { return TypeCircle }

// Vertices returns the extremal points of the circle so the bounding box
// covers the full disc, not just the center.
func (c Circle) Vertices() []geom.Point {
	return []geom.Point{
		{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Z: c.Center.Z},
		{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius, Z: c.Center.Z},
	}
}

// Arc is a circular arc from StartAngle to EndAngle (degrees, counterclockwise).
type Arc struct {
	Center     geom.Point `json:"center" bson:"center"`
	Radius     float64    `json:"radius" bson:"radius"`
	StartAngle float64    `json:"start_angle" bson:"start_angle"`
	EndAngle   float64    `json:"end_angle" bson:"end_angle"`
}

func (Arc) Kind() Type { return TypeArc }

func (a Arc) Vertices() []geom.Point {
	return Circle{Center: a.Center, Radius: a.Radius}.Vertices()
}

// Text is a single-line text label anchored at Position.
type Text struct {
	Position geom.Point `json:"position" bson:"position"`
	Value    string     `json:"value" bson:"value"`
	Height   float64    `json:"height" bson:"height"`
}

func (Text) Kind() Type { return TypeText }

func (t Text) Vertices() []geom.Point { return []geom.Point{t.Position} }

// Polyline is a connected sequence of vertices, optionally closed.
type Polyline struct {
	Points []geom.Point `json:"points" bson:"points"`
	Closed bool         `json:"closed" bson:"closed"`
}

func (Polyline) Kind() Type { return TypePolyline }

func (p Polyline) Vertices() []geom.Point { return p.Points }

// Dimension is a linear dimension annotation between Start and End.
type Dimension struct {
	Start        geom.Point `json:"start" bson:"start"`
	End          geom.Point `json:"end" bson:"end"`
	TextPosition geom.Point `json:"text_position" bson:"text_position"`
	Value        string     `json:"value" bson:"value"`
}

func (Dimension) Kind() Type { return TypeDimension }

func (d Dimension) Vertices() []geom.Point {
	return []geom.Point{d.Start, d.End, d.TextPosition}
}

// BoundingBox computes the axis-aligned bounding box of a set of entities,
// scanning vertex-bearing geometry only. Entities with nil geometry are
// skipped. An empty set yields the zero box.
func BoundingBox(entities []Entity) geom.BoundingBox {
	sets := make([][]geom.Point, 0, len(entities))
	for _, e := range entities {
		if e.Geometry == nil {
			continue
		}
		sets = append(sets, e.Geometry.Vertices())
	}
	return geom.BoundingBoxOf(sets)
}
