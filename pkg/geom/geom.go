// Package geom provides the small geometric vocabulary shared by the
// conversion and encoding layers: 3D points and axis-aligned bounding boxes.
//
// All coordinates are in drawing units (inches after conversion, see
// pkg/convert). The zero value of [BoundingBox] is the canonical "empty"
// box spanning the origin; Inf sentinels are never used.
package geom

// Point is a position in drawing space. Z is zero for 2D drawings.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z,omitempty" bson:"z,omitempty"`
}

// BoundingBox is an axis-aligned box spanning Min to Max.
type BoundingBox struct {
	Min Point `json:"min" bson:"min"`
	Max Point `json:"max" bson:"max"`
}

// ExpandPoint grows the box to include p.
func (b *BoundingBox) ExpandPoint(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Width returns the X extent of the box.
func (b BoundingBox) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent of the box.
func (b BoundingBox) Height() float64 { return b.Max.Y - b.Min.Y }

// BoundingBoxOf computes the bounding box of a set of vertex lists.
// Entities without vertex-bearing geometry contribute an empty list and are
// skipped. An empty input yields the zero box {0,0,0}-{0,0,0}.
func BoundingBoxOf(vertexSets [][]Point) BoundingBox {
	var box BoundingBox
	first := true
	for _, vs := range vertexSets {
		for _, p := range vs {
			if first {
				box.Min, box.Max = p, p
				first = false
				continue
			}
			box.ExpandPoint(p)
		}
	}
	if first {
		return BoundingBox{}
	}
	return box
}
