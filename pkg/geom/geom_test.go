package geom

import "testing"

func TestBoundingBoxOfEmpty(t *testing.T) {
	box := BoundingBoxOf(nil)
	want := BoundingBox{}
	if box != want {
		t.Errorf("empty set: got %+v, want zero box", box)
	}
}

func TestBoundingBoxOfSkipsEmptySets(t *testing.T) {
	box := BoundingBoxOf([][]Point{
		nil,
		{{X: 1, Y: 2}, {X: 3, Y: 4}},
		{},
	})
	if box.Min.X != 1 || box.Min.Y != 2 || box.Max.X != 3 || box.Max.Y != 4 {
		t.Errorf("got %+v", box)
	}
}

func TestBoundingBoxOfNegativeCoordinates(t *testing.T) {
	// A single point in the negative quadrant must not be clamped to origin.
	box := BoundingBoxOf([][]Point{{{X: -5, Y: -3}}})
	if box.Min.X != -5 || box.Max.X != -5 {
		t.Errorf("got %+v, want min=max=(-5,-3)", box)
	}
}

func TestExpandPoint(t *testing.T) {
	box := BoundingBox{Min: Point{X: 0, Y: 0}, Max: Point{X: 10, Y: 10}}
	box.ExpandPoint(Point{X: -2, Y: 15, Z: 3})
	if box.Min.X != -2 || box.Max.Y != 15 || box.Max.Z != 3 {
		t.Errorf("got %+v", box)
	}
}

func TestWidthHeight(t *testing.T) {
	box := BoundingBox{Min: Point{X: 1, Y: 2}, Max: Point{X: 4, Y: 8}}
	if box.Width() != 3 {
		t.Errorf("Width = %v, want 3", box.Width())
	}
	if box.Height() != 6 {
		t.Errorf("Height = %v, want 6", box.Height())
	}
}
