// Package convert maps CAD models and technical drawings into the
// format-agnostic entity/layer representation consumed by the encoders.
//
// Conversion is a pure function of its inputs: it never mutates the source
// model, is called once per export, and its output carries no trace of which
// encoder will consume it.
//
// # Layer Assignment
//
//   - Model components land on fixed category layers (STRUCTURE, GLAZING,
//     FOUNDATION, ...) colored from a static table.
//   - Each drawing becomes its own layer named after its sanitized title;
//     title blocks expand onto a shared TITLEBLOCK layer.
//
// # Unit Scaling
//
// Every coordinate is scaled from the requested unit system to inches
// exactly once, here. Encoders never rescale.
package convert

import (
	"fmt"
	"sort"

	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
	"github.com/draftforge/draftforge/pkg/model"
)

// Result is the output of a conversion: the entity list, the layer table,
// and any non-fatal warnings collected along the way.
type Result struct {
	Entities []entity.Entity
	Layers   []entity.Layer
	Warnings []string
}

// converter accumulates entities and layers for one conversion run.
type converter struct {
	scale    float64
	handles  entity.HandleSequence
	entities []entity.Entity
	layers   []entity.Layer
	seen     map[string]bool
	warnings []string
}

func newConverter(units string, handles entity.HandleSequence) *converter {
	if handles == nil {
		handles = entity.NewCounterSequence()
	}
	c := &converter{
		scale:   Scale(units),
		handles: handles,
		seen:    make(map[string]bool),
	}
	// Layer "0" is always present so unassigned entities resolve.
	c.addLayer(entity.DefaultLayer, DefaultLayerColor)
	return c
}

// FromModel converts a 3D model into entities and layers.
// Components are projected onto the XY plane as their plan-view outline:
// circular components become circles, rectangular ones closed polylines.
// Unknown categories and unmapped materials produce warnings, not errors.
func FromModel(m *model.Model, units string, handles entity.HandleSequence) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("model is nil")
	}

	c := newConverter(units, handles)
	materials := make(map[string]bool, len(m.Materials))
	for _, mat := range m.Materials {
		materials[mat.ID] = true
	}

	// Deterministic iteration over the category map.
	categories := make([]string, 0, len(m.Components))
	for cat := range m.Components {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		layer := CategoryLayer(cat)
		if layer == entity.DefaultLayer && cat != "" {
			c.warn("unknown component category %q, using layer %q", cat, entity.DefaultLayer)
		}
		c.addLayer(layer, LayerColor(layer))

		for _, comp := range m.Components[cat] {
			if comp.Material != "" && !materials[comp.Material] {
				c.warn("component %s references unmapped material %q", comp.ID, comp.Material)
			}
			c.addComponent(comp, layer)
		}
	}

	return c.result(), nil
}

// FromDrawings converts 2D technical drawings into entities and layers.
// Each drawing contributes one layer; its elements become entities on that
// layer; an optional title block expands into border and text entities.
func FromDrawings(drawings []model.Drawing, units string, handles entity.HandleSequence) (*Result, error) {
	c := newConverter(units, handles)

	for _, d := range drawings {
		layer := SanitizeLayerName(d.Title)
		c.addLayer(layer, LayerColor(layer))

		for i, el := range d.Elements {
			if !c.addElement(el, layer) {
				c.warn("drawing %q element %d: unknown kind %q, skipped", d.Title, i, el.Kind)
			}
		}

		if d.TitleBlock != nil {
			c.addTitleBlock(d.TitleBlock)
		}
	}

	return c.result(), nil
}

func (c *converter) result() *Result {
	return &Result{
		Entities: c.entities,
		Layers:   c.layers,
		Warnings: c.warnings,
	}
}

func (c *converter) warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *converter) addLayer(name, color string) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.layers = append(c.layers, entity.NewLayer(name, color))
}

func (c *converter) point(p geom.Point) geom.Point {
	return geom.Point{X: p.X * c.scale, Y: p.Y * c.scale, Z: p.Z * c.scale}
}

func (c *converter) add(t entity.Type, layer string, g entity.Geometry, props map[string]string) {
	c.entities = append(c.entities, entity.Entity{
		Handle:     c.handles.Next(),
		Type:       t,
		Layer:      layer,
		Color:      entity.ByLayer,
		LineType:   entity.ByLayer,
		Geometry:   g,
		Properties: props,
	})
}

func (c *converter) addComponent(comp model.Component, layer string) {
	props := map[string]string{"component_id": comp.ID}
	if comp.Name != "" {
		props["name"] = comp.Name
	}
	if comp.Material != "" {
		props["material"] = comp.Material
	}

	pos := c.point(comp.Geometry.Position)

	if comp.Geometry.Radius > 0 {
		c.add(entity.TypeCircle, layer, entity.Circle{
			Center: pos,
			Radius: comp.Geometry.Radius * c.scale,
		}, props)
		return
	}

	w := comp.Geometry.Width * c.scale
	h := comp.Geometry.Depth * c.scale
	if h == 0 {
		h = comp.Geometry.Height * c.scale
	}
	c.add(entity.TypePolyline, layer, entity.Polyline{
		Points: []geom.Point{
			pos,
			{X: pos.X + w, Y: pos.Y, Z: pos.Z},
			{X: pos.X + w, Y: pos.Y + h, Z: pos.Z},
			{X: pos.X, Y: pos.Y + h, Z: pos.Z},
		},
		Closed: true,
	}, props)
}

// addElement converts one drawing element. It returns false when the element
// kind is not recognized.
func (c *converter) addElement(el model.Element, layer string) bool {
	var t entity.Type
	var g entity.Geometry

	switch el.Kind {
	case model.ElementLine:
		t, g = entity.TypeLine, entity.Line{Start: c.point(el.Start), End: c.point(el.End)}
	case model.ElementCircle:
		t, g = entity.TypeCircle, entity.Circle{Center: c.point(el.Center), Radius: el.Radius * c.scale}
	case model.ElementArc:
		t, g = entity.TypeArc, entity.Arc{
			Center:     c.point(el.Center),
			Radius:     el.Radius * c.scale,
			StartAngle: el.StartAngle,
			EndAngle:   el.EndAngle,
		}
	case model.ElementText:
		t, g = entity.TypeText, entity.Text{
			Position: c.point(el.Position),
			Value:    el.Text,
			Height:   el.Height * c.scale,
		}
	case model.ElementPolyline:
		pts := make([]geom.Point, len(el.Vertices))
		for i, v := range el.Vertices {
			pts[i] = c.point(v)
		}
		t, g = entity.TypePolyline, entity.Polyline{Points: pts, Closed: el.Closed}
	case model.ElementDimension:
		start, end := c.point(el.Start), c.point(el.End)
		t, g = entity.TypeDimension, entity.Dimension{
			Start: start,
			End:   end,
			TextPosition: geom.Point{
				X: (start.X + end.X) / 2,
				Y: (start.Y + end.Y) / 2,
				Z: (start.Z + end.Z) / 2,
			},
			Value: el.Value,
		}
	default:
		return false
	}

	e := entity.Entity{
		Handle:   c.handles.Next(),
		Type:     t,
		Layer:    layer,
		Color:    entity.ByLayer,
		LineType: entity.ByLayer,
		Geometry: g,
	}
	if el.Color != "" {
		e.Color = el.Color
	}
	c.entities = append(c.entities, e)
	return true
}

// Title block frame dimensions in inches, drawn at the sheet origin.
const (
	titleBlockWidth  = 7.5
	titleBlockHeight = 2.0
	titleTextHeight  = 0.25
	detailTextHeight = 0.125
)

// addTitleBlock expands a title block into border and text entities on the
// TITLEBLOCK layer. Missing optional fields (company, revision, ...) are
// simply omitted, never an error.
func (c *converter) addTitleBlock(tb *model.TitleBlock) {
	c.addLayer(LayerTitleBlock, LayerColor(LayerTitleBlock))

	c.add(entity.TypePolyline, LayerTitleBlock, entity.Polyline{
		Points: []geom.Point{
			{X: 0, Y: 0},
			{X: titleBlockWidth, Y: 0},
			{X: titleBlockWidth, Y: titleBlockHeight},
			{X: 0, Y: titleBlockHeight},
		},
		Closed: true,
	}, nil)

	c.add(entity.TypeText, LayerTitleBlock, entity.Text{
		Position: geom.Point{X: 0.25, Y: titleBlockHeight - 0.5},
		Value:    tb.ProjectName,
		Height:   titleTextHeight,
	}, nil)

	y := titleBlockHeight - 0.875
	for _, line := range []string{tb.Company, tb.Author, tb.DrawingNumber, tb.Date, tb.Revision} {
		if line == "" {
			continue
		}
		c.add(entity.TypeText, LayerTitleBlock, entity.Text{
			Position: geom.Point{X: 0.25, Y: y},
			Value:    line,
			Height:   detailTextHeight,
		}, nil)
		y -= 0.25
	}
}
