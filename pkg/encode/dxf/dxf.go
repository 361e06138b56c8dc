// Package dxf implements the text DXF-like encoder.
//
// The output follows the DXF group-code convention: every property is a pair
// of lines, a numeric group code followed by its value. The file consists of
// five ordered sections (HEADER, TABLES, BLOCKS, ENTITIES, OBJECTS), each
// closed by 0/ENDSEC, and terminates with a literal "0\nEOF\n".
//
// Coordinates are formatted to the precision requested in the options. The
// converter has already scaled them; no rescaling happens here.
package dxf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/draftforge/draftforge/pkg/convert"
	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
)

// DefaultPrecision is used when options carry a negative precision. Zero is
// a valid explicit precision (whole-number coordinates).
const DefaultPrecision = 6

// Group codes used by this writer.
const (
	groupType      = 0  // record type (SECTION, LINE, ...)
	groupText      = 1  // primary text value
	groupName      = 2  // section/table/layer name
	groupHandle    = 5  // entity handle
	groupLineType  = 6  // line type name
	groupLayer     = 8  // layer name
	groupVar       = 9  // header variable name
	groupX1        = 10 // primary point X
	groupY1        = 20
	groupZ1        = 30
	groupX2        = 11 // secondary point X
	groupY2        = 21
	groupZ2        = 31
	groupFloat     = 40 // radius, height
	groupAngle1    = 50
	groupAngle2    = 51
	groupColor     = 62 // ACI color index
	groupFlags     = 70
	groupVertCount = 90
)

// Encoder writes the text DXF-like format. Encoders are stateless; the zero
// value is usable but [New] is the conventional constructor.
type Encoder struct{}

// New creates a DXF encoder.
func New() *Encoder { return &Encoder{} }

// Format returns the registry key for this encoder.
func (e *Encoder) Format() string { return encode.FormatDXF }

// Encode writes the five sections and the terminal EOF line. Entity types
// without a group-code template are skipped with a warning.
func (e *Encoder) Encode(ctx context.Context, entities []entity.Entity, layers []entity.Layer, opts encode.Options) (*encode.Artifact, error) {
	precision := opts.Precision
	if precision < 0 {
		precision = DefaultPrecision
	}

	w := &writer{precision: precision}
	table := entity.LayerTable(layers)

	writeHeader(w, opts)
	writeTables(w, layers)
	writeEmptySection(w, "BLOCKS")
	warnings := writeEntities(w, entities, table)
	writeEmptySection(w, "OBJECTS")

	w.pair(groupType, "EOF")

	return &encode.Artifact{Data: []byte(w.String()), Warnings: warnings}, nil
}

// writer accumulates group-code pairs.
type writer struct {
	sb        strings.Builder
	precision int
}

func (w *writer) pair(code int, value string) {
	w.sb.WriteString(strconv.Itoa(code))
	w.sb.WriteByte('\n')
	w.sb.WriteString(value)
	w.sb.WriteByte('\n')
}

func (w *writer) num(code int, v float64) {
	w.pair(code, strconv.FormatFloat(v, 'f', w.precision, 64))
}

func (w *writer) intPair(code, v int) {
	w.pair(code, strconv.Itoa(v))
}

func (w *writer) point(p geom.Point) {
	w.num(groupX1, p.X)
	w.num(groupY1, p.Y)
	w.num(groupZ1, p.Z)
}

func (w *writer) point2(p geom.Point) {
	w.num(groupX2, p.X)
	w.num(groupY2, p.Y)
	w.num(groupZ2, p.Z)
}

func (w *writer) String() string { return w.sb.String() }

func (w *writer) beginSection(name string) {
	w.pair(groupType, "SECTION")
	w.pair(groupName, name)
}

func (w *writer) endSection() {
	w.pair(groupType, "ENDSEC")
}

func writeHeader(w *writer, opts encode.Options) {
	version := opts.Version
	if version == "" {
		version = "AC1027"
	}

	w.beginSection("HEADER")
	w.pair(groupVar, "$ACADVER")
	w.pair(groupText, version)
	w.pair(groupVar, "$INSUNITS")
	w.intPair(groupFlags, int(convert.UnitsCode(opts.Units)))
	w.endSection()
}

func writeTables(w *writer, layers []entity.Layer) {
	w.beginSection("TABLES")
	w.pair(groupType, "TABLE")
	w.pair(groupName, "LAYER")
	w.intPair(groupFlags, len(layers))

	for _, l := range layers {
		w.pair(groupType, "LAYER")
		w.pair(groupName, l.Name)
		w.intPair(groupFlags, layerFlags(l))
		w.intPair(groupColor, entity.ColorIndex(l.Color))
		w.pair(groupLineType, l.LineType)
	}

	w.pair(groupType, "ENDTAB")
	w.endSection()
}

// layerFlags packs the layer state into the DXF 70 bit field:
// bit 0 frozen (invisible), bit 2 locked.
func layerFlags(l entity.Layer) int {
	flags := 0
	if !l.Visible {
		flags |= 1
	}
	if l.Locked {
		flags |= 4
	}
	return flags
}

func writeEmptySection(w *writer, name string) {
	w.beginSection(name)
	w.endSection()
}

func writeEntities(w *writer, entities []entity.Entity, table map[string]entity.Layer) []string {
	var warnings []string

	w.beginSection("ENTITIES")
	for _, ent := range entities {
		if !writeEntity(w, ent, table) {
			warnings = append(warnings, fmt.Sprintf(
				"entity %s: type %s has no group-code template, skipped", ent.Handle, ent.Type))
		}
	}
	w.endSection()

	return warnings
}

// writeEntity appends one entity record. It returns false for entity types
// without a template; nothing is written in that case.
func writeEntity(w *writer, ent entity.Entity, table map[string]entity.Layer) bool {
	g := ent.Geometry
	if g == nil {
		return false
	}

	switch g := g.(type) {
	case entity.Line:
		writeCommon(w, "LINE", ent, table)
		w.point(g.Start)
		w.point2(g.End)
	case entity.Circle:
		writeCommon(w, "CIRCLE", ent, table)
		w.point(g.Center)
		w.num(groupFloat, g.Radius)
	case entity.Arc:
		writeCommon(w, "ARC", ent, table)
		w.point(g.Center)
		w.num(groupFloat, g.Radius)
		w.num(groupAngle1, g.StartAngle)
		w.num(groupAngle2, g.EndAngle)
	case entity.Text:
		writeCommon(w, "TEXT", ent, table)
		w.point(g.Position)
		w.num(groupFloat, g.Height)
		w.pair(groupText, g.Value)
	case entity.Polyline:
		writeCommon(w, "LWPOLYLINE", ent, table)
		w.intPair(groupVertCount, len(g.Points))
		closed := 0
		if g.Closed {
			closed = 1
		}
		w.intPair(groupFlags, closed)
		for _, p := range g.Points {
			w.num(groupX1, p.X)
			w.num(groupY1, p.Y)
		}
	case entity.Dimension:
		writeCommon(w, "DIMENSION", ent, table)
		w.point(g.Start)
		w.point2(g.End)
		w.pair(groupText, g.Value)
	default:
		return false
	}
	return true
}

// writeCommon emits the record type line and the fields shared by every
// entity: handle, layer, and the BYLAYER-resolved color index.
func writeCommon(w *writer, record string, ent entity.Entity, table map[string]entity.Layer) {
	w.pair(groupType, record)
	w.pair(groupHandle, ent.Handle)
	w.pair(groupLayer, ent.Layer)
	w.intPair(groupColor, entity.ColorIndex(entity.ResolveColor(ent, table)))
}
