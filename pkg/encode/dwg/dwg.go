// Package dwg implements the binary DWG-like encoder.
//
// The format is a simplified analogue of the DWG exchange format, not a
// specification-compliant writer. All multi-byte integers and floats are
// little-endian; strings carry a uint16 byte-length prefix.
//
// # File Layout
//
//	header:   6-byte version signature, 6 reserved bytes, int32 magic,
//	          int32 header version, int16 units code, float64 precision,
//	          length-prefixed author, float64 Unix timestamp
//	layers:   per layer: uint16 record tag (2), name, int16 color index,
//	          float32 line weight, uint8 visibility flag
//	entities: per entity: uint16 type code, then type-specific fixed fields
//	eof:      uint16 0x0000
//
// Entity type codes: 1=LINE, 2=CIRCLE, 3=TEXT. Other entity types are not
// representable in this layout and are skipped with a warning.
package dwg

import (
	"context"
	"fmt"
	"time"

	"github.com/draftforge/draftforge/pkg/binwriter"
	"github.com/draftforge/draftforge/pkg/convert"
	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/geom"
)

// Header constants.
const (
	// DefaultVersion is the version signature written when options carry none.
	DefaultVersion = "AC1027"

	// Magic marks the file as a DraftForge binary drawing.
	Magic int32 = 0x44464447 // "DFDG"

	// HeaderVersion is the layout revision of the header block.
	HeaderVersion int32 = 1

	// signatureLen is the fixed width of the version signature field.
	signatureLen = 6

	// reservedLen is the width of the reserved block after the signature.
	reservedLen = 6
)

// Record tags and entity type codes.
const (
	tagLayer uint16 = 2

	codeLine   uint16 = 1
	codeCircle uint16 = 2
	codeText   uint16 = 3
	codeEOF    uint16 = 0
)

// Encoder writes the binary DWG-like format. The zero value is not usable;
// create encoders with [New].
type Encoder struct {
	// Clock supplies the header timestamp. Injectable so tests can assert
	// byte-exact output; defaults to time.Now.
	Clock func() time.Time
}

// New creates a DWG encoder using the wall clock.
func New() *Encoder {
	return &Encoder{Clock: time.Now}
}

// Format returns the registry key for this encoder.
func (e *Encoder) Format() string { return encode.FormatDWG }

// Encode writes the full binary file for the given entities and layers.
// Entity types without a binary record layout are skipped with a warning;
// the export itself still succeeds.
func (e *Encoder) Encode(ctx context.Context, entities []entity.Entity, layers []entity.Layer, opts encode.Options) (*encode.Artifact, error) {
	w := binwriter.New()
	table := entity.LayerTable(layers)
	var warnings []string

	e.writeHeader(w, opts)

	for _, l := range layers {
		writeLayer(w, l)
	}

	for _, ent := range entities {
		if !writeEntity(w, ent, table) {
			warnings = append(warnings, fmt.Sprintf(
				"entity %s: type %s has no binary record layout, skipped", ent.Handle, ent.Type))
		}
	}

	w.WriteUint16(codeEOF)

	return &encode.Artifact{Data: w.Build(), Warnings: warnings}, nil
}

func (e *Encoder) writeHeader(w *binwriter.Writer, opts encode.Options) {
	sig := opts.Version
	if sig == "" {
		sig = DefaultVersion
	}
	w.WriteBytes(fixedWidth(sig, signatureLen))
	w.WriteBytes(make([]byte, reservedLen))
	w.WriteInt32(Magic)
	w.WriteInt32(HeaderVersion)
	w.WriteInt16(convert.UnitsCode(opts.Units))
	w.WriteFloat64(float64(opts.Precision))
	w.WriteString(opts.Author)

	now := time.Now
	if e.Clock != nil {
		now = e.Clock
	}
	w.WriteTimestamp(now())
}

func writeLayer(w *binwriter.Writer, l entity.Layer) {
	w.WriteUint16(tagLayer)
	w.WriteString(l.Name)
	w.WriteInt16(int16(entity.ColorIndex(l.Color)))
	w.WriteFloat32(float32(l.LineWeight))
	if l.Visible {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// writeEntity appends one entity record. It returns false when the entity
// type has no binary layout; nothing is written in that case.
func writeEntity(w *binwriter.Writer, ent entity.Entity, table map[string]entity.Layer) bool {
	switch g := ent.Geometry.(type) {
	case entity.Line:
		w.WriteUint16(codeLine)
		writeCommon(w, ent, table)
		writePoint(w, g.Start)
		writePoint(w, g.End)
	case entity.Circle:
		w.WriteUint16(codeCircle)
		writeCommon(w, ent, table)
		writePoint(w, g.Center)
		w.WriteFloat64(g.Radius)
	case entity.Text:
		w.WriteUint16(codeText)
		writeCommon(w, ent, table)
		writePoint(w, g.Position)
		w.WriteFloat64(g.Height)
		w.WriteString(g.Value)
	default:
		return false
	}
	return true
}

// writeCommon appends the fields shared by every entity record: the handle,
// the layer name, and the resolved color index. BYLAYER is resolved here
// against the layer table, per the model contract.
func writeCommon(w *binwriter.Writer, ent entity.Entity, table map[string]entity.Layer) {
	w.WriteString(ent.Handle)
	w.WriteString(ent.Layer)
	w.WriteInt16(int16(entity.ColorIndex(entity.ResolveColor(ent, table))))
}

func writePoint(w *binwriter.Writer, p geom.Point) {
	w.WriteFloat64(p.X)
	w.WriteFloat64(p.Y)
	w.WriteFloat64(p.Z)
}

// fixedWidth returns s as exactly n bytes, truncated or zero-padded.
func fixedWidth(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}
