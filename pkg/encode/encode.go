// Package encode defines the shared contract for format encoders and the
// registry the export orchestrator dispatches on.
//
// Every encoder turns one (entities, layers, options) triple into a byte
// artifact. Encoders never fail on missing optional data (no title block, no
// author); they fail only on structural problems, and they skip entity types
// they cannot represent with a warning instead of aborting the export.
//
// Concrete encoders live in subpackages:
//
//   - pkg/encode/dwg:  binary DWG-like format
//   - pkg/encode/dxf:  text DXF-like format (group codes)
//   - pkg/encode/stub: minimal STEP/IGES/IFC/OBJ/STL/GLTF/PDF/SVG files
package encode

import (
	"context"
	"sort"

	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/errors"
)

// Format keys understood by the default registry.
const (
	FormatDWG  = "dwg"
	FormatDXF  = "dxf"
	FormatSTEP = "step"
	FormatIGES = "iges"
	FormatIFC  = "ifc"
	FormatOBJ  = "obj"
	FormatSTL  = "stl"
	FormatGLTF = "gltf"
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
)

// Options carries the format-agnostic settings encoders need. Coordinates
// are already scaled by the converter; Units is recorded in headers only.
type Options struct {
	Units     string // unit system recorded in file headers
	Precision int    // decimal places for text formats
	Author    string // author stamped into headers
	Version   string // format version signature
}

// Artifact is the product of one encode operation: the complete encoded
// bytes plus any non-fatal warnings (skipped entity types, ...). An Artifact
// is only ever returned whole; partial encodes surface as errors instead.
type Artifact struct {
	Data     []byte
	Warnings []string
}

// Encoder is the contract every format encoder implements.
type Encoder interface {
	// Format returns the registry key this encoder serves (e.g. "dwg").
	Format() string

	// Encode produces the complete artifact for the given entities and
	// layers. Implementations must not mutate their inputs.
	Encode(ctx context.Context, entities []entity.Entity, layers []entity.Layer, opts Options) (*Artifact, error)
}

// Registry is the immutable format→encoder lookup table. It is fixed at
// construction and safe for concurrent use.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry builds a registry from the given encoders, keyed by their
// Format(). Later encoders with a duplicate format replace earlier ones.
func NewRegistry(encoders ...Encoder) *Registry {
	m := make(map[string]Encoder, len(encoders))
	for _, e := range encoders {
		m[e.Format()] = e
	}
	return &Registry{encoders: m}
}

// Lookup returns the encoder registered for format. Unknown formats yield an
// UNSUPPORTED_FORMAT error; this is the fail-fast check the orchestrator
// runs before any conversion work.
func (r *Registry) Lookup(format string) (Encoder, error) {
	e, ok := r.encoders[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat,
			"no encoder registered for format %q", format)
	}
	return e, nil
}

// Has reports whether format has a registered encoder.
func (r *Registry) Has(format string) bool {
	_, ok := r.encoders[format]
	return ok
}

// Formats returns the sorted list of registered format keys.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.encoders))
	for f := range r.encoders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
