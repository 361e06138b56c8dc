// Package stub provides minimal encoders for the exchange formats DraftForge
// does not yet translate fully: STEP, IGES, IFC, OBJ, STL, glTF, PDF, and
// SVG.
//
// Every stub emits a structurally valid file for its format: correct
// top-level header and footer, plus basic geometry where the translation is
// trivial (OBJ vertices, SVG primitives). Geometry population beyond that is
// a deliberate extension point; callers must not assume geometric fidelity
// from these encoders.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
)

// encodeFunc adapts a plain function to the [encode.Encoder] contract.
type encodeFunc struct {
	format string
	fn     func(entities []entity.Entity, layers []entity.Layer, opts encode.Options) []byte
}

func (e *encodeFunc) Format() string { return e.format }

func (e *encodeFunc) Encode(ctx context.Context, entities []entity.Entity, layers []entity.Layer, opts encode.Options) (*encode.Artifact, error) {
	return &encode.Artifact{Data: e.fn(entities, layers, opts)}, nil
}

// All returns one stub encoder per supported format.
func All() []encode.Encoder {
	return []encode.Encoder{
		STEP(), IGES(), IFC(), OBJ(), STL(), GLTF(), PDF(), SVG(),
	}
}

// STEP returns the ISO-10303-21 stub encoder.
func STEP() encode.Encoder {
	return &encodeFunc{format: encode.FormatSTEP, fn: func(entities []entity.Entity, _ []entity.Layer, opts encode.Options) []byte {
		var b strings.Builder
		b.WriteString("ISO-10303-21;\n")
		b.WriteString("HEADER;\n")
		fmt.Fprintf(&b, "FILE_DESCRIPTION(('DraftForge export'),'2;1');\n")
		fmt.Fprintf(&b, "FILE_NAME('export.step','%s',('%s'),(''),'','','');\n",
			time.Now().UTC().Format("2006-01-02T15:04:05"), opts.Author)
		b.WriteString("FILE_SCHEMA(('AUTOMOTIVE_DESIGN'));\n")
		b.WriteString("ENDSEC;\n")
		b.WriteString("DATA;\n")
		fmt.Fprintf(&b, "/* %d entities pending translation */\n", len(entities))
		b.WriteString("ENDSEC;\n")
		b.WriteString("END-ISO-10303-21;\n")
		return []byte(b.String())
	}}
}

// IGES returns the IGES stub encoder.
func IGES() encode.Encoder {
	return &encodeFunc{format: encode.FormatIGES, fn: func(entities []entity.Entity, _ []entity.Layer, _ encode.Options) []byte {
		var b strings.Builder
		fmt.Fprintf(&b, "%-72sS      1\n", "DraftForge IGES export")
		fmt.Fprintf(&b, "%-72sG      1\n", "1H,,1H;,,")
		fmt.Fprintf(&b, "S%7dG%7dD%7dP%7d%40sT      1\n", 1, 1, 0, 0, "")
		return []byte(b.String())
	}}
}

// IFC returns the IFC (STEP physical file) stub encoder.
func IFC() encode.Encoder {
	return &encodeFunc{format: encode.FormatIFC, fn: func(entities []entity.Entity, _ []entity.Layer, opts encode.Options) []byte {
		var b strings.Builder
		b.WriteString("ISO-10303-21;\n")
		b.WriteString("HEADER;\n")
		b.WriteString("FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');\n")
		fmt.Fprintf(&b, "FILE_NAME('export.ifc','',('%s'),(''),'','DraftForge','');\n", opts.Author)
		b.WriteString("FILE_SCHEMA(('IFC4'));\n")
		b.WriteString("ENDSEC;\n")
		b.WriteString("DATA;\n")
		b.WriteString("#1=IFCPROJECT('0YvctVUKr0kugbFTf53O9L',$,'DraftForge Export',$,$,$,$,$,$);\n")
		b.WriteString("ENDSEC;\n")
		b.WriteString("END-ISO-10303-21;\n")
		return []byte(b.String())
	}}
}

// OBJ returns the Wavefront OBJ stub encoder. Line entities are emitted as
// v/l records; other geometry is left to the extension point.
func OBJ() encode.Encoder {
	return &encodeFunc{format: encode.FormatOBJ, fn: func(entities []entity.Entity, _ []entity.Layer, _ encode.Options) []byte {
		var b strings.Builder
		b.WriteString("# DraftForge OBJ export\n")
		vertex := 0
		for _, e := range entities {
			line, ok := e.Geometry.(entity.Line)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "v %g %g %g\n", line.Start.X, line.Start.Y, line.Start.Z)
			fmt.Fprintf(&b, "v %g %g %g\n", line.End.X, line.End.Y, line.End.Z)
			fmt.Fprintf(&b, "l %d %d\n", vertex+1, vertex+2)
			vertex += 2
		}
		return []byte(b.String())
	}}
}

// STL returns the ASCII STL stub encoder. The solid is empty until facet
// translation is implemented.
func STL() encode.Encoder {
	return &encodeFunc{format: encode.FormatSTL, fn: func(_ []entity.Entity, _ []entity.Layer, _ encode.Options) []byte {
		return []byte("solid draftforge\nendsolid draftforge\n")
	}}
}

// GLTF returns the glTF 2.0 stub encoder: a valid asset with an empty scene.
func GLTF() encode.Encoder {
	return &encodeFunc{format: encode.FormatGLTF, fn: func(_ []entity.Entity, _ []entity.Layer, _ encode.Options) []byte {
		doc := map[string]any{
			"asset":  map[string]string{"version": "2.0", "generator": "draftforge"},
			"scene":  0,
			"scenes": []map[string]any{{"nodes": []int{}}},
		}
		data, _ := json.MarshalIndent(doc, "", "  ")
		return append(data, '\n')
	}}
}

// PDF returns a stub encoder producing a minimal single-page PDF with no
// content stream.
func PDF() encode.Encoder {
	return &encodeFunc{format: encode.FormatPDF, fn: func(_ []entity.Entity, _ []entity.Layer, _ encode.Options) []byte {
		var b strings.Builder
		b.WriteString("%PDF-1.4\n")
		b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
		b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
		b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
		b.WriteString("trailer\n<< /Root 1 0 R >>\n")
		b.WriteString("%%EOF\n")
		return []byte(b.String())
	}}
}

// SVG returns the SVG stub encoder. Lines, circles, and text translate
// directly; everything else is left to the extension point.
func SVG() encode.Encoder {
	return &encodeFunc{format: encode.FormatSVG, fn: func(entities []entity.Entity, layers []entity.Layer, _ encode.Options) []byte {
		table := entity.LayerTable(layers)
		box := entity.BoundingBox(entities)

		var b strings.Builder
		fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
			box.Min.X, box.Min.Y, box.Width(), box.Height())

		for _, e := range entities {
			color := entity.ResolveColor(e, table)
			if color == "" || color == entity.ByLayer {
				color = "#000000"
			}
			switch g := e.Geometry.(type) {
			case entity.Line:
				fmt.Fprintf(&b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s"/>`+"\n",
					g.Start.X, g.Start.Y, g.End.X, g.End.Y, color)
			case entity.Circle:
				fmt.Fprintf(&b, `<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s"/>`+"\n",
					g.Center.X, g.Center.Y, g.Radius, color)
			case entity.Text:
				fmt.Fprintf(&b, `<text x="%g" y="%g" font-size="%g" fill="%s">%s</text>`+"\n",
					g.Position.X, g.Position.Y, g.Height, color, escapeXML(g.Value))
			}
		}

		b.WriteString("</svg>\n")
		return []byte(b.String())
	}}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
