package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftforge/draftforge/pkg/export"
)

// formatDescriptions maps format keys to one-line descriptions shown by
// the formats command.
var formatDescriptions = map[string]string{
	"dwg":  "binary drawing format (full encoder)",
	"dxf":  "text drawing exchange format (full encoder)",
	"step": "ISO 10303-21 product data (stub)",
	"ifc":  "building information model (stub)",
	"iges": "legacy CAD exchange (stub)",
	"obj":  "wavefront geometry (stub)",
	"stl":  "stereolithography mesh (stub)",
	"gltf": "GL transmission format (stub)",
	"pdf":  "portable document (stub)",
	"svg":  "scalable vector graphics (stub)",
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported export formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Supported formats"))
			for _, f := range export.DefaultRegistry().Formats() {
				desc := formatDescriptions[f]
				fmt.Printf("  %s  %s\n", StyleHighlight.Render(fmt.Sprintf("%-5s", f)), StyleDim.Render(desc))
			}
			return nil
		},
	}
}
