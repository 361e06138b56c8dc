package convert

import (
	"strings"

	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/model"
)

// Category layer names. Each model component category maps to one fixed
// layer; unknown categories land on the default layer.
const (
	LayerStructure  = "STRUCTURE"
	LayerGlazing    = "GLAZING"
	LayerFoundation = "FOUNDATION"
	LayerElectrical = "ELECTRICAL"
	LayerPlumbing   = "PLUMBING"
	LayerHVAC       = "HVAC"
	LayerFinish     = "FINISH"
	LayerTitleBlock = "TITLEBLOCK"
	LayerDimensions = "DIMENSIONS"
)

// DefaultLayerColor is assigned to layers whose category has no entry in the
// color table.
const DefaultLayerColor = "#ffffff"

// categoryLayers maps component categories to their target layer.
var categoryLayers = map[string]string{
	model.CategoryStructure:  LayerStructure,
	model.CategoryGlazing:    LayerGlazing,
	model.CategoryFoundation: LayerFoundation,
	model.CategoryElectrical: LayerElectrical,
	model.CategoryPlumbing:   LayerPlumbing,
	model.CategoryHVAC:       LayerHVAC,
	model.CategoryFinish:     LayerFinish,
}

// categoryColors is the static category→color table applied to generated
// layers. Colors are hex; encoders map them to ACI indices.
var categoryColors = map[string]string{
	LayerStructure:  "#ff0000",
	LayerGlazing:    "#00ffff",
	LayerFoundation: "#808080",
	LayerElectrical: "#ffff00",
	LayerPlumbing:   "#0000ff",
	LayerHVAC:       "#00ff00",
	LayerFinish:     "#ff00ff",
	LayerTitleBlock: "#ffffff",
	LayerDimensions: "#00ff00",
}

// CategoryLayer returns the layer name for a component category.
// Unknown categories map to the default layer "0".
func CategoryLayer(category string) string {
	if l, ok := categoryLayers[strings.ToLower(category)]; ok {
		return l
	}
	return entity.DefaultLayer
}

// LayerColor returns the table color for a layer name, or
// [DefaultLayerColor] when the layer is not in the table.
func LayerColor(layer string) string {
	if c, ok := categoryColors[layer]; ok {
		return c
	}
	return DefaultLayerColor
}

// SanitizeLayerName derives a layer name from a drawing title: uppercased,
// with every non-alphanumeric rune replaced by underscore.
func SanitizeLayerName(title string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(title) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return entity.DefaultLayer
	}
	return b.String()
}
