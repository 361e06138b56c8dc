package entity

import "strings"

// ACI color indices for the standard palette. Colors travel through the
// model as hex strings; encoders map them to indices via [ColorIndex].
const (
	ColorRed     = 1
	ColorYellow  = 2
	ColorGreen   = 3
	ColorCyan    = 4
	ColorBlue    = 5
	ColorMagenta = 6
	ColorWhite   = 7
	ColorGray    = 8

	// DefaultColorIndex is used for unmapped hex values and the BYLAYER
	// sentinel when no layer resolution happened.
	DefaultColorIndex = ColorWhite
)

// hexToACI maps normalized hex colors to their AutoCAD Color Index.
// The table is fixed; mapping is pure and total via the default fallback.
var hexToACI = map[string]int{
	"#ff0000": ColorRed,
	"#ffff00": ColorYellow,
	"#00ff00": ColorGreen,
	"#00ffff": ColorCyan,
	"#0000ff": ColorBlue,
	"#ff00ff": ColorMagenta,
	"#ffffff": ColorWhite,
	"#808080": ColorGray,
	"#c0c0c0": 9,
	"#800000": 14,
	"#808000": 54,
	"#008000": 94,
	"#008080": 134,
	"#000080": 174,
	"#800080": 214,
	"#ffa500": 30,
	"#a52a2a": 15,
	"#000000": ColorWhite, // black renders as white on dark backgrounds
}

// ColorIndex maps a hex color string to its ACI index. Matching is
// case-insensitive; unmapped values and non-hex strings (including the
// BYLAYER sentinel) yield [DefaultColorIndex]. Identical input always
// yields identical output.
func ColorIndex(hex string) int {
	if idx, ok := hexToACI[strings.ToLower(hex)]; ok {
		return idx
	}
	return DefaultColorIndex
}
