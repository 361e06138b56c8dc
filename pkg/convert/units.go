package convert

import (
	"github.com/draftforge/draftforge/pkg/errors"
)

// Supported unit systems. Coordinates in the source model are expressed in
// these units; conversion rescales everything to inches exactly once.
// Encoders never rescale again.
const (
	UnitMM = "mm"
	UnitCM = "cm"
	UnitM  = "m"
	UnitIn = "in"
	UnitFt = "ft"
)

// unitScale maps a unit to its scale factor relative to inches.
var unitScale = map[string]float64{
	UnitMM: 25.4,
	UnitCM: 2.54,
	UnitM:  0.0254,
	UnitIn: 1.0,
	UnitFt: 12.0,
}

// ValidUnits is the set of supported unit identifiers.
var ValidUnits = map[string]bool{
	UnitMM: true,
	UnitCM: true,
	UnitM:  true,
	UnitIn: true,
	UnitFt: true,
}

// Scale returns the coordinate scale factor for the given unit.
// Unknown units scale by 1.0 (treated as inches); callers validate first
// via [ValidateUnits].
func Scale(unit string) float64 {
	if s, ok := unitScale[unit]; ok {
		return s
	}
	return 1.0
}

// InverseScale returns the factor that undoes [Scale] for the given unit.
// Scale(u) * InverseScale(u) ≈ 1 for every supported unit.
func InverseScale(unit string) float64 {
	return 1.0 / Scale(unit)
}

// ValidateUnits checks that unit names a supported unit system.
func ValidateUnits(unit string) error {
	if !ValidUnits[unit] {
		return errors.New(errors.ErrCodeInvalidUnits,
			"invalid units: %q (must be one of: mm, cm, m, in, ft)", unit)
	}
	return nil
}

// UnitsCode returns the numeric code written into binary headers for a unit
// system, matching the header layout's int16 units field.
func UnitsCode(unit string) int16 {
	switch unit {
	case UnitMM:
		return 4
	case UnitCM:
		return 5
	case UnitM:
		return 6
	case UnitIn:
		return 1
	case UnitFt:
		return 2
	default:
		return 0 // unitless
	}
}
