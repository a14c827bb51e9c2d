package enums

import "fmt"

// MeasureUnit defines how a product is dispensed and priced.
type MeasureUnit string

const (
	MeasureUnitUnidad    MeasureUnit = "UND"
	MeasureUnitKilogramo MeasureUnit = "KG"
	MeasureUnitMetro     MeasureUnit = "M"
	MeasureUnitLitro     MeasureUnit = "LT"
)

var validMeasureUnits = []MeasureUnit{
	MeasureUnitUnidad,
	MeasureUnitKilogramo,
	MeasureUnitMetro,
	MeasureUnitLitro,
}

// String implements fmt.Stringer.
func (m MeasureUnit) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeasureUnit.
func (m MeasureUnit) IsValid() bool {
	for _, candidate := range validMeasureUnits {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMeasureUnit converts raw input into a MeasureUnit.
func ParseMeasureUnit(value string) (MeasureUnit, error) {
	for _, candidate := range validMeasureUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid measure unit %q", value)
}
