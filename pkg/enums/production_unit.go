package enums

import "fmt"

// ProductionUnit defines how a line item quantity is counted in the kitchen.
type ProductionUnit string

const (
	ProductionUnitPiece ProductionUnit = "PIECE"
	ProductionUnitKG    ProductionUnit = "KG"
	ProductionUnitTray  ProductionUnit = "TRAY"
)

var validProductionUnits = []ProductionUnit{
	ProductionUnitPiece,
	ProductionUnitKG,
	ProductionUnitTray,
}

// String implements fmt.Stringer.
func (u ProductionUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known ProductionUnit.
func (u ProductionUnit) IsValid() bool {
	for _, candidate := range validProductionUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductionUnit converts raw input into a ProductionUnit.
func ParseProductionUnit(value string) (ProductionUnit, error) {
	for _, candidate := range validProductionUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production unit %q", value)
}
