package enums

import "fmt"

// ProductionStatus tracks the kitchen lifecycle of a single ordered line item.
type ProductionStatus string

const (
	ProductionStatusPending            ProductionStatus = "PENDING"
	ProductionStatusPartiallyCompleted ProductionStatus = "PARTIALLY_COMPLETED"
	ProductionStatusCompleted          ProductionStatus = "COMPLETED"
	ProductionStatusCancelled          ProductionStatus = "CANCELLED"
)

var validProductionStatuses = []ProductionStatus{
	ProductionStatusPending,
	ProductionStatusPartiallyCompleted,
	ProductionStatusCompleted,
	ProductionStatusCancelled,
}

// String implements fmt.Stringer.
func (s ProductionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductionStatus.
func (s ProductionStatus) IsValid() bool {
	for _, candidate := range validProductionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further production event is accepted.
func (s ProductionStatus) IsTerminal() bool {
	return s == ProductionStatusCompleted || s == ProductionStatusCancelled
}

// CanTransitionTo reports whether moving from s to target is a legal production event.
func (s ProductionStatus) CanTransitionTo(target ProductionStatus) bool {
	switch s {
	case ProductionStatusPending:
		return target == ProductionStatusPartiallyCompleted ||
			target == ProductionStatusCompleted ||
			target == ProductionStatusCancelled
	case ProductionStatusPartiallyCompleted:
		return target == ProductionStatusPartiallyCompleted ||
			target == ProductionStatusCompleted ||
			target == ProductionStatusCancelled
	default:
		return false
	}
}

// ParseProductionStatus converts raw input into a ProductionStatus.
func ParseProductionStatus(value string) (ProductionStatus, error) {
	for _, candidate := range validProductionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production status %q", value)
}
