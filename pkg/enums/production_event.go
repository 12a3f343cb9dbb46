package enums

import "fmt"

// ProductionEventKind names the production events the kitchen can record.
type ProductionEventKind string

const (
	ProductionEventCompletion   ProductionEventKind = "completion"
	ProductionEventCancellation ProductionEventKind = "cancellation"
	ProductionEventPartial      ProductionEventKind = "partial"
)

// String implements fmt.Stringer.
func (k ProductionEventKind) String() string {
	return string(k)
}

// PartialDeductionPolicy selects how partial production events reduce the daily aggregate.
type PartialDeductionPolicy string

const (
	// PartialDeductionFirstEventFull deducts the full ordered quantity on the first partial event only.
	PartialDeductionFirstEventFull PartialDeductionPolicy = "first_event_full"
	// PartialDeductionPerEventAmount deducts each partial amount as it is recorded.
	PartialDeductionPerEventAmount PartialDeductionPolicy = "per_event_amount"
)

var validPartialDeductionPolicies = []PartialDeductionPolicy{
	PartialDeductionFirstEventFull,
	PartialDeductionPerEventAmount,
}

// String implements fmt.Stringer.
func (p PartialDeductionPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartialDeductionPolicy.
func (p PartialDeductionPolicy) IsValid() bool {
	for _, candidate := range validPartialDeductionPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartialDeductionPolicy converts raw input into a PartialDeductionPolicy.
func ParsePartialDeductionPolicy(value string) (PartialDeductionPolicy, error) {
	for _, candidate := range validPartialDeductionPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partial deduction policy %q", value)
}
