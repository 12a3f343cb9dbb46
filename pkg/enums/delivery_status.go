package enums

import "fmt"

// DeliveryStatus tracks getting a produced line item to the customer.
type DeliveryStatus string

const (
	DeliveryStatusPending            DeliveryStatus = "PENDING"
	DeliveryStatusReadyForDelivery   DeliveryStatus = "READY_FOR_DELIVERY"
	DeliveryStatusPartiallyDelivered DeliveryStatus = "PARTIALLY_DELIVERED"
	DeliveryStatusDelivered          DeliveryStatus = "DELIVERED"
	DeliveryStatusFailed             DeliveryStatus = "FAILED"
	DeliveryStatusCancelled          DeliveryStatus = "CANCELLED"
	DeliveryStatusPartial            DeliveryStatus = "PARTIAL"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusReadyForDelivery,
	DeliveryStatusPartiallyDelivered,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
	DeliveryStatusCancelled,
	DeliveryStatusPartial,
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
