package enums

import "fmt"

// DeliveryStatus tracks a dispatch assignment through handoff.
type DeliveryStatus string

const (
	DeliveryStatusQueued    DeliveryStatus = "queued"
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusQueued,
	DeliveryStatusAssigned,
	DeliveryStatusPickedUp,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
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
