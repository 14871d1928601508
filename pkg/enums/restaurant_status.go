package enums

import "fmt"

// RestaurantStatus controls whether a restaurant can take orders.
type RestaurantStatus string

const (
	RestaurantStatusActive    RestaurantStatus = "active"
	RestaurantStatusInactive  RestaurantStatus = "inactive"
	RestaurantStatusSuspended RestaurantStatus = "suspended"
)

var validRestaurantStatuses = []RestaurantStatus{
	RestaurantStatusActive,
	RestaurantStatusInactive,
	RestaurantStatusSuspended,
}

// String implements fmt.Stringer.
func (s RestaurantStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RestaurantStatus.
func (s RestaurantStatus) IsValid() bool {
	for _, candidate := range validRestaurantStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRestaurantStatus converts raw input into a RestaurantStatus.
func ParseRestaurantStatus(value string) (RestaurantStatus, error) {
	for _, candidate := range validRestaurantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid restaurant status %q", value)
}
