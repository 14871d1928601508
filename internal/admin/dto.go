package admin

import (
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
)

// Overview summarizes platform activity for the admin dashboard.
type Overview struct {
	UsersByRole           map[enums.UserRole]int64         `json:"users_by_role"`
	OrdersByStatus        map[enums.OrderStatus]int64      `json:"orders_by_status"`
	RestaurantsByStatus   map[enums.RestaurantStatus]int64 `json:"restaurants_by_status"`
	DeliveredRevenueCents int64                            `json:"delivered_revenue_cents"`
}

// SuspendRestaurantInput carries a moderation decision against a restaurant.
type SuspendRestaurantInput struct {
	RestaurantID uuid.UUID
	AdminID      uuid.UUID
	Reason       string
}

// SetUserActiveInput toggles a user account on or off.
type SetUserActiveInput struct {
	UserID uuid.UUID
	Active bool
}
