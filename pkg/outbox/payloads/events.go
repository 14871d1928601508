package payloads

import (
	"time"

	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderPlacedEvent signals a completed checkout.
type OrderPlacedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TotalCents   int       `json:"total_cents"`
}

// OrderStatusChangedEvent is emitted on every order state transition.
type OrderStatusChangedEvent struct {
	OrderID      uuid.UUID         `json:"order_id"`
	RestaurantID uuid.UUID         `json:"restaurant_id"`
	From         enums.OrderStatus `json:"from"`
	To           enums.OrderStatus `json:"to"`
}

// OrderCancelledEvent is emitted when a customer or the platform cancels an order.
type OrderCancelledEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	CancelledAt  time.Time `json:"cancelled_at"`
	Reason       string    `json:"reason,omitempty"`
}

// OrderExpiredEvent describes an order auto-cancelled after sitting pending.
type OrderExpiredEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	ExpiredAt    time.Time `json:"expired_at"`
	PendingFor   string    `json:"pending_for"`
}

// DeliveryQueuedEvent is emitted when an order becomes available for pickup.
type DeliveryQueuedEvent struct {
	DeliveryID   uuid.UUID `json:"delivery_id"`
	OrderID      uuid.UUID `json:"order_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
}

// DeliveryAssignedEvent is emitted when a partner claims a delivery.
type DeliveryAssignedEvent struct {
	DeliveryID uuid.UUID `json:"delivery_id"`
	OrderID    uuid.UUID `json:"order_id"`
	PartnerID  uuid.UUID `json:"partner_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// DeliveryCompletedEvent is emitted when the partner hands off the order.
type DeliveryCompletedEvent struct {
	DeliveryID  uuid.UUID `json:"delivery_id"`
	OrderID     uuid.UUID `json:"order_id"`
	PartnerID   uuid.UUID `json:"partner_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// RestaurantSuspendedEvent surfaces admin moderation decisions.
type RestaurantSuspendedEvent struct {
	RestaurantID uuid.UUID `json:"restaurant_id"`
	AdminID      uuid.UUID `json:"admin_id"`
	Reason       string    `json:"reason,omitempty"`
}
