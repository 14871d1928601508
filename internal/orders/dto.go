package orders

import (
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
)

// ListFilters narrows order listings.
type ListFilters struct {
	Status enums.OrderStatus
}

// Actor identifies who is acting on an order.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// GetOrderInput scopes a single-order read to the requesting actor.
type GetOrderInput struct {
	OrderID uuid.UUID
	Actor   Actor
}

// UpdateStatusInput carries an order state transition request.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	To      enums.OrderStatus
	Actor   Actor
}

// CancelInput carries an order cancellation request.
type CancelInput struct {
	OrderID uuid.UUID
	Reason  *string
	Actor   Actor
}
