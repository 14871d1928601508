package checkout

import (
	"github.com/google/uuid"
)

// SubmitInput carries everything a customer provides at checkout. Prices
// are never taken from the client; they are re-read from the menu inside
// the submission transaction.
type SubmitInput struct {
	CustomerID           uuid.UUID
	DeliveryAddressLine  string
	DeliveryCity         string
	DeliveryInstructions *string
	ContactPhone         string
	TipCents             int
}
