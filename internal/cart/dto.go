package cart

import (
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
)

// ItemView is a single cart line with its derived total.
type ItemView struct {
	ID             uuid.UUID `json:"id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	LineTotalCents int       `json:"line_total_cents"`
	Note           *string   `json:"note,omitempty"`
}

// View is the customer-facing shape of a cart with aggregated totals.
type View struct {
	ID            uuid.UUID        `json:"id"`
	RestaurantID  uuid.UUID        `json:"restaurant_id"`
	Status        enums.CartStatus `json:"status"`
	Items         []ItemView       `json:"items"`
	ItemCount     int              `json:"item_count"`
	SubtotalCents int              `json:"subtotal_cents"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// AddItemInput carries the data needed to add a menu item to a cart.
type AddItemInput struct {
	CustomerID uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int
	Note       *string
}

// SetQuantityInput carries a quantity change for an existing cart line.
type SetQuantityInput struct {
	CustomerID uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int
}

func buildView(record *models.CartRecord) *View {
	view := &View{
		ID:           record.ID,
		RestaurantID: record.RestaurantID,
		Status:       record.Status,
		Items:        make([]ItemView, 0, len(record.Items)),
		UpdatedAt:    record.UpdatedAt,
	}
	for _, item := range record.Items {
		line := item.Quantity * item.UnitPriceCents
		view.Items = append(view.Items, ItemView{
			ID:             item.ID,
			MenuItemID:     item.MenuItemID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: line,
			Note:           item.Note,
		})
		view.ItemCount += item.Quantity
		view.SubtotalCents += line
	}
	return view
}

func emptyView() *View {
	return &View{Items: []ItemView{}}
}
