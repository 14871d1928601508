package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one menu item line inside a CartRecord. UnitPriceCents is a
// display-time snapshot only; checkout re-reads the live menu price.
type CartItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	MenuItemID     uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Note           *string   `gorm:"column:note"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
