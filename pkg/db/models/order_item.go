package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots one purchased line at the price charged.
type OrderItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID      uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null"`
	Name            string    `gorm:"column:name;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	UnitPriceCents  int       `gorm:"column:unit_price_cents;not null"`
	TotalPriceCents int       `gorm:"column:total_price_cents;not null"`
	Note            *string   `gorm:"column:note"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (o *OrderItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
