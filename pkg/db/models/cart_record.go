package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// CartRecord is a customer's live cart. A customer keeps at most one active
// cart per restaurant; adding from another restaurant starts a new cart.
type CartRecord struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID   uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null"`
	Status       enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Items        []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CheckedOutAt *time.Time       `gorm:"column:checked_out_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartRecord) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
