package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// Order is the immutable record produced by checkout. All monetary amounts
// are integer cents.
type Order struct {
	ID                    uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber           string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID            uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID          uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status                enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents         int               `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents      int               `gorm:"column:delivery_fee_cents;not null"`
	TaxCents              int               `gorm:"column:tax_cents;not null"`
	TipCents              int               `gorm:"column:tip_cents;not null;default:0"`
	TotalCents            int               `gorm:"column:total_cents;not null"`
	DeliveryAddressLine   string            `gorm:"column:delivery_address_line;not null"`
	DeliveryCity          string            `gorm:"column:delivery_city;not null"`
	DeliveryInstructions  *string           `gorm:"column:delivery_instructions"`
	ContactPhone          string            `gorm:"column:contact_phone;not null"`
	EstimatedDeliveryTime time.Time         `gorm:"column:estimated_delivery_time;not null"`
	ActualDeliveryTime    *time.Time        `gorm:"column:actual_delivery_time"`
	CancelledAt           *time.Time        `gorm:"column:cancelled_at"`
	CancellationReason    *string           `gorm:"column:cancellation_reason"`
	Items                 []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
