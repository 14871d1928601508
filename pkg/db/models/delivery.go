package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// Delivery tracks the dispatch assignment for one order.
type Delivery struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	PartnerID      *uuid.UUID           `gorm:"column:partner_id;type:uuid;index"`
	Status         enums.DeliveryStatus `gorm:"column:status;type:text;not null;default:'queued'"`
	AssignedAt     *time.Time           `gorm:"column:assigned_at"`
	PickedUpAt     *time.Time           `gorm:"column:picked_up_at"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	FailureReason  *string              `gorm:"column:failure_reason"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Delivery) BeforeCreate(_ *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
