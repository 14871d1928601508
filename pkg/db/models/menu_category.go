package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuCategory groups menu items within one restaurant's menu.
type MenuCategory struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string     `gorm:"column:name;not null"`
	Description  *string    `gorm:"column:description"`
	SortOrder    int        `gorm:"column:sort_order;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	Items        []MenuItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *MenuCategory) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
