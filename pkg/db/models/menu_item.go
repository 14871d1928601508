package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is a single orderable dish. Price is stored in integer cents.
type MenuItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID        uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CategoryID          uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	Name                string    `gorm:"column:name;not null"`
	Description         *string   `gorm:"column:description"`
	PriceCents          int       `gorm:"column:price_cents;not null"`
	ImageURL            *string   `gorm:"column:image_url"`
	IsAvailable         bool      `gorm:"column:is_available;not null;default:true"`
	IsVegetarian        bool      `gorm:"column:is_vegetarian;not null;default:false"`
	IsVegan             bool      `gorm:"column:is_vegan;not null;default:false"`
	IsGlutenFree        bool      `gorm:"column:is_gluten_free;not null;default:false"`
	Calories            *int      `gorm:"column:calories"`
	PreparationTimeMins int       `gorm:"column:preparation_time_mins;not null;default:15"`
	SortOrder           int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MenuItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
