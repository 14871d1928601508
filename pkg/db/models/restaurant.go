package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// Restaurant is the merchant-facing storefront owned by a restaurant_owner user.
type Restaurant struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID           uuid.UUID              `gorm:"column:owner_id;type:uuid;not null;index"`
	Name              string                 `gorm:"column:name;not null"`
	Description       *string                `gorm:"column:description"`
	CuisineType       string                 `gorm:"column:cuisine_type;not null"`
	Tags              pq.StringArray         `gorm:"column:tags;type:text[]"`
	AddressLine       string                 `gorm:"column:address_line;not null"`
	City              string                 `gorm:"column:city;not null"`
	Phone             *string                `gorm:"column:phone"`
	ImageURL          *string                `gorm:"column:image_url"`
	DeliveryFeeCents  int                    `gorm:"column:delivery_fee_cents;not null;default:0"`
	MinimumOrderCents int                    `gorm:"column:minimum_order_cents;not null;default:0"`
	DeliveryTimeMin   int                    `gorm:"column:delivery_time_min;not null;default:30"`
	DeliveryTimeMax   int                    `gorm:"column:delivery_time_max;not null;default:60"`
	Rating            float64                `gorm:"column:rating;not null;default:0"`
	TotalReviews      int                    `gorm:"column:total_reviews;not null;default:0"`
	IsFeatured        bool                   `gorm:"column:is_featured;not null;default:false"`
	Status            enums.RestaurantStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Categories        []MenuCategory         `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Restaurant) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
