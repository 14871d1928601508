package restaurants

import (
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
)

// ListFilters narrows the public restaurant listing.
type ListFilters struct {
	Status       enums.RestaurantStatus
	CuisineType  string
	City         string
	FeaturedOnly bool
}

// CreateRestaurantInput carries the fields an owner provides at signup.
type CreateRestaurantInput struct {
	OwnerID           uuid.UUID
	Name              string
	Description       *string
	CuisineType       string
	Tags              []string
	AddressLine       string
	City              string
	Phone             *string
	ImageURL          *string
	DeliveryFeeCents  int
	MinimumOrderCents int
	DeliveryTimeMin   int
	DeliveryTimeMax   int
}

// UpdateRestaurantInput carries optional profile changes. Nil fields are
// left untouched.
type UpdateRestaurantInput struct {
	Name              *string
	Description       *string
	CuisineType       *string
	Tags              []string
	AddressLine       *string
	City              *string
	Phone             *string
	ImageURL          *string
	DeliveryFeeCents  *int
	MinimumOrderCents *int
	DeliveryTimeMin   *int
	DeliveryTimeMax   *int
}

// CreateCategoryInput carries a new menu category for an owner's restaurant.
type CreateCategoryInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description *string
	SortOrder   int
}

// UpdateCategoryInput carries optional category changes. Nil fields are
// left untouched.
type UpdateCategoryInput struct {
	OwnerID     uuid.UUID
	CategoryID  uuid.UUID
	Name        *string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

// CreateMenuItemInput carries a new dish for an owner's menu.
type CreateMenuItemInput struct {
	OwnerID             uuid.UUID
	CategoryID          uuid.UUID
	Name                string
	Description         *string
	PriceCents          int
	ImageURL            *string
	IsVegetarian        bool
	IsVegan             bool
	IsGlutenFree        bool
	Calories            *int
	PreparationTimeMins int
	SortOrder           int
}

// UpdateMenuItemInput carries optional dish changes. Nil fields are left
// untouched.
type UpdateMenuItemInput struct {
	OwnerID     uuid.UUID
	MenuItemID  uuid.UUID
	Name        *string
	Description *string
	PriceCents  *int
	ImageURL    *string
	IsAvailable *bool
	SortOrder   *int
}
