package restaurants

import (
	"context"
	"fmt"
	"strings"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service defines restaurant and menu management operations.
type Service interface {
	CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	GetOwnRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Restaurant, *pagination.Cursor, error)
	UpdateRestaurant(ctx context.Context, ownerID uuid.UUID, input UpdateRestaurantInput) (*models.Restaurant, error)
	AddCategory(ctx context.Context, input CreateCategoryInput) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.MenuCategory, error)
	DeleteCategory(ctx context.Context, ownerID, categoryID uuid.UUID) error
	AddMenuItem(ctx context.Context, input CreateMenuItemInput) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, input UpdateMenuItemInput) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, ownerID, menuItemID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a restaurants service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error) {
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name required")
	}
	if strings.TrimSpace(input.CuisineType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cuisine type required")
	}
	if strings.TrimSpace(input.AddressLine) == "" || strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address required")
	}
	if input.DeliveryFeeCents < 0 || input.MinimumOrderCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must be non-negative")
	}
	if input.DeliveryTimeMin > 0 && input.DeliveryTimeMax > 0 && input.DeliveryTimeMax < input.DeliveryTimeMin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery time range inverted")
	}

	if _, err := s.repo.FindByOwner(ctx, input.OwnerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "owner already has a restaurant")
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing restaurant")
	}

	restaurant := &models.Restaurant{
		OwnerID:           input.OwnerID,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		CuisineType:       strings.TrimSpace(input.CuisineType),
		Tags:              pq.StringArray(input.Tags),
		AddressLine:       strings.TrimSpace(input.AddressLine),
		City:              strings.TrimSpace(input.City),
		Phone:             input.Phone,
		ImageURL:          input.ImageURL,
		DeliveryFeeCents:  input.DeliveryFeeCents,
		MinimumOrderCents: input.MinimumOrderCents,
		Status:            enums.RestaurantStatusActive,
	}
	if input.DeliveryTimeMin > 0 {
		restaurant.DeliveryTimeMin = input.DeliveryTimeMin
	}
	if input.DeliveryTimeMax > 0 {
		restaurant.DeliveryTimeMax = input.DeliveryTimeMax
	}

	created, err := s.repo.Create(ctx, restaurant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}
	return created, nil
}

func (s *service) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) GetOwnRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	restaurant, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no restaurant for owner")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return s.GetRestaurant(ctx, restaurant.ID)
}

func (s *service) ListRestaurants(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Restaurant, *pagination.Cursor, error) {
	if filters.Status == "" {
		filters.Status = enums.RestaurantStatusActive
	}
	restaurants, cursor, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return restaurants, cursor, nil
}

func (s *service) UpdateRestaurant(ctx context.Context, ownerID uuid.UUID, input UpdateRestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.CuisineType != nil {
		updates["cuisine_type"] = strings.TrimSpace(*input.CuisineType)
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if input.AddressLine != nil {
		updates["address_line"] = strings.TrimSpace(*input.AddressLine)
	}
	if input.City != nil {
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.DeliveryFeeCents != nil {
		if *input.DeliveryFeeCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must be non-negative")
		}
		updates["delivery_fee_cents"] = *input.DeliveryFeeCents
	}
	if input.MinimumOrderCents != nil {
		if *input.MinimumOrderCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order must be non-negative")
		}
		updates["minimum_order_cents"] = *input.MinimumOrderCents
	}
	if input.DeliveryTimeMin != nil {
		updates["delivery_time_min"] = *input.DeliveryTimeMin
	}
	if input.DeliveryTimeMax != nil {
		updates["delivery_time_max"] = *input.DeliveryTimeMax
	}
	if len(updates) == 0 {
		return s.GetRestaurant(ctx, restaurant.ID)
	}

	if err := s.repo.Update(ctx, restaurant.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	return s.GetRestaurant(ctx, restaurant.ID)
}

func (s *service) AddCategory(ctx context.Context, input CreateCategoryInput) (*models.MenuCategory, error) {
	restaurant, err := s.ownedRestaurant(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category, err := s.repo.CreateCategory(ctx, &models.MenuCategory{
		RestaurantID: restaurant.ID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		SortOrder:    input.SortOrder,
		IsActive:     true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.MenuCategory, error) {
	category, err := s.ownedCategory(ctx, input.OwnerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := s.repo.UpdateCategory(ctx, category.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu category")
	}
	return s.repo.FindCategory(ctx, category.ID)
}

func (s *service) DeleteCategory(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	category, err := s.ownedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, category.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu category")
	}
	return nil
}

func (s *service) AddMenuItem(ctx context.Context, input CreateMenuItemInput) (*models.MenuItem, error) {
	restaurant, err := s.ownedRestaurant(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	category, err := s.repo.FindCategory(ctx, input.CategoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu category")
	}
	if category.RestaurantID != restaurant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "category does not belong to restaurant")
	}

	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		ImageURL:     input.ImageURL,
		IsAvailable:  true,
		IsVegetarian: input.IsVegetarian,
		IsVegan:      input.IsVegan,
		IsGlutenFree: input.IsGlutenFree,
		Calories:     input.Calories,
		SortOrder:    input.SortOrder,
	}
	if input.PreparationTimeMins > 0 {
		item.PreparationTimeMins = input.PreparationTimeMins
	}

	created, err := s.repo.CreateMenuItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	return created, nil
}

func (s *service) UpdateMenuItem(ctx context.Context, input UpdateMenuItemInput) (*models.MenuItem, error) {
	restaurant, err := s.ownedRestaurant(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}

	item, err := s.repo.FindMenuItem(ctx, input.MenuItemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if item.RestaurantID != restaurant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "menu item does not belong to restaurant")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.repo.UpdateMenuItem(ctx, item.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	return s.repo.FindMenuItem(ctx, item.ID)
}

func (s *service) DeleteMenuItem(ctx context.Context, ownerID, menuItemID uuid.UUID) error {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}
	if menuItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}

	item, err := s.repo.FindMenuItem(ctx, menuItemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if item.RestaurantID != restaurant.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "menu item does not belong to restaurant")
	}

	if err := s.repo.DeleteMenuItem(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	return nil
}

func (s *service) ownedCategory(ctx context.Context, ownerID, categoryID uuid.UUID) (*models.MenuCategory, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu category")
	}
	if category.RestaurantID != restaurant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "category does not belong to restaurant")
	}
	return category, nil
}

func (s *service) ownedRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	restaurant, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no restaurant for owner")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}
