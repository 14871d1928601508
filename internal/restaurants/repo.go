package restaurants

import (
	"context"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a restaurants repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Restaurant, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CuisineType != "" {
		query = query.Where("cuisine_type = ?", filters.CuisineType)
	}
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.FeaturedOnly {
		query = query.Where("is_featured = TRUE")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) <= (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var restaurants []models.Restaurant
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&restaurants).Error; err != nil {
		return nil, nil, err
	}

	if len(restaurants) > normalized {
		next := restaurants[normalized]
		restaurants = restaurants[:normalized]
		return restaurants, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return restaurants, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RestaurantStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteCategory removes a category; its menu items go with it via the
// ON DELETE CASCADE foreign key.
func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuCategory{}).Error
}

func (r *repository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuItem{}).Error
}

func (r *repository) FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", menuItemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
