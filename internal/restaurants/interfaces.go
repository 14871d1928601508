package restaurants

import (
	"context"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for restaurant and menu tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Restaurant, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RestaurantStatus) error
	CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error)
	FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
}
