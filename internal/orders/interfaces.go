package orders

import (
	"context"
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}
