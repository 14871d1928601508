package deliveries

import (
	"context"
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the deliveries table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error)
	FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error)
	ListQueued(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error)
	Claim(ctx context.Context, deliveryID, partnerID uuid.UUID, at time.Time) (bool, error)
	Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error
	FailByOrder(ctx context.Context, orderID uuid.UUID, reason string) error
}
