package cart

import (
	"context"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for cart tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	FindByID(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error)
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
	UpsertItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}

// MenuItemLoader resolves menu items for snapshot pricing and validation.
type MenuItemLoader interface {
	FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error)
}
