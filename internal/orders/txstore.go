package orders

import (
	"context"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TxStore exposes order reads and writes bound to a caller-owned
// transaction, for services that move orders alongside their own rows.
type TxStore struct {
	repo Repository
}

// NewTxStore builds the adapter around an orders repository.
func NewTxStore(repo Repository) *TxStore {
	return &TxStore{repo: repo}
}

func (s *TxStore) FindOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.WithTx(tx).FindByID(ctx, orderID)
}

func (s *TxStore) UpdateOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error {
	return s.repo.WithTx(tx).Update(ctx, orderID, updates)
}
