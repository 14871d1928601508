package deliveries

import (
	"context"
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deliveries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *repository) FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("id = ?", deliveryID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ListQueued returns unassigned deliveries whose order has reached
// ready_for_pickup. Deliveries for orders still being prepared stay out of
// the partner queue.
func (r *repository) ListQueued(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return r.list(ctx, params, "status = ? AND order_id IN (?)", enums.DeliveryStatusQueued, r.readyOrderIDs())
}

func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return r.list(ctx, params, "partner_id = ?", partnerID)
}

func (r *repository) readyOrderIDs() *gorm.DB {
	return r.db.Model(&models.Order{}).
		Select("id").
		Where("status = ?", enums.OrderStatusReadyForPickup)
}

func (r *repository) list(ctx context.Context, params pagination.Params, scope string, scopeArgs ...any) ([]models.Delivery, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Delivery{}).Where(scope, scopeArgs...)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) <= (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var deliveries []models.Delivery
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&deliveries).Error; err != nil {
		return nil, nil, err
	}

	if len(deliveries) > normalized {
		next := deliveries[normalized]
		deliveries = deliveries[:normalized]
		return deliveries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return deliveries, nil, nil
}

// Claim atomically assigns a queued, unassigned delivery to a partner. The
// WHERE clause makes concurrent claims race-safe: exactly one wins. The
// order-status condition stops claims on deliveries whose order has not
// reached ready_for_pickup yet.
func (r *repository) Claim(ctx context.Context, deliveryID, partnerID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ? AND status = ? AND partner_id IS NULL AND order_id IN (?)",
			deliveryID, enums.DeliveryStatusQueued, r.readyOrderIDs()).
		Updates(map[string]any{
			"partner_id":  partnerID,
			"status":      enums.DeliveryStatusAssigned,
			"assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error
}

func (r *repository) FailByOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("order_id = ? AND status NOT IN ?", orderID, []enums.DeliveryStatus{
			enums.DeliveryStatusDelivered,
			enums.DeliveryStatusFailed,
		}).
		Updates(map[string]any{
			"status":         enums.DeliveryStatusFailed,
			"failure_reason": reason,
		}).Error
}
