package admin

import (
	"context"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository aggregates cross-table counts for platform reporting.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an admin repository bound to the given connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountOrdersByStatus groups every order by its current status.
func (r *Repository) CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SumDeliveredRevenueCents totals every delivered order's final amount.
func (r *Repository) SumDeliveredRevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountRestaurantsByStatus groups every restaurant by its listing status.
func (r *Repository) CountRestaurantsByStatus(ctx context.Context) (map[enums.RestaurantStatus]int64, error) {
	var rows []struct {
		Status enums.RestaurantStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.RestaurantStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
