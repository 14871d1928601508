package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/outbox/payloads"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const expiredOrderReason = "order expired before the restaurant confirmed it"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type pendingOrderReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// OrderTTLJobParams configure the pending order expiration job.
type OrderTTLJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Orders     orders.Repository
	Deliveries orders.DeliveryReleaser
	Outbox     outboxEmitter
	PendingTTL time.Duration
}

// NewOrderTTLJob builds the cron job that cancels orders no restaurant picked up.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Deliveries == nil {
		return nil, fmt.Errorf("delivery releaser required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if params.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending ttl must be positive")
	}
	return &orderTTLJob{
		logg:       params.Logger,
		db:         params.DB,
		orders:     params.Orders,
		deliveries: params.Deliveries,
		outbox:     params.Outbox,
		pendingTTL: params.PendingTTL,
		now:        time.Now,
	}, nil
}

type orderTTLJob struct {
	logg       *logger.Logger
	db         txRunner
	orders     orders.Repository
	deliveries orders.DeliveryReleaser
	outbox     outboxEmitter
	pendingTTL time.Duration
	now        func() time.Time
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.pendingTTL)
	stale, err := j.orders.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}
	count := 0
	var errs []error
	for _, order := range stale {
		if err := j.expireOrder(ctx, order); err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"count":  count,
		"failed": len(errs),
	})
	j.logg.Info(logCtx, "order expiration loop complete")
	return multierr.Combine(errs...)
}

func (j *orderTTLJob) expireOrder(ctx context.Context, order models.Order) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := j.orders.WithTx(tx)
		current, err := txRepo.FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		// The restaurant may have confirmed between the scan and this tx.
		if current.Status != enums.OrderStatusPending {
			return nil
		}
		now := j.now().UTC()
		reason := expiredOrderReason
		updates := map[string]any{
			"status":              enums.OrderStatusCancelled,
			"cancelled_at":        &now,
			"cancellation_reason": &reason,
		}
		if err := txRepo.Update(ctx, current.ID, updates); err != nil {
			return err
		}
		if err := j.deliveries.FailByOrder(ctx, tx, current.ID, reason); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderExpired,
			AggregateType: enums.AggregateOrder,
			AggregateID:   current.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderExpiredEvent{
				OrderID:      current.ID,
				RestaurantID: current.RestaurantID,
				ExpiredAt:    now,
				PendingFor:   now.Sub(current.CreatedAt).Truncate(time.Second).String(),
			},
		}
		return j.outbox.Emit(ctx, tx, event)
	})
}
