package deliveries

import (
	"context"
	"fmt"
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/outbox/payloads"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type orderStore interface {
	FindOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error
}

// ClaimInput carries a partner's attempt to take a queued delivery.
type ClaimInput struct {
	DeliveryID uuid.UUID
	PartnerID  uuid.UUID
}

// ProgressInput carries a partner's pickup or handoff report.
type ProgressInput struct {
	DeliveryID uuid.UUID
	PartnerID  uuid.UUID
}

// Service defines the delivery partner dispatch flow.
type Service interface {
	ListAvailable(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error)
	ListMine(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error)
	Claim(ctx context.Context, input ClaimInput) (*models.Delivery, error)
	MarkPickedUp(ctx context.Context, input ProgressInput) error
	MarkDelivered(ctx context.Context, input ProgressInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	orders orderStore
}

// NewService builds a deliveries service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, orders orderStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, orders: orders}, nil
}

func (s *service) ListAvailable(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	deliveries, cursor, err := s.repo.ListQueued(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list queued deliveries")
	}
	return deliveries, cursor, nil
}

func (s *service) ListMine(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	if partnerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	deliveries, cursor, err := s.repo.ListByPartner(ctx, partnerID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partner deliveries")
	}
	return deliveries, cursor, nil
}

func (s *service) Claim(ctx context.Context, input ClaimInput) (*models.Delivery, error) {
	if input.DeliveryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery id required")
	}
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var claimed *models.Delivery
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		now := time.Now().UTC()
		won, err := txRepo.Claim(ctx, input.DeliveryID, input.PartnerID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim delivery")
		}
		if !won {
			if _, err := txRepo.FindByID(ctx, input.DeliveryID); err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
			} else if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery already claimed")
		}

		delivery, err := txRepo.FindByID(ctx, input.DeliveryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
		}
		claimed = delivery

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryAssigned,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   delivery.ID,
			Version:       1,
			Actor:         partnerActor(input.PartnerID),
			Data: payloads.DeliveryAssignedEvent{
				DeliveryID: delivery.ID,
				OrderID:    delivery.OrderID,
				PartnerID:  input.PartnerID,
				AssignedAt: now,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (s *service) MarkPickedUp(ctx context.Context, input ProgressInput) error {
	return s.progress(ctx, input, enums.DeliveryStatusAssigned, enums.DeliveryStatusPickedUp)
}

func (s *service) MarkDelivered(ctx context.Context, input ProgressInput) error {
	return s.progress(ctx, input, enums.DeliveryStatusPickedUp, enums.DeliveryStatusDelivered)
}

func (s *service) progress(ctx context.Context, input ProgressInput, from, to enums.DeliveryStatus) error {
	if input.DeliveryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery id required")
	}
	if input.PartnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		delivery, err := txRepo.FindByID(ctx, input.DeliveryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
		}
		if delivery.PartnerID == nil || *delivery.PartnerID != input.PartnerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "delivery not assigned to partner")
		}
		if delivery.Status != from {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery not in expected state")
		}

		order, err := s.orders.FindOrderTx(ctx, tx, delivery.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		now := time.Now().UTC()
		switch to {
		case enums.DeliveryStatusPickedUp:
			if order.Status != enums.OrderStatusReadyForPickup {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for pickup")
			}
			if err := txRepo.Update(ctx, delivery.ID, map[string]any{
				"status":       to,
				"picked_up_at": &now,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery")
			}
			if err := s.orders.UpdateOrderTx(ctx, tx, order.ID, map[string]any{
				"status": enums.OrderStatusPickedUp,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
			return s.emitOrderStatus(ctx, tx, order, enums.OrderStatusPickedUp, input.PartnerID)
		case enums.DeliveryStatusDelivered:
			if order.Status != enums.OrderStatusPickedUp {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not out for delivery")
			}
			if err := txRepo.Update(ctx, delivery.ID, map[string]any{
				"status":       to,
				"delivered_at": &now,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery")
			}
			if err := s.orders.UpdateOrderTx(ctx, tx, order.ID, map[string]any{
				"status":               enums.OrderStatusDelivered,
				"actual_delivery_time": &now,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
			if err := s.emitOrderStatus(ctx, tx, order, enums.OrderStatusDelivered, input.PartnerID); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventDeliveryCompleted,
				AggregateType: enums.AggregateDelivery,
				AggregateID:   delivery.ID,
				Version:       1,
				Actor:         partnerActor(input.PartnerID),
				Data: payloads.DeliveryCompletedEvent{
					DeliveryID:  delivery.ID,
					OrderID:     order.ID,
					PartnerID:   input.PartnerID,
					DeliveredAt: now,
				},
			})
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported delivery transition")
		}
	})
}

func (s *service) emitOrderStatus(ctx context.Context, tx *gorm.DB, order *models.Order, to enums.OrderStatus, partnerID uuid.UUID) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         partnerActor(partnerID),
		Data: payloads.OrderStatusChangedEvent{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			From:         order.Status,
			To:           to,
		},
	})
}

func partnerActor(partnerID uuid.UUID) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: partnerID,
		Role:   enums.UserRoleDeliveryPartner.String(),
	}
}

// Releaser adapts the repository for order cancellation, failing any live
// dispatch attached to the order inside the caller's transaction.
type Releaser struct {
	repo Repository
}

// NewReleaser builds the adapter used by the orders service.
func NewReleaser(repo Repository) *Releaser {
	return &Releaser{repo: repo}
}

func (r *Releaser) FailByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, reason string) error {
	return r.repo.WithTx(tx).FailByOrder(ctx, orderID, reason)
}
