package orders

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

type restaurantLoader interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
}

// DeliveryReleaser closes out the dispatch record when an order dies.
type DeliveryReleaser interface {
	FailByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, reason string) error
}

// Service defines order reads and state transitions.
type Service interface {
	GetOrder(ctx context.Context, input GetOrderInput) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error)
	ListRestaurantOrders(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) error
	Cancel(ctx context.Context, input CancelInput) error
}

type service struct {
	repo        Repository
	tx          txRunner
	outbox      outboxPublisher
	restaurants restaurantLoader
	deliveries  DeliveryReleaser
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, restaurants restaurantLoader, deliveries DeliveryReleaser) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant loader required")
	}
	if deliveries == nil {
		return nil, fmt.Errorf("delivery releaser required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		outbox:      outboxSvc,
		restaurants: restaurants,
		deliveries:  deliveries,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, input GetOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch input.Actor.Role {
	case enums.UserRoleAdmin:
		return order, nil
	case enums.UserRoleCustomer:
		if order.CustomerID != input.Actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
		}
		return order, nil
	case enums.UserRoleRestaurantOwner:
		restaurant, err := s.restaurants.FindByOwner(ctx, input.Actor.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no restaurant for owner")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}
		if order.RestaurantID != restaurant.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
		}
		return order, nil
	case enums.UserRoleDeliveryPartner:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "delivery partners read orders through dispatch")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error) {
	if customerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, cursor, err := s.repo.ListByCustomer(ctx, customerID, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return orders, cursor, nil
}

func (s *service) ListRestaurantOrders(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, *pagination.Cursor, error) {
	if ownerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	restaurant, err := s.restaurants.FindByOwner(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "no restaurant for owner")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	orders, cursor, err := s.repo.ListByRestaurant(ctx, restaurant.ID, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant orders")
	}
	return orders, cursor, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.To.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.To == enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeValidation, "use cancel for cancellation")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := s.authorizeTransition(ctx, order, input.Actor, input.To); err != nil {
			return err
		}
		if order.Status == input.To {
			return nil
		}
		if !order.Status.CanTransitionTo(input.To) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed from current status")
		}

		if err := txRepo.UpdateStatus(ctx, order.ID, input.To); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:      order.ID,
				RestaurantID: order.RestaurantID,
				From:         order.Status,
				To:           input.To,
			},
		})
	})
}

func (s *service) Cancel(ctx context.Context, input CancelInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := s.authorizeCancel(ctx, order, input.Actor); err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
		}

		now := time.Now().UTC()
		var reason string
		updates := map[string]any{
			"status":       enums.OrderStatusCancelled,
			"cancelled_at": &now,
		}
		if input.Reason != nil {
			reason = *input.Reason
			updates["cancellation_reason"] = reason
		}
		if err := txRepo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if err := s.deliveries.FailByOrder(ctx, tx, order.ID, "order cancelled"); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release delivery")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.OrderCancelledEvent{
				OrderID:      order.ID,
				CustomerID:   order.CustomerID,
				RestaurantID: order.RestaurantID,
				CancelledAt:  now,
				Reason:       reason,
			},
		})
	})
}

// authorizeTransition gates which statuses each role may set. Every role is
// handled explicitly so a new role fails closed.
func (s *service) authorizeTransition(ctx context.Context, order *models.Order, actor Actor, to enums.OrderStatus) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleRestaurantOwner:
		restaurant, err := s.restaurants.FindByOwner(ctx, actor.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeForbidden, "no restaurant for owner")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}
		if order.RestaurantID != restaurant.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
		}
		switch to {
		case enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusReadyForPickup:
			return nil
		default:
			return pkgerrors.New(pkgerrors.CodeForbidden, "status not settable by restaurant")
		}
	case enums.UserRoleCustomer:
		return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel")
	case enums.UserRoleDeliveryPartner:
		return pkgerrors.New(pkgerrors.CodeForbidden, "pickup and delivery go through dispatch")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

func (s *service) authorizeCancel(ctx context.Context, order *models.Order, actor Actor) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleCustomer:
		if order.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "customers may cancel only pending orders")
		}
		return nil
	case enums.UserRoleRestaurantOwner:
		restaurant, err := s.restaurants.FindByOwner(ctx, actor.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeForbidden, "no restaurant for owner")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}
		if order.RestaurantID != restaurant.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
		}
		return nil
	case enums.UserRoleDeliveryPartner:
		return pkgerrors.New(pkgerrors.CodeForbidden, "delivery partners cannot cancel orders")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: actor.UserID,
		Role:   actor.Role.String(),
	}
}
