package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/internal/deliveries"
	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/internal/pricing"
	"github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service turns an active cart into a confirmed order submission.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
}

type service struct {
	tx          txRunner
	carts       cart.Repository
	restaurants restaurants.Repository
	orders      orders.Repository
	deliveries  deliveries.Repository
	outbox      outboxPublisher
	cfg         config.CheckoutConfig
}

// NewService builds a checkout service with the required dependencies.
func NewService(
	tx txRunner,
	carts cart.Repository,
	restaurantsRepo restaurants.Repository,
	ordersRepo orders.Repository,
	deliveriesRepo deliveries.Repository,
	outboxSvc outboxPublisher,
	cfg config.CheckoutConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if restaurantsRepo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deliveriesRepo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:          tx,
		carts:       carts,
		restaurants: restaurantsRepo,
		orders:      ordersRepo,
		deliveries:  deliveriesRepo,
		outbox:      outboxSvc,
		cfg:         cfg,
	}, nil
}

// Submit runs the whole checkout inside one transaction. Every validation
// happens before the first write, so a failed submission leaves no order
// header, no items, and an untouched cart.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.DeliveryAddressLine) == "" || strings.TrimSpace(input.DeliveryCity) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if strings.TrimSpace(input.ContactPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact phone required")
	}
	if input.TipCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tip must be non-negative")
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		restaurantRepo := s.restaurants.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		deliveryRepo := s.deliveries.WithTx(tx)

		record, err := cartRepo.FindActiveByCustomer(ctx, input.CustomerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		liveItems, err := s.loadLiveMenu(ctx, restaurantRepo, record)
		if err != nil {
			return err
		}

		restaurant, err := restaurantRepo.FindByID(ctx, record.RestaurantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}
		if restaurant.Status != enums.RestaurantStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "restaurant is not accepting orders")
		}

		lines := make([]pricing.LineInput, 0, len(record.Items))
		for _, item := range record.Items {
			lines = append(lines, pricing.LineInput{
				Quantity:       item.Quantity,
				UnitPriceCents: liveItems[item.MenuItemID].PriceCents,
			})
		}
		quote, err := pricing.Compute(pricing.QuoteInput{
			Lines:              lines,
			DeliveryFeeCents:   restaurant.DeliveryFeeCents,
			TipCents:           input.TipCents,
			TaxRateBasisPoints: s.cfg.TaxRateBasisPoints,
		})
		if err != nil {
			return err
		}
		if quote.SubtotalCents < restaurant.MinimumOrderCents {
			return pkgerrors.New(pkgerrors.CodeValidation, "minimum order amount not met")
		}

		now := time.Now().UTC()
		order := &models.Order{
			OrderNumber:           GenerateOrderNumber(),
			CustomerID:            input.CustomerID,
			RestaurantID:          restaurant.ID,
			Status:                enums.OrderStatusPending,
			SubtotalCents:         quote.SubtotalCents,
			DeliveryFeeCents:      quote.DeliveryFeeCents,
			TaxCents:              quote.TaxCents,
			TipCents:              quote.TipCents,
			TotalCents:            quote.TotalCents,
			DeliveryAddressLine:   strings.TrimSpace(input.DeliveryAddressLine),
			DeliveryCity:          strings.TrimSpace(input.DeliveryCity),
			DeliveryInstructions:  input.DeliveryInstructions,
			ContactPhone:          strings.TrimSpace(input.ContactPhone),
			EstimatedDeliveryTime: now.Add(time.Duration(s.cfg.EstimatedDeliveryMinutes) * time.Minute),
		}
		if _, err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(record.Items))
		for _, line := range record.Items {
			live := liveItems[line.MenuItemID]
			items = append(items, models.OrderItem{
				OrderID:         order.ID,
				MenuItemID:      live.ID,
				Name:            live.Name,
				Quantity:        line.Quantity,
				UnitPriceCents:  live.PriceCents,
				TotalPriceCents: line.Quantity * live.PriceCents,
				Note:            line.Note,
			})
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items

		delivery, err := deliveryRepo.Create(ctx, &models.Delivery{
			OrderID: order.ID,
			Status:  enums.DeliveryStatusQueued,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue delivery")
		}

		if err := cartRepo.UpdateStatus(ctx, record.ID, enums.CartStatusCheckedOut); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close cart")
		}

		actor := &outbox.ActorRef{UserID: input.CustomerID, Role: enums.UserRoleCustomer.String()}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.OrderPlacedEvent{
				OrderID:      order.ID,
				OrderNumber:  order.OrderNumber,
				CustomerID:   order.CustomerID,
				RestaurantID: order.RestaurantID,
				TotalCents:   order.TotalCents,
			},
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryQueued,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   delivery.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.DeliveryQueuedEvent{
				DeliveryID:   delivery.ID,
				OrderID:      order.ID,
				RestaurantID: order.RestaurantID,
			},
		}); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// loadLiveMenu re-reads every cart line's menu item inside the checkout
// transaction. Snapshot prices in the cart are advisory only; the order is
// priced from what the restaurant sells right now.
func (s *service) loadLiveMenu(ctx context.Context, repo restaurants.Repository, record *models.CartRecord) (map[uuid.UUID]models.MenuItem, error) {
	ids := make([]uuid.UUID, 0, len(record.Items))
	for _, item := range record.Items {
		ids = append(ids, item.MenuItemID)
	}

	live, err := repo.FindMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
	}

	byID := make(map[uuid.UUID]models.MenuItem, len(live))
	for _, item := range live {
		byID[item.ID] = item
	}
	for _, line := range record.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "a cart item is no longer on the menu")
		}
		if !item.IsAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a cart item is currently unavailable")
		}
	}
	return byID, nil
}
