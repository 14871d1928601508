package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/feastly-app/feastly-backend/internal/restaurants"
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

type statsReader interface {
	CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CountRestaurantsByStatus(ctx context.Context) (map[enums.RestaurantStatus]int64, error)
	SumDeliveredRevenueCents(ctx context.Context) (int64, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountByRole(ctx context.Context) (map[enums.UserRole]int64, error)
}

// Service exposes platform moderation and reporting operations.
type Service interface {
	GetOverview(ctx context.Context) (*Overview, error)
	SuspendRestaurant(ctx context.Context, input SuspendRestaurantInput) error
	ReinstateRestaurant(ctx context.Context, restaurantID uuid.UUID) error
	SetUserActive(ctx context.Context, input SetUserActiveInput) error
}

type service struct {
	stats       statsReader
	users       userStore
	restaurants restaurants.Repository
	tx          txRunner
	outbox      outboxPublisher
}

// NewService builds the admin service with the required dependencies.
func NewService(stats statsReader, users userStore, restaurantRepo restaurants.Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if stats == nil {
		return nil, fmt.Errorf("stats reader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if restaurantRepo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		stats:       stats,
		users:       users,
		restaurants: restaurantRepo,
		tx:          tx,
		outbox:      outboxSvc,
	}, nil
}

// GetOverview assembles headline counts across users, orders and restaurants.
func (s *service) GetOverview(ctx context.Context) (*Overview, error) {
	usersByRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	ordersByStatus, err := s.stats.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	restaurantsByStatus, err := s.stats.CountRestaurantsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count restaurants")
	}
	revenue, err := s.stats.SumDeliveredRevenueCents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum delivered revenue")
	}
	return &Overview{
		UsersByRole:           usersByRole,
		OrdersByStatus:        ordersByStatus,
		RestaurantsByStatus:   restaurantsByStatus,
		DeliveredRevenueCents: revenue,
	}, nil
}

// SuspendRestaurant takes a restaurant off the marketplace and records the
// moderation decision on the outbox.
func (s *service) SuspendRestaurant(ctx context.Context, input SuspendRestaurantInput) error {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a suspension reason is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.restaurants.WithTx(tx)
		restaurant, err := txRepo.FindByID(ctx, input.RestaurantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant")
		}
		if restaurant.Status == enums.RestaurantStatusSuspended {
			return nil
		}
		if err := txRepo.UpdateStatus(ctx, restaurant.ID, enums.RestaurantStatusSuspended); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "suspend restaurant")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventRestaurantSuspended,
			AggregateType: enums.AggregateRestaurant,
			AggregateID:   restaurant.ID,
			Actor:         &outbox.ActorRef{UserID: input.AdminID, Role: enums.UserRoleAdmin.String()},
			Version:       1,
			OccurredAt:    time.Now().UTC(),
			Data: payloads.RestaurantSuspendedEvent{
				RestaurantID: restaurant.ID,
				AdminID:      input.AdminID,
				Reason:       reason,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
}

// ReinstateRestaurant returns a suspended restaurant to active listing.
func (s *service) ReinstateRestaurant(ctx context.Context, restaurantID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.restaurants.WithTx(tx)
		restaurant, err := txRepo.FindByID(ctx, restaurantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant")
		}
		if restaurant.Status != enums.RestaurantStatusSuspended {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "restaurant is not suspended")
		}
		if err := txRepo.UpdateStatus(ctx, restaurant.ID, enums.RestaurantStatusActive); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reinstate restaurant")
		}
		return nil
	})
}

// SetUserActive enables or disables a user account.
func (s *service) SetUserActive(ctx context.Context, input SetUserActiveInput) error {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.Role == enums.UserRoleAdmin && !input.Active {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot be deactivated")
	}
	if user.IsActive == input.Active {
		return nil
	}
	if err := s.users.SetActive(ctx, user.ID, input.Active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user active flag")
	}
	return nil
}
