package admin

import (
	"context"
	"testing"

	"github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/feastly-app/feastly-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubStats struct{}

func (stubStats) CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return map[enums.OrderStatus]int64{enums.OrderStatusPending: 3, enums.OrderStatusDelivered: 12}, nil
}

func (stubStats) CountRestaurantsByStatus(ctx context.Context) (map[enums.RestaurantStatus]int64, error) {
	return map[enums.RestaurantStatus]int64{enums.RestaurantStatusActive: 5}, nil
}

func (stubStats) SumDeliveredRevenueCents(ctx context.Context) (int64, error) {
	return 482_500, nil
}

type stubUsers struct {
	users      map[uuid.UUID]*models.User
	setCalls   map[uuid.UUID]bool
	countCalls int
}

func newStubUsers(users ...*models.User) *stubUsers {
	s := &stubUsers{users: map[uuid.UUID]*models.User{}, setCalls: map[uuid.UUID]bool{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsers) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.setCalls[id] = active
	return nil
}

func (s *stubUsers) CountByRole(ctx context.Context) (map[enums.UserRole]int64, error) {
	s.countCalls++
	return map[enums.UserRole]int64{enums.UserRoleCustomer: 20}, nil
}

type stubRestaurantRepo struct {
	restaurant *models.Restaurant
	statuses   []enums.RestaurantStatus
}

func (s *stubRestaurantRepo) WithTx(tx *gorm.DB) restaurants.Repository { return s }

func (s *stubRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	return restaurant, nil
}

func (s *stubRestaurantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if s.restaurant == nil || s.restaurant.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.restaurant, nil
}

func (s *stubRestaurantRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) List(ctx context.Context, params pagination.Params, filters restaurants.ListFilters) ([]models.Restaurant, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubRestaurantRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRestaurantRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RestaurantStatus) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubRestaurantRepo) CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error) {
	return category, nil
}

func (s *stubRestaurantRepo) FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRestaurantRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubRestaurantRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	return item, nil
}

func (s *stubRestaurantRepo) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRestaurantRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubRestaurantRepo) FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	return nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, users *stubUsers, repo *stubRestaurantRepo, emitter *stubEmitter) Service {
	t.Helper()
	svc, err := NewService(stubStats{}, users, repo, stubTxRunner{}, emitter)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetOverview(t *testing.T) {
	t.Parallel()

	users := newStubUsers()
	svc := newTestService(t, users, &stubRestaurantRepo{}, &stubEmitter{})

	overview, err := svc.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("get overview: %v", err)
	}
	if overview.UsersByRole[enums.UserRoleCustomer] != 20 {
		t.Fatalf("expected 20 customers, got %d", overview.UsersByRole[enums.UserRoleCustomer])
	}
	if overview.OrdersByStatus[enums.OrderStatusPending] != 3 {
		t.Fatalf("expected 3 pending orders, got %d", overview.OrdersByStatus[enums.OrderStatusPending])
	}
	if overview.RestaurantsByStatus[enums.RestaurantStatusActive] != 5 {
		t.Fatalf("expected 5 active restaurants, got %d", overview.RestaurantsByStatus[enums.RestaurantStatusActive])
	}
	if overview.DeliveredRevenueCents != 482_500 {
		t.Fatalf("unexpected delivered revenue: %d", overview.DeliveredRevenueCents)
	}
}

func TestSuspendRestaurantEmitsEvent(t *testing.T) {
	t.Parallel()

	restaurant := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusActive}
	repo := &stubRestaurantRepo{restaurant: restaurant}
	emitter := &stubEmitter{}
	svc := newTestService(t, newStubUsers(), repo, emitter)

	adminID := uuid.New()
	err := svc.SuspendRestaurant(context.Background(), SuspendRestaurantInput{
		RestaurantID: restaurant.ID,
		AdminID:      adminID,
		Reason:       "repeat hygiene complaints",
	})
	if err != nil {
		t.Fatalf("suspend restaurant: %v", err)
	}
	if len(repo.statuses) != 1 || repo.statuses[0] != enums.RestaurantStatusSuspended {
		t.Fatalf("expected suspended status update, got %v", repo.statuses)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventRestaurantSuspended {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	if event.Actor == nil || event.Actor.UserID != adminID || event.Actor.Role != enums.UserRoleAdmin.String() {
		t.Fatalf("unexpected actor %+v", event.Actor)
	}
	payload, ok := event.Data.(payloads.RestaurantSuspendedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Data)
	}
	if payload.AdminID != adminID || payload.Reason != "repeat hygiene complaints" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestSuspendRestaurantRequiresReason(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUsers(), &stubRestaurantRepo{}, &stubEmitter{})

	err := svc.SuspendRestaurant(context.Background(), SuspendRestaurantInput{
		RestaurantID: uuid.New(),
		AdminID:      uuid.New(),
		Reason:       "   ",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSuspendRestaurantAlreadySuspendedIsNoOp(t *testing.T) {
	t.Parallel()

	restaurant := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusSuspended}
	repo := &stubRestaurantRepo{restaurant: restaurant}
	emitter := &stubEmitter{}
	svc := newTestService(t, newStubUsers(), repo, emitter)

	err := svc.SuspendRestaurant(context.Background(), SuspendRestaurantInput{
		RestaurantID: restaurant.ID,
		AdminID:      uuid.New(),
		Reason:       "duplicate report",
	})
	if err != nil {
		t.Fatalf("suspend restaurant: %v", err)
	}
	if len(repo.statuses) != 0 || len(emitter.events) != 0 {
		t.Fatalf("expected no writes for already suspended restaurant")
	}
}

func TestReinstateRestaurant(t *testing.T) {
	t.Parallel()

	restaurant := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusSuspended}
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc := newTestService(t, newStubUsers(), repo, &stubEmitter{})

	if err := svc.ReinstateRestaurant(context.Background(), restaurant.ID); err != nil {
		t.Fatalf("reinstate restaurant: %v", err)
	}
	if len(repo.statuses) != 1 || repo.statuses[0] != enums.RestaurantStatusActive {
		t.Fatalf("expected active status update, got %v", repo.statuses)
	}
}

func TestReinstateRestaurantNotSuspended(t *testing.T) {
	t.Parallel()

	restaurant := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusActive}
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc := newTestService(t, newStubUsers(), repo, &stubEmitter{})

	err := svc.ReinstateRestaurant(context.Background(), restaurant.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSetUserActive(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Role: enums.UserRoleCustomer, IsActive: true}
	users := newStubUsers(user)
	svc := newTestService(t, users, &stubRestaurantRepo{}, &stubEmitter{})

	if err := svc.SetUserActive(context.Background(), SetUserActiveInput{UserID: user.ID, Active: false}); err != nil {
		t.Fatalf("set user active: %v", err)
	}
	if active, ok := users.setCalls[user.ID]; !ok || active {
		t.Fatalf("expected deactivation call, got %v", users.setCalls)
	}
}

func TestSetUserActiveRefusesAdminDeactivation(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Role: enums.UserRoleAdmin, IsActive: true}
	users := newStubUsers(user)
	svc := newTestService(t, users, &stubRestaurantRepo{}, &stubEmitter{})

	err := svc.SetUserActive(context.Background(), SetUserActiveInput{UserID: user.ID, Active: false})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(users.setCalls) != 0 {
		t.Fatalf("expected no writes, got %v", users.setCalls)
	}
}

func TestSetUserActiveUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUsers(), &stubRestaurantRepo{}, &stubEmitter{})

	err := svc.SetUserActive(context.Background(), SetUserActiveInput{UserID: uuid.New(), Active: true})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
