package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/internal/deliveries"
	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"

	restaurantsvc "github.com/feastly-app/feastly-backend/internal/restaurants"
)

var testCheckoutConfig = config.CheckoutConfig{
	EstimatedDeliveryMinutes: 45,
	TaxRateBasisPoints:       800,
}

func TestSubmitHappyPath(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.restaurant.DeliveryFeeCents = 300

	svc := fix.newService(t)
	order, err := svc.Submit(context.Background(), fix.input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.SubtotalCents != 2550 {
		t.Fatalf("expected subtotal 2550, got %d", order.SubtotalCents)
	}
	if order.TaxCents != 204 {
		t.Fatalf("expected tax 204, got %d", order.TaxCents)
	}
	if order.TotalCents != 3054 {
		t.Fatalf("expected total 3054, got %d", order.TotalCents)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %q", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected two order items, got %d", len(order.Items))
	}
	if order.Items[0].Name == "" {
		t.Fatal("expected item name snapshot")
	}
	if got := order.EstimatedDeliveryTime.Sub(order.CreatedAt); got > time.Hour {
		t.Fatalf("eta too far out: %v", got)
	}

	if len(fix.deliveryRepo.created) != 1 {
		t.Fatalf("expected one delivery queued, got %d", len(fix.deliveryRepo.created))
	}
	if fix.cartRepo.statuses[fix.cartRecord.ID] != enums.CartStatusCheckedOut {
		t.Fatal("expected cart checked out")
	}
	if len(fix.emitter.events) != 2 {
		t.Fatalf("expected two events, got %d", len(fix.emitter.events))
	}
	if fix.emitter.events[0].EventType != enums.EventOrderPlaced {
		t.Fatalf("expected order placed first, got %q", fix.emitter.events[0].EventType)
	}
	if fix.emitter.events[1].EventType != enums.EventDeliveryQueued {
		t.Fatalf("expected delivery queued second, got %q", fix.emitter.events[1].EventType)
	}
}

func TestSubmitUsesLivePrices(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	// Cart snapshots say 1099 but the restaurant has since raised the price.
	fix.menuItems[0].PriceCents = 1299

	svc := fix.newService(t)
	order, err := svc.Submit(context.Background(), fix.input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2*1299 + 1*352
	if order.SubtotalCents != 2950 {
		t.Fatalf("expected live-priced subtotal 2950, got %d", order.SubtotalCents)
	}
}

func TestSubmitNoActiveCart(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.cartRepo.record = nil

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.cartRecord.Items = nil

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitItemRemovedFromMenu(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.menuItems = fix.menuItems[:1]

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitItemUnavailable(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.menuItems[1].IsAvailable = false

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitRestaurantSuspended(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.restaurant.Status = enums.RestaurantStatusSuspended

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitMinimumOrderNotMet(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.restaurant.MinimumOrderCents = 5000

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fix.assertNoWrites(t)
}

func TestSubmitOrderWriteFailureAbortsTransaction(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.orderRepo.createErr = errors.New("connection reset")

	svc := fix.newService(t)
	_, err := svc.Submit(context.Background(), fix.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !fix.txRunner.rolledBack {
		t.Fatal("expected transaction rollback")
	}
	if len(fix.deliveryRepo.created) != 0 {
		t.Fatal("expected no delivery after failed order insert")
	}
}

func TestSubmitInputValidation(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	svc := fix.newService(t)

	cases := []struct {
		name  string
		input SubmitInput
	}{
		{"missing customer", SubmitInput{DeliveryAddressLine: "1 St", DeliveryCity: "Austin", ContactPhone: "555"}},
		{"missing address", SubmitInput{CustomerID: uuid.New(), DeliveryCity: "Austin", ContactPhone: "555"}},
		{"missing phone", SubmitInput{CustomerID: uuid.New(), DeliveryAddressLine: "1 St", DeliveryCity: "Austin"}},
		{"negative tip", SubmitInput{CustomerID: uuid.New(), DeliveryAddressLine: "1 St", DeliveryCity: "Austin", ContactPhone: "555", TipCents: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.Submit(context.Background(), tc.input); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type fixture struct {
	customerID   uuid.UUID
	restaurant   *models.Restaurant
	menuItems    []models.MenuItem
	cartRecord   *models.CartRecord
	cartRepo     *stubCartRepo
	orderRepo    *stubOrderRepo
	deliveryRepo *stubDeliveryRepo
	emitter      *stubEmitter
	txRunner     *recordingTxRunner
}

func newFixture() *fixture {
	customerID := uuid.New()
	restaurantID := uuid.New()
	itemA := models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, Name: "Pad Thai", PriceCents: 1099, IsAvailable: true}
	itemB := models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, Name: "Spring Rolls", PriceCents: 352, IsAvailable: true}

	record := &models.CartRecord{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Status:       enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: uuid.New(), MenuItemID: itemA.ID, Quantity: 2, UnitPriceCents: 1099},
			{ID: uuid.New(), MenuItemID: itemB.ID, Quantity: 1, UnitPriceCents: 352},
		},
	}

	fix := &fixture{
		customerID: customerID,
		restaurant: &models.Restaurant{
			ID:               restaurantID,
			Status:           enums.RestaurantStatusActive,
			DeliveryFeeCents: 300,
		},
		menuItems:    []models.MenuItem{itemA, itemB},
		cartRecord:   record,
		orderRepo:    &stubOrderRepo{},
		deliveryRepo: &stubDeliveryRepo{},
		emitter:      &stubEmitter{},
		txRunner:     &recordingTxRunner{},
	}
	fix.cartRepo = &stubCartRepo{record: record, statuses: map[uuid.UUID]enums.CartStatus{}}
	return fix
}

func (f *fixture) newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(
		f.txRunner,
		f.cartRepo,
		&stubRestaurantRepo{fixture: f},
		f.orderRepo,
		f.deliveryRepo,
		f.emitter,
		testCheckoutConfig,
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func (f *fixture) input() SubmitInput {
	return SubmitInput{
		CustomerID:          f.customerID,
		DeliveryAddressLine: "500 Congress Ave",
		DeliveryCity:        "Austin",
		ContactPhone:        "512-555-0188",
	}
}

func (f *fixture) assertNoWrites(t *testing.T) {
	t.Helper()
	if len(f.orderRepo.created) != 0 {
		t.Fatal("expected no order header written")
	}
	if len(f.deliveryRepo.created) != 0 {
		t.Fatal("expected no delivery written")
	}
	if len(f.emitter.events) != 0 {
		t.Fatal("expected no events emitted")
	}
	if f.cartRepo.statuses[f.cartRecord.ID] == enums.CartStatusCheckedOut {
		t.Fatal("expected cart left open")
	}
}

type recordingTxRunner struct {
	rolledBack bool
}

func (r *recordingTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := fn(&gorm.DB{})
	if err != nil {
		r.rolledBack = true
	}
	return err
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubCartRepo struct {
	record   *models.CartRecord
	statuses map[uuid.UUID]enums.CartStatus
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	return record, nil
}

func (s *stubCartRepo) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil || s.record.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) FindByID(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil || s.record.ID != cartID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	s.statuses[cartID] = status
	return nil
}

func (s *stubCartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *stubCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error { return nil }

type stubRestaurantRepo struct {
	fixture *fixture
}

func (s *stubRestaurantRepo) WithTx(tx *gorm.DB) restaurantsvc.Repository { return s }

func (s *stubRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	return restaurant, nil
}

func (s *stubRestaurantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if s.fixture.restaurant == nil || s.fixture.restaurant.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.fixture.restaurant, nil
}

func (s *stubRestaurantRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) List(ctx context.Context, params pagination.Params, filters restaurantsvc.ListFilters) ([]models.Restaurant, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubRestaurantRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRestaurantRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RestaurantStatus) error {
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
	for i := range s.fixture.menuItems {
		if s.fixture.menuItems[i].ID == menuItemID {
			return &s.fixture.menuItems[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var found []models.MenuItem
	for _, id := range ids {
		for _, item := range s.fixture.menuItems {
			if item.ID == id {
				found = append(found, item)
			}
		}
	}
	return found, nil
}

type stubOrderRepo struct {
	created   []*models.Order
	items     []models.OrderItem
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now().UTC()
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrderRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters orders.ListFilters) ([]models.Order, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubOrderRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters orders.ListFilters) ([]models.Order, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func (s *stubOrderRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubOrderRepo) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	return nil, nil
}

type stubDeliveryRepo struct {
	created []*models.Delivery
}

func (s *stubDeliveryRepo) WithTx(tx *gorm.DB) deliveries.Repository { return s }

func (s *stubDeliveryRepo) Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	delivery.ID = uuid.New()
	s.created = append(s.created, delivery)
	return delivery, nil
}

func (s *stubDeliveryRepo) FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDeliveryRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDeliveryRepo) ListQueued(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubDeliveryRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubDeliveryRepo) Claim(ctx context.Context, deliveryID, partnerID uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (s *stubDeliveryRepo) Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubDeliveryRepo) FailByOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return nil
}
