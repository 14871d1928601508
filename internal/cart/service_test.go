package cart

import (
	"context"
	"testing"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServiceGetActiveCartEmpty(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, &stubMenuLoader{})

	view, err := svc.GetActiveCart(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 0 || view.SubtotalCents != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestServiceGetActiveCartTotals(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	repo := newStubRepo()
	repo.active = &models.CartRecord{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: uuid.New(), MenuItemID: uuid.New(), Quantity: 2, UnitPriceCents: 1099},
			{ID: uuid.New(), MenuItemID: uuid.New(), Quantity: 1, UnitPriceCents: 352},
		},
	}
	svc := newTestService(t, repo, &stubMenuLoader{})

	view, err := svc.GetActiveCart(context.Background(), customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", view.ItemCount)
	}
	if view.SubtotalCents != 2550 {
		t.Fatalf("expected subtotal 2550, got %d", view.SubtotalCents)
	}
}

func TestServiceAddItemCreatesCart(t *testing.T) {
	t.Parallel()

	restaurantID := uuid.New()
	menuItem := &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, PriceCents: 1275, IsAvailable: true}
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubMenuLoader{item: menuItem})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: uuid.New(),
		MenuItemID: menuItem.ID,
		Quantity:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one cart created, got %d", len(repo.created))
	}
	if repo.created[0].RestaurantID != restaurantID {
		t.Fatalf("cart bound to wrong restaurant")
	}
	if len(repo.upserted) != 1 || repo.upserted[0].UnitPriceCents != 1275 {
		t.Fatalf("expected snapshot price 1275, got %+v", repo.upserted)
	}
}

func TestServiceAddItemDifferentRestaurantAbandonsCart(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	oldCartID := uuid.New()
	repo := newStubRepo()
	repo.active = &models.CartRecord{
		ID:           oldCartID,
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       enums.CartStatusActive,
	}
	menuItem := &models.MenuItem{ID: uuid.New(), RestaurantID: uuid.New(), PriceCents: 900, IsAvailable: true}
	svc := newTestService(t, repo, &stubMenuLoader{item: menuItem})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		MenuItemID: menuItem.ID,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.statuses[oldCartID]; got != enums.CartStatusAbandoned {
		t.Fatalf("expected old cart abandoned, got %q", got)
	}
	if len(repo.created) != 1 || repo.created[0].RestaurantID != menuItem.RestaurantID {
		t.Fatalf("expected new cart for second restaurant")
	}
}

func TestServiceAddItemUnavailable(t *testing.T) {
	t.Parallel()

	menuItem := &models.MenuItem{ID: uuid.New(), RestaurantID: uuid.New(), PriceCents: 500, IsAvailable: false}
	svc := newTestService(t, newStubRepo(), &stubMenuLoader{item: menuItem})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: uuid.New(),
		MenuItemID: menuItem.ID,
		Quantity:   1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceAddItemQuantityBounds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), &stubMenuLoader{})

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), AddItemInput{
			CustomerID: uuid.New(),
			MenuItemID: uuid.New(),
			Quantity:   qty,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestServiceSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	menuItemID := uuid.New()
	lineID := uuid.New()
	repo := newStubRepo()
	repo.active = &models.CartRecord{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: lineID, MenuItemID: menuItemID, Quantity: 2, UnitPriceCents: 700},
		},
	}
	svc := newTestService(t, repo, &stubMenuLoader{})

	_, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		CustomerID: customerID,
		MenuItemID: menuItemID,
		Quantity:   0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deletedItems) != 1 || repo.deletedItems[0] != lineID {
		t.Fatalf("expected line %s deleted, got %v", lineID, repo.deletedItems)
	}
}

func TestServiceSetQuantityMissingLine(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	repo := newStubRepo()
	repo.active = &models.CartRecord{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       enums.CartStatusActive,
	}
	svc := newTestService(t, repo, &stubMenuLoader{})

	_, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		CustomerID: customerID,
		MenuItemID: uuid.New(),
		Quantity:   3,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceClearCart(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	cartID := uuid.New()
	repo := newStubRepo()
	repo.active = &models.CartRecord{
		ID:           cartID,
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       enums.CartStatusActive,
	}
	svc := newTestService(t, repo, &stubMenuLoader{})

	if err := svc.ClearCart(context.Background(), customerID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.itemsCleared {
		t.Fatal("expected cart items removed")
	}
	if got := repo.statuses[cartID]; got != enums.CartStatusAbandoned {
		t.Fatalf("expected cart abandoned, got %q", got)
	}
}

func newTestService(t *testing.T, repo Repository, menu MenuItemLoader) Service {
	t.Helper()
	svc, err := NewService(repo, menu, stubTxRunner{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubMenuLoader struct {
	item *models.MenuItem
	err  error
}

func (s *stubMenuLoader) FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.item, nil
}

type stubRepo struct {
	active       *models.CartRecord
	created      []*models.CartRecord
	upserted     []*models.CartItem
	statuses     map[uuid.UUID]enums.CartStatus
	deletedItems []uuid.UUID
	itemsCleared bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{statuses: map[uuid.UUID]enums.CartStatus{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.created = append(s.created, record)
	return record, nil
}

func (s *stubRepo) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if s.active == nil || s.statuses[s.active.ID] == enums.CartStatusAbandoned {
		return nil, gorm.ErrRecordNotFound
	}
	return s.active, nil
}

func (s *stubRepo) FindByID(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	if s.active != nil && s.active.ID == cartID {
		return s.active, nil
	}
	for _, record := range s.created {
		if record.ID == cartID {
			return record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	s.statuses[cartID] = status
	return nil
}

func (s *stubRepo) UpsertItem(ctx context.Context, item *models.CartItem) error {
	s.upserted = append(s.upserted, item)
	return nil
}

func (s *stubRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return nil
}

func (s *stubRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	s.deletedItems = append(s.deletedItems, itemID)
	return nil
}

func (s *stubRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	s.itemsCleared = true
	return nil
}
