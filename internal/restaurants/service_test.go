package restaurants

import (
	"context"
	"testing"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCreateRestaurantValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())

	cases := []struct {
		name  string
		input CreateRestaurantInput
	}{
		{"missing owner", CreateRestaurantInput{Name: "A", CuisineType: "thai", AddressLine: "1 St", City: "Austin"}},
		{"missing name", CreateRestaurantInput{OwnerID: uuid.New(), CuisineType: "thai", AddressLine: "1 St", City: "Austin"}},
		{"missing cuisine", CreateRestaurantInput{OwnerID: uuid.New(), Name: "A", AddressLine: "1 St", City: "Austin"}},
		{"missing address", CreateRestaurantInput{OwnerID: uuid.New(), Name: "A", CuisineType: "thai"}},
		{"negative fee", CreateRestaurantInput{OwnerID: uuid.New(), Name: "A", CuisineType: "thai", AddressLine: "1 St", City: "Austin", DeliveryFeeCents: -1}},
		{"inverted window", CreateRestaurantInput{OwnerID: uuid.New(), Name: "A", CuisineType: "thai", AddressLine: "1 St", City: "Austin", DeliveryTimeMin: 40, DeliveryTimeMax: 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateRestaurant(context.Background(), tc.input)
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCreateRestaurantOnePerOwner(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	svc := newTestService(t, repo)

	_, err := svc.CreateRestaurant(context.Background(), CreateRestaurantInput{
		OwnerID:     ownerID,
		Name:        "Second Place",
		CuisineType: "bbq",
		AddressLine: "2 St",
		City:        "Austin",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRestaurantDefaultsActive(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	created, err := svc.CreateRestaurant(context.Background(), CreateRestaurantInput{
		OwnerID:     uuid.New(),
		Name:        "  Casa Feliz  ",
		CuisineType: "mexican",
		AddressLine: "9 Main",
		City:        "Austin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != enums.RestaurantStatusActive {
		t.Fatalf("expected active status, got %q", created.Status)
	}
	if created.Name != "Casa Feliz" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
}

func TestListRestaurantsDefaultsToActive(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	_, _, err := svc.ListRestaurants(context.Background(), pagination.Params{}, ListFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilters.Status != enums.RestaurantStatusActive {
		t.Fatalf("expected active filter, got %q", repo.lastFilters.Status)
	}
}

func TestAddMenuItemCategoryScoping(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	repo.category = &models.MenuCategory{ID: uuid.New(), RestaurantID: uuid.New()}
	svc := newTestService(t, repo)

	_, err := svc.AddMenuItem(context.Background(), CreateMenuItemInput{
		OwnerID:    ownerID,
		CategoryID: repo.category.ID,
		Name:       "Pad Thai",
		PriceCents: 1399,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateMenuItemOwnerScoping(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	repo.menuItem = &models.MenuItem{ID: uuid.New(), RestaurantID: uuid.New(), PriceCents: 900}
	svc := newTestService(t, repo)

	available := false
	_, err := svc.UpdateMenuItem(context.Background(), UpdateMenuItemInput{
		OwnerID:     ownerID,
		MenuItemID:  repo.menuItem.ID,
		IsAvailable: &available,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateMenuItemAvailabilityToggle(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	restaurantID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: restaurantID, OwnerID: ownerID}
	repo.menuItem = &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, PriceCents: 900, IsAvailable: true}
	svc := newTestService(t, repo)

	available := false
	_, err := svc.UpdateMenuItem(context.Background(), UpdateMenuItemInput{
		OwnerID:     ownerID,
		MenuItemID:  repo.menuItem.ID,
		IsAvailable: &available,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := repo.itemUpdates["is_available"]; !ok || got != false {
		t.Fatalf("expected availability update, got %v", repo.itemUpdates)
	}
}

func TestUpdateCategoryOwnerScoping(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	repo.category = &models.MenuCategory{ID: uuid.New(), RestaurantID: uuid.New()}
	svc := newTestService(t, repo)

	name := "Starters"
	_, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		OwnerID:    ownerID,
		CategoryID: repo.category.ID,
		Name:       &name,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateCategoryAppliesChanges(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	restaurantID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: restaurantID, OwnerID: ownerID}
	repo.category = &models.MenuCategory{ID: uuid.New(), RestaurantID: restaurantID, Name: "Mains"}
	svc := newTestService(t, repo)

	active := false
	sortOrder := 3
	_, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		OwnerID:    ownerID,
		CategoryID: repo.category.ID,
		SortOrder:  &sortOrder,
		IsActive:   &active,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := repo.categoryUpdates["is_active"]; !ok || got != false {
		t.Fatalf("expected active flag update, got %v", repo.categoryUpdates)
	}
	if got, ok := repo.categoryUpdates["sort_order"]; !ok || got != 3 {
		t.Fatalf("expected sort order update, got %v", repo.categoryUpdates)
	}
}

func TestDeleteCategoryOwnerScoping(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	repo.category = &models.MenuCategory{ID: uuid.New(), RestaurantID: uuid.New()}
	svc := newTestService(t, repo)

	err := svc.DeleteCategory(context.Background(), ownerID, repo.category.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.deletedIDs) != 0 {
		t.Fatalf("expected no deletes, got %v", repo.deletedIDs)
	}
}

func TestDeleteCategory(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	restaurantID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: restaurantID, OwnerID: ownerID}
	repo.category = &models.MenuCategory{ID: uuid.New(), RestaurantID: restaurantID}
	svc := newTestService(t, repo)

	if err := svc.DeleteCategory(context.Background(), ownerID, repo.category.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != repo.category.ID {
		t.Fatalf("expected category delete, got %v", repo.deletedIDs)
	}
}

func TestDeleteMenuItemOwnerScoping(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	repo.menuItem = &models.MenuItem{ID: uuid.New(), RestaurantID: uuid.New()}
	svc := newTestService(t, repo)

	err := svc.DeleteMenuItem(context.Background(), ownerID, repo.menuItem.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.deletedIDs) != 0 {
		t.Fatalf("expected no deletes, got %v", repo.deletedIDs)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	restaurantID := uuid.New()
	repo := newStubRepo()
	repo.byOwner[ownerID] = &models.Restaurant{ID: restaurantID, OwnerID: ownerID}
	repo.menuItem = &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID}
	svc := newTestService(t, repo)

	if err := svc.DeleteMenuItem(context.Background(), ownerID, repo.menuItem.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != repo.menuItem.ID {
		t.Fatalf("expected menu item delete, got %v", repo.deletedIDs)
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubRepo struct {
	byOwner         map[uuid.UUID]*models.Restaurant
	byID            map[uuid.UUID]*models.Restaurant
	category        *models.MenuCategory
	menuItem        *models.MenuItem
	itemUpdates     map[string]any
	categoryUpdates map[string]any
	deletedIDs      []uuid.UUID
	lastFilters ListFilters
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byOwner:         map[uuid.UUID]*models.Restaurant{},
		byID:            map[uuid.UUID]*models.Restaurant{},
		itemUpdates:     map[string]any{},
		categoryUpdates: map[string]any{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	restaurant.ID = uuid.New()
	s.byOwner[restaurant.OwnerID] = restaurant
	s.byID[restaurant.ID] = restaurant
	return restaurant, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if restaurant, ok := s.byID[id]; ok {
		return restaurant, nil
	}
	for _, restaurant := range s.byOwner {
		if restaurant.ID == id {
			return restaurant, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if restaurant, ok := s.byOwner[ownerID]; ok {
		return restaurant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Restaurant, *pagination.Cursor, error) {
	s.lastFilters = filters
	return nil, nil, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RestaurantStatus) error {
	return nil
}

func (s *stubRepo) CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error) {
	category.ID = uuid.New()
	return category, nil
}

func (s *stubRepo) FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	if s.category == nil || s.category.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.category, nil
}

func (s *stubRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	for k, v := range updates {
		s.categoryUpdates[k] = v
	}
	return nil
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	item.ID = uuid.New()
	return item, nil
}

func (s *stubRepo) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	for k, v := range updates {
		s.itemUpdates[k] = v
	}
	return nil
}

func (s *stubRepo) FindMenuItem(ctx context.Context, menuItemID uuid.UUID) (*models.MenuItem, error) {
	if s.menuItem == nil || s.menuItem.ID != menuItemID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.menuItem, nil
}

func (s *stubRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubRepo) FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	return nil, nil
}
