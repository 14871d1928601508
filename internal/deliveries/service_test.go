package deliveries

import (
	"context"
	"testing"
	"time"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestClaimWinsRace(t *testing.T) {
	t.Parallel()

	partnerID := uuid.New()
	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), Status: enums.DeliveryStatusQueued}
	repo := &stubDeliveryRepo{delivery: delivery, claimWins: true}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, &stubOrderStore{})

	claimed, err := svc.Claim(context.Background(), ClaimInput{DeliveryID: delivery.ID, PartnerID: partnerID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected claimed delivery")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventDeliveryAssigned {
		t.Fatalf("expected assigned event, got %+v", emitter.events)
	}
}

func TestClaimAlreadyTaken(t *testing.T) {
	t.Parallel()

	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), Status: enums.DeliveryStatusAssigned}
	repo := &stubDeliveryRepo{delivery: delivery, claimWins: false}
	svc := newTestService(t, repo, &stubEmitter{}, &stubOrderStore{})

	_, err := svc.Claim(context.Background(), ClaimInput{DeliveryID: delivery.ID, PartnerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestClaimMissingDelivery(t *testing.T) {
	t.Parallel()

	repo := &stubDeliveryRepo{claimWins: false}
	svc := newTestService(t, repo, &stubEmitter{}, &stubOrderStore{})

	_, err := svc.Claim(context.Background(), ClaimInput{DeliveryID: uuid.New(), PartnerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkPickedUpRequiresReadyOrder(t *testing.T) {
	t.Parallel()

	partnerID := uuid.New()
	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), PartnerID: &partnerID, Status: enums.DeliveryStatusAssigned}
	order := &models.Order{ID: delivery.OrderID, Status: enums.OrderStatusPreparing}
	repo := &stubDeliveryRepo{delivery: delivery}
	svc := newTestService(t, repo, &stubEmitter{}, &stubOrderStore{order: order})

	err := svc.MarkPickedUp(context.Background(), ProgressInput{DeliveryID: delivery.ID, PartnerID: partnerID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestMarkPickedUpMovesOrder(t *testing.T) {
	t.Parallel()

	partnerID := uuid.New()
	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), PartnerID: &partnerID, Status: enums.DeliveryStatusAssigned}
	order := &models.Order{ID: delivery.OrderID, Status: enums.OrderStatusReadyForPickup}
	repo := &stubDeliveryRepo{delivery: delivery}
	orderStore := &stubOrderStore{order: order}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, orderStore)

	if err := svc.MarkPickedUp(context.Background(), ProgressInput{DeliveryID: delivery.ID, PartnerID: partnerID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderStore.updates["status"] != enums.OrderStatusPickedUp {
		t.Fatalf("expected order picked up, got %v", orderStore.updates)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected status change event, got %+v", emitter.events)
	}
}

func TestMarkDeliveredEmitsCompletion(t *testing.T) {
	t.Parallel()

	partnerID := uuid.New()
	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), PartnerID: &partnerID, Status: enums.DeliveryStatusPickedUp}
	order := &models.Order{ID: delivery.OrderID, Status: enums.OrderStatusPickedUp}
	repo := &stubDeliveryRepo{delivery: delivery}
	orderStore := &stubOrderStore{order: order}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter, orderStore)

	if err := svc.MarkDelivered(context.Background(), ProgressInput{DeliveryID: delivery.ID, PartnerID: partnerID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderStore.updates["status"] != enums.OrderStatusDelivered {
		t.Fatalf("expected order delivered, got %v", orderStore.updates)
	}
	if _, ok := orderStore.updates["actual_delivery_time"]; !ok {
		t.Fatal("expected actual delivery time set")
	}
	if len(emitter.events) != 2 {
		t.Fatalf("expected two events, got %d", len(emitter.events))
	}
	if emitter.events[1].EventType != enums.EventDeliveryCompleted {
		t.Fatalf("expected completion event, got %q", emitter.events[1].EventType)
	}
}

func TestProgressForeignPartner(t *testing.T) {
	t.Parallel()

	assignee := uuid.New()
	delivery := &models.Delivery{ID: uuid.New(), OrderID: uuid.New(), PartnerID: &assignee, Status: enums.DeliveryStatusAssigned}
	repo := &stubDeliveryRepo{delivery: delivery}
	svc := newTestService(t, repo, &stubEmitter{}, &stubOrderStore{})

	err := svc.MarkPickedUp(context.Background(), ProgressInput{DeliveryID: delivery.ID, PartnerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func newTestService(t *testing.T, repo Repository, emitter *stubEmitter, orders *stubOrderStore) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, emitter, orders)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubOrderStore struct {
	order   *models.Order
	updates map[string]any
}

func (s *stubOrderStore) FindOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) UpdateOrderTx(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error {
	if s.updates == nil {
		s.updates = map[string]any{}
	}
	for k, v := range updates {
		s.updates[k] = v
	}
	return nil
}

type stubDeliveryRepo struct {
	delivery  *models.Delivery
	claimWins bool
	updates   map[string]any
}

func (s *stubDeliveryRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDeliveryRepo) Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	return delivery, nil
}

func (s *stubDeliveryRepo) FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error) {
	if s.delivery == nil || s.delivery.ID != deliveryID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.delivery, nil
}

func (s *stubDeliveryRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	if s.delivery == nil || s.delivery.OrderID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.delivery, nil
}

func (s *stubDeliveryRepo) ListQueued(ctx context.Context, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubDeliveryRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.Delivery, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubDeliveryRepo) Claim(ctx context.Context, deliveryID, partnerID uuid.UUID, at time.Time) (bool, error) {
	return s.claimWins, nil
}

func (s *stubDeliveryRepo) Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error {
	if s.updates == nil {
		s.updates = map[string]any{}
	}
	for k, v := range updates {
		s.updates[k] = v
	}
	return nil
}

func (s *stubDeliveryRepo) FailByOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return nil
}
