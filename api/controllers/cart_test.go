package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/api/middleware"
	cartsvc "github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/pkg/enums"
)

type stubCartService struct {
	view     *cartsvc.View
	addInput *cartsvc.AddItemInput
	cleared  bool
}

func (s *stubCartService) GetActiveCart(ctx context.Context, customerID uuid.UUID) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) AddItem(ctx context.Context, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	s.addInput = &input
	return s.view, nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, input cartsvc.SetQuantityInput) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	s.cleared = true
	return nil
}

func authedRequest(method, target, body string, role enums.UserRole) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestGetCartReturnsView(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{SubtotalCents: 2500, ItemCount: 2}}
	handler := GetCart(svc, nil)

	req := authedRequest(http.MethodGet, "/cart", "", enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SubtotalCents != 2500 {
		t.Fatalf("expected subtotal 2500 got %d", envelope.Data.SubtotalCents)
	}
}

func TestGetCartRequiresIdentity(t *testing.T) {
	handler := GetCart(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddCartItemPassesInputThrough(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := AddCartItem(svc, nil)

	menuItemID := uuid.New()
	body := `{"menu_item_id":"` + menuItemID.String() + `","quantity":3}`
	req := authedRequest(http.MethodPost, "/cart/items", body, enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.addInput == nil {
		t.Fatal("expected AddItem call")
	}
	if svc.addInput.MenuItemID != menuItemID || svc.addInput.Quantity != 3 {
		t.Fatalf("unexpected input %+v", svc.addInput)
	}
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	handler := AddCartItem(&stubCartService{}, nil)

	body := `{"menu_item_id":"` + uuid.NewString() + `","quantity":0}`
	req := authedRequest(http.MethodPost, "/cart/items", body, enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClearCart(t *testing.T) {
	svc := &stubCartService{}
	handler := ClearCart(svc, nil)

	req := authedRequest(http.MethodDelete, "/cart", "", enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected ClearCart call")
	}
}
