package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	cartsvc "github.com/feastly-app/feastly-backend/internal/cart"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

// GetCart returns the customer's active cart, empty when none exists.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetActiveCart(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	MenuItemID string  `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
	Note       *string `json:"note" validate:"omitempty,max=300"`
}

// AddCartItem puts a menu item into the customer's active cart.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parseUUIDParam(body.MenuItemID, "menu_item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), cartsvc.AddItemInput{
			CustomerID: customerID,
			MenuItemID: menuItemID,
			Quantity:   body.Quantity,
			Note:       body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// SetCartItemQuantity changes a cart line; zero removes it.
func SetCartItemQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parseUUIDParam(chi.URLParam(r, "menuItemId"), "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetQuantity(r.Context(), cartsvc.SetQuantityInput{
			CustomerID: customerID,
			MenuItemID: menuItemID,
			Quantity:   body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// RemoveCartItem drops a line from the customer's cart.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parseUUIDParam(chi.URLParam(r, "menuItemId"), "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), customerID, menuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ClearCart abandons the customer's active cart.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
