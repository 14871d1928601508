package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	adminsvc "github.com/feastly-app/feastly-backend/internal/admin"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

// AdminOverview returns platform-wide headline counts.
func AdminOverview(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		overview, err := svc.GetOverview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overview)
	}
}

type suspendRestaurantRequest struct {
	Reason string `json:"reason" validate:"required,max=300"`
}

// AdminSuspendRestaurant takes a restaurant off the marketplace.
func AdminSuspendRestaurant(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		adminID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := parseUUIDParam(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body suspendRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SuspendRestaurant(r.Context(), adminsvc.SuspendRestaurantInput{
			RestaurantID: restaurantID,
			AdminID:      adminID,
			Reason:       body.Reason,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "suspended"})
	}
}

// AdminReinstateRestaurant returns a suspended restaurant to active listing.
func AdminReinstateRestaurant(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		restaurantID, err := parseUUIDParam(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReinstateRestaurant(r.Context(), restaurantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "active"})
	}
}

type setUserActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminSetUserActive enables or disables a user account.
func AdminSetUserActive(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := parseUUIDParam(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setUserActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetUserActive(r.Context(), adminsvc.SetUserActiveInput{
			UserID: userID,
			Active: *body.Active,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
