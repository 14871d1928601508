package controllers

import (
	"net/http"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	checkoutsvc "github.com/feastly-app/feastly-backend/internal/checkout"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

type checkoutRequest struct {
	DeliveryAddressLine  string  `json:"delivery_address_line" validate:"required,max=200"`
	DeliveryCity         string  `json:"delivery_city" validate:"required,max=80"`
	DeliveryInstructions *string `json:"delivery_instructions" validate:"omitempty,max=500"`
	ContactPhone         string  `json:"contact_phone" validate:"required,max=20"`
	TipCents             int     `json:"tip_cents" validate:"min=0"`
}

// SubmitCheckout turns the customer's active cart into a placed order.
func SubmitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			CustomerID:           customerID,
			DeliveryAddressLine:  body.DeliveryAddressLine,
			DeliveryCity:         body.DeliveryCity,
			DeliveryInstructions: body.DeliveryInstructions,
			ContactPhone:         body.ContactPhone,
			TipCents:             body.TipCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
