package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	deliverysvc "github.com/feastly-app/feastly-backend/internal/deliveries"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

// ListAvailableDeliveries pages through unclaimed deliveries for partners.
func ListAvailableDeliveries(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, next, err := svc.ListAvailable(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListEnvelope(list, next))
	}
}

// ListMyDeliveries pages through the partner's own deliveries.
func ListMyDeliveries(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		partnerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, next, err := svc.ListMine(r.Context(), partnerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListEnvelope(list, next))
	}
}

// ClaimDelivery assigns an unclaimed delivery to the calling partner.
func ClaimDelivery(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		partnerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryID, err := parseUUIDParam(chi.URLParam(r, "deliveryId"), "deliveryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.Claim(r.Context(), deliverysvc.ClaimInput{
			DeliveryID: deliveryID,
			PartnerID:  partnerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, delivery)
	}
}

// MarkDeliveryPickedUp records the partner collecting the order.
func MarkDeliveryPickedUp(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryProgress(svc, logg, svcPickUp)
}

// MarkDeliveryDelivered records the handoff to the customer.
func MarkDeliveryDelivered(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryProgress(svc, logg, svcDeliver)
}

type progressFunc int

const (
	svcPickUp progressFunc = iota
	svcDeliver
)

func deliveryProgress(svc deliverysvc.Service, logg *logger.Logger, step progressFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		partnerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryID, err := parseUUIDParam(chi.URLParam(r, "deliveryId"), "deliveryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := deliverysvc.ProgressInput{DeliveryID: deliveryID, PartnerID: partnerID}
		status := "picked_up"
		if step == svcDeliver {
			err = svc.MarkDelivered(r.Context(), input)
			status = "delivered"
		} else {
			err = svc.MarkPickedUp(r.Context(), input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}
