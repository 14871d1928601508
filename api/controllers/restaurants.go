package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	restaurantsvc "github.com/feastly-app/feastly-backend/internal/restaurants"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

// ListRestaurants serves the public marketplace listing.
func ListRestaurants(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := restaurantsvc.ListFilters{
			CuisineType:  strings.TrimSpace(r.URL.Query().Get("cuisine")),
			City:         strings.TrimSpace(r.URL.Query().Get("city")),
			FeaturedOnly: r.URL.Query().Get("featured") == "true",
		}

		list, next, err := svc.ListRestaurants(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListEnvelope(list, next))
	}
}

// GetRestaurant serves a single public restaurant with its menu.
func GetRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := parseUUIDParam(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetRestaurant(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

type createRestaurantRequest struct {
	Name              string   `json:"name" validate:"required,max=120"`
	Description       *string  `json:"description"`
	CuisineType       string   `json:"cuisine_type" validate:"required,max=60"`
	Tags              []string `json:"tags"`
	AddressLine       string   `json:"address_line" validate:"required,max=200"`
	City              string   `json:"city" validate:"required,max=80"`
	Phone             *string  `json:"phone"`
	ImageURL          *string  `json:"image_url"`
	DeliveryFeeCents  int      `json:"delivery_fee_cents" validate:"min=0"`
	MinimumOrderCents int      `json:"minimum_order_cents" validate:"min=0"`
	DeliveryTimeMin   int      `json:"delivery_time_min" validate:"min=0"`
	DeliveryTimeMax   int      `json:"delivery_time_max" validate:"min=0"`
}

// OwnerCreateRestaurant registers the owner's restaurant.
func OwnerCreateRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.CreateRestaurant(r.Context(), restaurantsvc.CreateRestaurantInput{
			OwnerID:           ownerID,
			Name:              body.Name,
			Description:       body.Description,
			CuisineType:       body.CuisineType,
			Tags:              body.Tags,
			AddressLine:       body.AddressLine,
			City:              body.City,
			Phone:             body.Phone,
			ImageURL:          body.ImageURL,
			DeliveryFeeCents:  body.DeliveryFeeCents,
			MinimumOrderCents: body.MinimumOrderCents,
			DeliveryTimeMin:   body.DeliveryTimeMin,
			DeliveryTimeMax:   body.DeliveryTimeMax,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, restaurant)
	}
}

// OwnerGetRestaurant returns the restaurant owned by the caller.
func OwnerGetRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetOwnRestaurant(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

type updateRestaurantRequest struct {
	Name              *string  `json:"name" validate:"omitempty,max=120"`
	Description       *string  `json:"description"`
	CuisineType       *string  `json:"cuisine_type" validate:"omitempty,max=60"`
	Tags              []string `json:"tags"`
	AddressLine       *string  `json:"address_line" validate:"omitempty,max=200"`
	City              *string  `json:"city" validate:"omitempty,max=80"`
	Phone             *string  `json:"phone"`
	ImageURL          *string  `json:"image_url"`
	DeliveryFeeCents  *int     `json:"delivery_fee_cents" validate:"omitempty,min=0"`
	MinimumOrderCents *int     `json:"minimum_order_cents" validate:"omitempty,min=0"`
	DeliveryTimeMin   *int     `json:"delivery_time_min" validate:"omitempty,min=0"`
	DeliveryTimeMax   *int     `json:"delivery_time_max" validate:"omitempty,min=0"`
}

// OwnerUpdateRestaurant applies profile changes to the caller's restaurant.
func OwnerUpdateRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.UpdateRestaurant(r.Context(), ownerID, restaurantsvc.UpdateRestaurantInput{
			Name:              body.Name,
			Description:       body.Description,
			CuisineType:       body.CuisineType,
			Tags:              body.Tags,
			AddressLine:       body.AddressLine,
			City:              body.City,
			Phone:             body.Phone,
			ImageURL:          body.ImageURL,
			DeliveryFeeCents:  body.DeliveryFeeCents,
			MinimumOrderCents: body.MinimumOrderCents,
			DeliveryTimeMin:   body.DeliveryTimeMin,
			DeliveryTimeMax:   body.DeliveryTimeMax,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=80"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order" validate:"min=0"`
}

// OwnerCreateCategory adds a menu category to the caller's restaurant.
func OwnerCreateCategory(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.AddCategory(r.Context(), restaurantsvc.CreateCategoryInput{
			OwnerID:     ownerID,
			Name:        body.Name,
			Description: body.Description,
			SortOrder:   body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=80"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active"`
}

// OwnerUpdateCategory changes a menu category, including its active flag.
func OwnerUpdateCategory(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := parseUUIDParam(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), restaurantsvc.UpdateCategoryInput{
			OwnerID:     ownerID,
			CategoryID:  categoryID,
			Name:        body.Name,
			Description: body.Description,
			SortOrder:   body.SortOrder,
			IsActive:    body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

// OwnerDeleteCategory removes a menu category and its items.
func OwnerDeleteCategory(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := parseUUIDParam(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), ownerID, categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createMenuItemRequest struct {
	CategoryID          string  `json:"category_id" validate:"required,uuid"`
	Name                string  `json:"name" validate:"required,max=120"`
	Description         *string `json:"description"`
	PriceCents          int     `json:"price_cents" validate:"required,min=1"`
	ImageURL            *string `json:"image_url"`
	IsVegetarian        bool    `json:"is_vegetarian"`
	IsVegan             bool    `json:"is_vegan"`
	IsGlutenFree        bool    `json:"is_gluten_free"`
	Calories            *int    `json:"calories" validate:"omitempty,min=0"`
	PreparationTimeMins int     `json:"preparation_time_mins" validate:"min=0"`
	SortOrder           int     `json:"sort_order" validate:"min=0"`
}

// OwnerCreateMenuItem adds a dish to one of the caller's menu categories.
func OwnerCreateMenuItem(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createMenuItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := parseUUIDParam(body.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddMenuItem(r.Context(), restaurantsvc.CreateMenuItemInput{
			OwnerID:             ownerID,
			CategoryID:          categoryID,
			Name:                body.Name,
			Description:         body.Description,
			PriceCents:          body.PriceCents,
			ImageURL:            body.ImageURL,
			IsVegetarian:        body.IsVegetarian,
			IsVegan:             body.IsVegan,
			IsGlutenFree:        body.IsGlutenFree,
			Calories:            body.Calories,
			PreparationTimeMins: body.PreparationTimeMins,
			SortOrder:           body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateMenuItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"price_cents" validate:"omitempty,min=1"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,min=0"`
}

// OwnerUpdateMenuItem changes a dish, including its availability flag.
func OwnerUpdateMenuItem(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parseUUIDParam(chi.URLParam(r, "menuItemId"), "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMenuItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateMenuItem(r.Context(), restaurantsvc.UpdateMenuItemInput{
			OwnerID:     ownerID,
			MenuItemID:  menuItemID,
			Name:        body.Name,
			Description: body.Description,
			PriceCents:  body.PriceCents,
			ImageURL:    body.ImageURL,
			IsAvailable: body.IsAvailable,
			SortOrder:   body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// OwnerDeleteMenuItem removes a dish from the caller's menu. Past orders
// keep their captured name and price.
func OwnerDeleteMenuItem(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parseUUIDParam(chi.URLParam(r, "menuItemId"), "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMenuItem(r.Context(), ownerID, menuItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
