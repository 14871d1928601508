package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/api/middleware"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// actorFromRequest reads the authenticated identity seeded by the auth middleware.
func actorFromRequest(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return userID, role, nil
}

func parseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

// listEnvelope is the wire shape for every cursor-paged listing.
type listEnvelope struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func newListEnvelope(items any, next *pagination.Cursor) listEnvelope {
	envelope := listEnvelope{Items: items}
	if next != nil {
		envelope.NextCursor = pagination.EncodeCursor(*next)
	}
	return envelope
}
