package models

import "github.com/google/uuid"

// ensureID assigns a client-side UUID when the row does not carry one yet.
// Postgres falls back to gen_random_uuid, sqlite has no equivalent.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
