package models

import "github.com/google/uuid"

// Scope is the already authenticated family and actor a request is executed for.
type Scope struct {
	FamilyID uuid.UUID
	ActorID  uuid.UUID
}
