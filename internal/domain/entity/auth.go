package entity

import "github.com/google/uuid"

// Identity is the result of a successful signup or signin.
// It carries no secret material.
type Identity struct {
	ID    uuid.UUID
	Email string
	Admin bool
}
