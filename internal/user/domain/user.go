package domain

import (
	"errors"
	"time"
)

// User is a registered library member. CreatedAt is set at insert time and
// never serialized, matching the public API shape.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"nombre" json:"nombre"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// ErrMissingFields is returned when a required field is empty. The message is
// part of the API contract.
var ErrMissingFields = errors.New("Nombre y email son requeridos")

// Validate validates the user for persistence.
func (u *User) Validate() error {
	if u.Name == "" || u.Email == "" {
		return ErrMissingFields
	}
	return nil
}
