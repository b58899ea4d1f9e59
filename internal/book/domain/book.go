package domain

import (
	"fmt"
	"time"
)

// Book is a title in the library catalog. Available mirrors the loan state:
// it is false exactly while an active loan references the book.
type Book struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"titulo" json:"titulo"`
	Author    string    `db:"autor" json:"autor"`
	ISBN      string    `db:"isbn" json:"isbn"`
	Available bool      `db:"disponible" json:"disponible"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Validate checks the required fields in declaration order and reports the
// first missing one by its wire name.
func (b *Book) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"titulo", b.Title},
		{"autor", b.Author},
		{"isbn", b.ISBN},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%s es requerido", f.name)
		}
	}
	return nil
}

// UpdateParams carries a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Title     *string
	Author    *string
	Available *bool
}
