package domain

import "time"

// Loan links a user to a book from checkout until return. A loan starts
// active and becomes inactive exactly once, when the book is returned;
// ReturnedAt stays nil until then.
type Loan struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"usuario_id" json:"usuario_id"`
	BookID     int64      `db:"libro_id" json:"libro_id"`
	LoanedAt   time.Time  `db:"fecha_prestamo" json:"fecha_prestamo"`
	ReturnedAt *time.Time `db:"fecha_devolucion" json:"fecha_devolucion"`
	Active     bool       `db:"activo" json:"activo"`
}

// Detail is a loan denormalized with the borrower's name and the book's
// title, the shape every loan endpoint responds with.
type Detail struct {
	Loan
	UserName  string `db:"usuario_nombre" json:"usuario_nombre"`
	BookTitle string `db:"libro_titulo" json:"libro_titulo"`
}
