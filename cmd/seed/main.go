// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the first sample user (ana@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"

	bookdomain "github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	bookrepo "github.com/juanessaavedra/biblioteca-api/internal/book/repository"
	"github.com/juanessaavedra/biblioteca-api/internal/config"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
	userdomain "github.com/juanessaavedra/biblioteca-api/internal/user/domain"
	userrepo "github.com/juanessaavedra/biblioteca-api/internal/user/repository"
)

const seedUserEmail = "ana@example.com"

var sampleUsers = []*userdomain.User{
	{Name: "Ana García", Email: seedUserEmail},
	{Name: "Luis Martínez", Email: "luis@example.com"},
	{Name: "María López", Email: "maria@example.com"},
}

// ISBN-13s without hyphens; the isbn column holds 13 characters.
var sampleBooks = []*bookdomain.Book{
	{Title: "Cien años de soledad", Author: "Gabriel García Márquez", ISBN: "9780307474728"},
	{Title: "Don Quijote de la Mancha", Author: "Miguel de Cervantes", ISBN: "9788420412146"},
	{Title: "Rayuela", Author: "Julio Cortázar", ISBN: "9788437604572"},
	{Title: "La casa de los espíritus", Author: "Isabel Allende", ISBN: "9780525433477"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	users := userrepo.NewPostgres()
	books := bookrepo.NewPostgres()

	existing, err := users.GetByEmail(ctx, pool, seedUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping.", seedUserEmail)
		os.Exit(0)
	}

	for _, u := range sampleUsers {
		if err := users.Create(ctx, pool, u); err != nil {
			log.Fatalf("create user %s: %v", u.Email, err)
		}
	}

	for _, b := range sampleBooks {
		if err := books.Create(ctx, pool, b); err != nil {
			log.Fatalf("create book %s: %v", b.ISBN, err)
		}
	}

	log.Println("Seed completed successfully.")
}
