package main

import "testing"

// Column widths from the usuarios/libros schema. Over-length inserts fail
// with SQLSTATE 22001 and would leave the seed half applied.
const (
	maxNameLen   = 100
	maxEmailLen  = 120
	maxTitleLen  = 200
	maxAuthorLen = 150
	maxISBNLen   = 13
)

func TestSampleUsers_FitSchema(t *testing.T) {
	if len(sampleUsers) == 0 {
		t.Fatal("no sample users")
	}
	for _, u := range sampleUsers {
		if err := u.Validate(); err != nil {
			t.Errorf("user %q invalid: %v", u.Email, err)
		}
		if len(u.Name) > maxNameLen {
			t.Errorf("user %q: nombre is %d chars, column holds %d", u.Email, len(u.Name), maxNameLen)
		}
		if len(u.Email) > maxEmailLen {
			t.Errorf("user %q: email is %d chars, column holds %d", u.Email, len(u.Email), maxEmailLen)
		}
	}
	if sampleUsers[0].Email != seedUserEmail {
		t.Errorf("first sample user email = %q, want %q (the idempotence check key)", sampleUsers[0].Email, seedUserEmail)
	}
}

func TestSampleBooks_FitSchema(t *testing.T) {
	if len(sampleBooks) == 0 {
		t.Fatal("no sample books")
	}
	seen := map[string]bool{}
	for _, b := range sampleBooks {
		if err := b.Validate(); err != nil {
			t.Errorf("book %q invalid: %v", b.Title, err)
		}
		if len(b.ISBN) > maxISBNLen {
			t.Errorf("book %q: isbn %q is %d chars, column holds %d", b.Title, b.ISBN, len(b.ISBN), maxISBNLen)
		}
		if len(b.Title) > maxTitleLen {
			t.Errorf("book %q: titulo is %d chars, column holds %d", b.Title, len(b.Title), maxTitleLen)
		}
		if len(b.Author) > maxAuthorLen {
			t.Errorf("book %q: autor is %d chars, column holds %d", b.Title, len(b.Author), maxAuthorLen)
		}
		if seen[b.ISBN] {
			t.Errorf("duplicate sample isbn %q", b.ISBN)
		}
		seen[b.ISBN] = true
	}
}
