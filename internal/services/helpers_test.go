package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

// seededDB opens an in-memory database with the demo directory loaded.
func seededDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:", true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func productID(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("product %q: %v", name, err)
	}
	return id
}

func businessID(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.Get(&id, `SELECT id FROM businesses WHERE name = ?`, name); err != nil {
		t.Fatalf("business %q: %v", name, err)
	}
	return id
}

func user(t *testing.T, db *sqlx.DB, email string) *domain.User {
	t.Helper()
	u, err := repos.NewUserRepo(db).ByEmail(email)
	if err != nil {
		t.Fatalf("user %q: %v", email, err)
	}
	return u
}

func stock(t *testing.T, db *sqlx.DB, productID int64) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		t.Fatal(err)
	}
	return n
}
