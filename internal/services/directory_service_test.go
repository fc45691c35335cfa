package services_test

import (
	"errors"
	"testing"

	"comunia/internal/repos"
	"comunia/internal/services"
)

func newDirectory(t *testing.T) (*services.DirectoryService, *repos.BusinessRepo) {
	db := seededDB(t)
	b := repos.NewBusinessRepo(db)
	return services.NewDirectoryService(b, repos.NewProductRepo(db), repos.NewReviewRepo(db),
		repos.NewViewRepo(db), repos.NewUserRepo(db)), b
}

func TestDirectory_ListFilters(t *testing.T) {
	svc, _ := newDirectory(t)

	all, err := svc.List("", services.AllCategories)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Fatalf("want 10 seeded businesses, got %d", len(all))
	}
	// newest first
	if all[0].Name != "Foto Studio" {
		t.Fatalf("want newest first, got %s", all[0].Name)
	}

	gastro, err := svc.List("", "gastronomía")
	if err != nil {
		t.Fatal(err)
	}
	if len(gastro) != 2 {
		t.Fatalf("want 2 Gastronomía businesses, got %d", len(gastro))
	}

	hits, err := svc.List("  PIZZA ", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "Pizza Italia" {
		t.Fatalf("want Pizza Italia, got %+v", hits)
	}

	none, err := svc.List("", "Astronomía")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("unknown category should match nothing, got %d", len(none))
	}
}

func TestDirectory_InactiveHidden(t *testing.T) {
	svc, repo := newDirectory(t)
	hits, _ := svc.List("pizza", "")
	id := hits[0].ID

	if err := repo.SetActive(id, false); err != nil {
		t.Fatal(err)
	}
	hits, err := svc.List("pizza", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("inactive business still listed: %+v", hits)
	}
	if _, err := svc.Profile(id, nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound for inactive profile, got %v", err)
	}
}

func TestDirectory_RegisterLinksOwnerAndFallsBackCategory(t *testing.T) {
	db := seededDB(t)
	users := repos.NewUserRepo(db)
	svc := services.NewDirectoryService(repos.NewBusinessRepo(db), repos.NewProductRepo(db),
		repos.NewReviewRepo(db), repos.NewViewRepo(db), users)

	u, err := users.Create("nuevo@comunia.test", "x", "USER")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Register(u, services.RegisterInput{Name: "  "}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}

	id, err := svc.Register(u, services.RegisterInput{Name: "Heladería Polar", Description: "Helados artesanales", Category: "Heladerías"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := svc.Profile(id, u)
	if err != nil {
		t.Fatal(err)
	}
	if p.Business.Category != "Otros" || p.Business.Location != "Santa Cruz, Bolivia" {
		t.Fatalf("defaults not applied: %+v", p.Business)
	}
	if !p.IsOwner {
		t.Fatal("registering user should own the business")
	}
	reloaded, _ := users.ByID(u.ID)
	if !reloaded.BusinessID.Valid || reloaded.BusinessID.Int64 != id {
		t.Fatalf("owner link not stored: %+v", reloaded.BusinessID)
	}

	// a second business does not steal the link
	id2, err := svc.Register(u, services.RegisterInput{Name: "Otra", Description: "x", Category: "Educación"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Owns(id2) {
		t.Fatal("user already owned a business; link must not change")
	}
}

func TestDirectory_ProfileRatingAndViews(t *testing.T) {
	db := seededDB(t)
	svc := services.NewDirectoryService(repos.NewBusinessRepo(db), repos.NewProductRepo(db),
		repos.NewReviewRepo(db), repos.NewViewRepo(db), repos.NewUserRepo(db))
	reviews := services.NewReviewService(repos.NewBusinessRepo(db), repos.NewReviewRepo(db))
	id := businessID(t, db, "Tech Store")

	for _, r := range []int{5, 4, 4} {
		if _, err := reviews.Add(id, "Ana", r, "Buen servicio"); err != nil {
			t.Fatal(err)
		}
	}
	admin := user(t, db, "admin@comunia.test")

	for i := 0; i < 2; i++ {
		if _, err := svc.Profile(id, admin); err != nil {
			t.Fatal(err)
		}
	}
	p, err := svc.Profile(id, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.AvgRating != 4.3 {
		t.Fatalf("want avg 4.3, got %v", p.AvgRating)
	}
	if len(p.Products) != 3 || len(p.Reviews) != 3 {
		t.Fatalf("want 3 products and 3 reviews, got %d/%d", len(p.Products), len(p.Reviews))
	}
	if p.Views != 2 {
		t.Fatalf("want 2 views, got %d", p.Views)
	}
	if p.IsOwner {
		t.Fatal("anonymous viewer is not the owner")
	}
}
