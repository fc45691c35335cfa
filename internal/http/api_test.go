package handlers_test

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"comunia/internal/domain"
	"comunia/internal/services"
)

func TestOwnerManagesProducts(t *testing.T) {
	ta := newTestApp(t, nil)
	sid := ta.session(t, "pizzaitalia@email.com")
	bid := strconv.FormatInt(ta.businessID(t, "Pizza Italia"), 10)

	if resp := ta.sendJSON(t, "POST", "/api/products/"+bid, "", map[string]any{"name": "Calzone", "price": 40}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create expected 401, got %d", resp.StatusCode)
	}
	if resp := ta.sendJSON(t, "POST", "/api/products/"+bid, sid, map[string]any{"name": "Calzone", "price": 0}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero price expected 400, got %d", resp.StatusCode)
	}

	resp := ta.sendJSON(t, "POST", "/api/products/"+bid, sid, map[string]any{"name": "Calzone", "description": "Relleno de jamón", "price": 40, "stock": 7})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var p domain.Product
	decode(t, resp, &p)
	if p.ID == 0 || p.Name != "Calzone" || p.Stock != 7 {
		t.Fatalf("unexpected product %+v", p)
	}
	pid := strconv.FormatInt(p.ID, 10)

	var avail domain.Availability
	decode(t, ta.get(t, "/api/products/"+pid+"/availability", ""), &avail)
	if avail.Status != domain.StockIn || avail.Qty != 7 {
		t.Fatalf("availability: %+v", avail)
	}

	if resp := ta.sendJSON(t, "PUT", "/api/products/"+pid+"/stock", sid, map[string]any{"stock": 2}); resp.StatusCode != http.StatusOK {
		t.Fatalf("set stock: %d", resp.StatusCode)
	}
	decode(t, ta.get(t, "/api/products/"+pid+"/availability", ""), &avail)
	if avail.Status != domain.StockLow || avail.Qty != 2 {
		t.Fatalf("availability after stock update: %+v", avail)
	}
	if resp := ta.sendJSON(t, "PUT", "/api/products/"+pid+"/stock", sid, map[string]any{}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing stock expected 400, got %d", resp.StatusCode)
	}

	if resp := ta.sendJSON(t, "DELETE", "/api/products/"+pid, sid, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	decode(t, ta.get(t, "/api/products/"+pid+"/availability", ""), &avail)
	if avail.Status != domain.StockOut {
		t.Fatalf("deleted product should read out of stock, got %+v", avail)
	}
}

func TestNonOwnerCannotTouchProducts(t *testing.T) {
	ta := newTestApp(t, nil)
	_, sid := ta.newUser(t, "intruso@comunia.test")
	pid := strconv.FormatInt(ta.productID(t, "Pizza Margarita"), 10)

	if resp := ta.sendJSON(t, "DELETE", "/api/products/"+pid, sid, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner delete expected 403, got %d", resp.StatusCode)
	}
	if resp := ta.sendJSON(t, "PUT", "/api/products/"+pid+"/stock", sid, map[string]any{"stock": 0}); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner stock update expected 403, got %d", resp.StatusCode)
	}
	if resp := ta.sendJSON(t, "DELETE", "/api/products/999999", sid, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product expected 404, got %d", resp.StatusCode)
	}
}

func TestReviewsListAndCreate(t *testing.T) {
	ta := newTestApp(t, nil)
	path := "/api/reviews/" + strconv.FormatInt(ta.businessID(t, "Café Aroma"), 10)

	var sum services.ReviewSummary
	decode(t, ta.get(t, path, ""), &sum)
	if sum.Total != 0 || sum.Reviews == nil {
		t.Fatalf("expected empty non-nil list, got %+v", sum)
	}

	for _, r := range []int{5, 4} {
		resp := ta.sendJSON(t, "POST", path, "", map[string]any{"author": "Lucía", "rating": r, "comment": "Muy rico"})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create review: %d", resp.StatusCode)
		}
	}
	resp := ta.sendJSON(t, "POST", path, "", map[string]any{"author": "Lucía", "rating": 9, "comment": "?"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("rating 9 expected 400, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "rating") {
		t.Fatalf("rating error should say so: %s", body)
	}

	decode(t, ta.get(t, path, ""), &sum)
	if sum.Total != 2 || sum.AvgRating != 4.5 {
		t.Fatalf("summary: %+v", sum)
	}
	if resp := ta.sendJSON(t, "POST", "/api/reviews/999999", "", map[string]any{"author": "A", "rating": 3, "comment": "B"}); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown business expected 404, got %d", resp.StatusCode)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	ta := newTestApp(t, nil)
	path := "/api/favorites/" + strconv.FormatInt(ta.businessID(t, "Salón Bella"), 10)

	if resp := ta.sendJSON(t, "POST", path, "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous favorite expected 401, got %d", resp.StatusCode)
	}
	_, sid := ta.newUser(t, "fan@comunia.test")
	for i := 0; i < 2; i++ {
		if resp := ta.sendJSON(t, "POST", path, sid, nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("favorite: %d", resp.StatusCode)
		}
	}
	if body := readBody(t, ta.get(t, "/favorites", sid)); strings.Count(body, "Salón Bella") != 1 {
		t.Fatalf("favorites page should list the business once")
	}
	if resp := ta.sendJSON(t, "DELETE", path, sid, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("unfavorite: %d", resp.StatusCode)
	}
	if body := readBody(t, ta.get(t, "/favorites", sid)); strings.Contains(body, "Salón Bella") {
		t.Fatal("business still listed after unfavorite")
	}
	if resp := ta.sendJSON(t, "POST", "/api/favorites/999999", sid, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown business expected 404, got %d", resp.StatusCode)
	}
}

func TestReservationsDecrementStock(t *testing.T) {
	ta := newTestApp(t, nil)
	_, sid := ta.newUser(t, "cliente@comunia.test")
	pid := ta.productID(t, "Torta de Chocolate") // seeded with 6

	if resp := ta.sendJSON(t, "POST", "/api/reservations", "", map[string]any{"product_id": pid, "qty": 1}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous reservation expected 401, got %d", resp.StatusCode)
	}
	resp := ta.sendJSON(t, "POST", "/api/reservations", sid, map[string]any{"product_id": pid, "qty": 4})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve: %d %s", resp.StatusCode, readBody(t, resp))
	}
	var res domain.Reservation
	decode(t, resp, &res)
	if res.ID == "" || res.Status != services.ReservationReserved || res.Qty != 4 {
		t.Fatalf("reservation: %+v", res)
	}

	var left int
	if err := ta.db.Get(&left, `SELECT stock FROM products WHERE id = ?`, pid); err != nil {
		t.Fatal(err)
	}
	if left != 2 {
		t.Fatalf("want 2 left, got %d", left)
	}

	if resp := ta.sendJSON(t, "POST", "/api/reservations", sid, map[string]any{"product_id": pid, "qty": 3}); resp.StatusCode != http.StatusConflict {
		t.Fatalf("over-reservation expected 409, got %d", resp.StatusCode)
	}
	if resp := ta.sendJSON(t, "POST", "/api/reservations", sid, map[string]any{"product_id": pid, "qty": 0}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("qty 0 expected 400, got %d", resp.StatusCode)
	}

	var rows []map[string]any
	decode(t, ta.get(t, "/api/reservations", sid), &rows)
	if len(rows) != 1 {
		t.Fatalf("want 1 reservation listed, got %d", len(rows))
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	ta := newTestApp(t, nil)
	path := "/api/ai/suggestions/" + strconv.FormatInt(ta.businessID(t, "Foto Studio"), 10)
	if resp := ta.get(t, path, ""); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("no generator expected 503, got %d", resp.StatusCode)
	}

	gen := &stubGen{reply: "1. Ofrece sesiones en el Cambódromo"}
	ta = newTestApp(t, gen)
	path = "/api/ai/suggestions/" + strconv.FormatInt(ta.businessID(t, "Foto Studio"), 10)
	for i := 0; i < 2; i++ {
		var out struct {
			Suggestions string `json:"suggestions"`
		}
		resp := ta.get(t, path, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("suggestions: %d", resp.StatusCode)
		}
		decode(t, resp, &out)
		if out.Suggestions != gen.reply {
			t.Fatalf("unexpected suggestions %q", out.Suggestions)
		}
	}
	if gen.calls() != 1 {
		t.Fatalf("suggestions should be cached, generator called %d times", gen.calls())
	}
	if resp := ta.get(t, "/api/ai/suggestions/999999", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown business expected 404, got %d", resp.StatusCode)
	}

	failing := newTestApp(t, &stubGen{err: errors.New("upstream 500")})
	if resp := failing.get(t, path, ""); resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("generator failure expected 502, got %d", resp.StatusCode)
	}
}
