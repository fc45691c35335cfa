package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"comunia/internal/ai"
	"comunia/internal/assistant"
	"comunia/internal/config"
	"comunia/internal/domain"
	"comunia/internal/http/handlers"
	applog "comunia/internal/log"
	"comunia/internal/repos"
	"comunia/internal/services"
)

type testApp struct {
	app   *fiber.App
	db    *sqlx.DB
	users *repos.UserRepo
}

// newTestApp builds the real route table over a seeded in-memory database.
// gen may be nil to exercise the "not configured" paths.
func newTestApp(t *testing.T, gen ai.Generator) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", AITimeout: 2 * time.Second, SuggestionsTTL: time.Minute}
	db, err := repos.OpenDB(cfg.DBDSN, true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.LoadUser(authSvc))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}))

	deps, err := handlers.NewDeps(db, cfg, authSvc, gen, assistant.NewMemoryStore(100, time.Minute))
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	t.Cleanup(deps.Suggestions.Close)
	handlers.Routes(app, deps, authSvc)
	return &testApp{app: app, db: db, users: userRepo}
}

// session binds a fresh sid to the user with the given email.
func (ta *testApp) session(t *testing.T, email string) string {
	t.Helper()
	u, err := ta.users.ByEmail(email)
	if err != nil {
		t.Fatalf("user %s: %v", email, err)
	}
	sid := "sid-" + strings.ReplaceAll(email, "@", "-")
	if err := ta.users.BindSession(sid, u.ID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return sid
}

// newUser creates a regular account and returns it with a bound session.
func (ta *testApp) newUser(t *testing.T, email string) (*domain.User, string) {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u, err := ta.users.Create(email, string(h), domain.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u, ta.session(t, email)
}

func (ta *testApp) businessID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	if err := ta.db.Get(&id, `SELECT id FROM businesses WHERE name = ?`, name); err != nil {
		t.Fatalf("business %q: %v", name, err)
	}
	return id
}

func (ta *testApp) productID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	if err := ta.db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("product %q: %v", name, err)
	}
	return id
}

func (ta *testApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (ta *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return ta.do(t, req)
}

// sendJSON issues an API call with an optional session cookie.
func (ta *testApp) sendJSON(t *testing.T, method, path, sid string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return ta.do(t, req)
}

// csrfToken fetches a token by rendering a form page.
func (ta *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	tok := extractCookie(ta.get(t, "/login", ""), "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// postForm submits a CSRF-protected form.
func (ta *testApp) postForm(t *testing.T, path, sid, csrfTok, form string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader("csrf="+csrfTok+"&"+form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return ta.do(t, req)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs redirects the structured logger while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	lw := &lockedWriter{w: &bytes.Buffer{}}
	applog.SetOutput(lw)
	defer applog.SetOutput(io.Discard)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(lw.w.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

// stubGen answers every prompt with a fixed reply or error.
type stubGen struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *stubGen) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *stubGen) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}
