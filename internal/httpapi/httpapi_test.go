package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/pkg/di"
	"github.com/goliatone/go-productivity/pkg/testsupport"
	"github.com/goliatone/go-productivity/todos"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	router *gin.Engine
	cache  *testsupport.MemoryCache
	tokens *auth.Tokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	memory := testsupport.NewMemoryCache()
	container, err := di.NewContainer(di.Options{
		Cache:        cache.Config{Enabled: false},
		CacheService: memory,
		Logger:       zerolog.Nop(),
		Clock:        testsupport.NewClock(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)).Now,
	})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	tokens, err := auth.NewTokens(testSecret, "productivityd", "")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	router := NewRouter(Options{
		API:      container.API(),
		Tokens:   tokens,
		Activity: container.Activity(),
		Logger:   zerolog.Nop(),
	})
	return &fixture{router: router, cache: memory, tokens: tokens}
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.tokens.Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t)
	other, err := auth.NewTokens("ffffffffffffffffffffffffffffffff", "productivityd", "")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	forged, err := other.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", header: "", code: auth.TextCodeUnauthenticated},
		{name: "wrong scheme", header: "Basic abc", code: auth.TextCodeUnauthenticated},
		{name: "empty token", header: "Bearer ", code: auth.TextCodeUnauthenticated},
		{name: "garbage token", header: "Bearer not-a-jwt", code: "INVALID_TOKEN"},
		{name: "foreign signature", header: "Bearer " + forged, code: "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header []string
			if tt.header != "" {
				header = []string{"Authorization", tt.header}
			}
			rec := f.do(t, http.MethodGet, "/api/v1/todos", "", nil, header...)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body)
			}
			body := decode[errorResponse](t, rec)
			if body.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.Code)
			}
		})
	}
}

func TestTodoLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/todos", alice, todos.CreateInput{Title: "write report", Tags: []string{"work"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	created := decode[todos.Todo](t, rec)
	if created.ID == "" || created.CreatedBy != "alice" {
		t.Fatalf("unexpected todo: %+v", created)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/todos/"+created.ID+"/complete", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if done := decode[todos.Todo](t, rec); done.Status != todos.StatusCompleted || done.CompletedAt == nil {
		t.Errorf("expected completed todo, got %+v", done)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/todos?status=completed", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if page := decode[todos.Page](t, rec); page.Total != 1 || len(page.Data) != 1 {
		t.Errorf("expected one completed todo, got %+v", page)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/todos/stats", alice, nil)
	if stats := decode[todos.Stats](t, rec); stats.Total != 1 || stats.Completed != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if rec = f.do(t, http.MethodDelete, "/api/v1/todos/"+created.ID, alice, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/todos/"+created.ID, alice, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	body := decode[errorResponse](t, rec)
	if body.Code != "NOT_FOUND" || body.Error != "Failed to fetch todo" {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestOwnerIsolation(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.token(t, "alice"), f.token(t, "bob")

	rec := f.do(t, http.MethodPost, "/api/v1/notes", alice, map[string]any{"title": "private", "content": "secret"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	id := decode[map[string]any](t, rec)["id"].(string)

	if rec = f.do(t, http.MethodGet, "/api/v1/notes/"+id, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("bob get: expected 404, got %d", rec.Code)
	}
	if rec = f.do(t, http.MethodPatch, "/api/v1/notes/"+id, bob, map[string]any{"title": "mine"}); rec.Code != http.StatusNotFound {
		t.Errorf("bob update: expected 404, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/notes/"+id+"/share", alice, shareRequest{UserIDs: []string{"bob"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("share: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = f.do(t, http.MethodGet, "/api/v1/notes/shared", bob, nil)
	if shared := decode[[]map[string]any](t, rec); len(shared) != 1 {
		t.Errorf("expected one shared note, got %d", len(shared))
	}
}

func TestRequestErrors(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "malformed json",
			method: http.MethodPost,
			path:   "/api/v1/todos",
			body:   "{",
			status: http.StatusBadRequest,
			code:   codeBadRequest,
		},
		{
			name:   "missing title",
			method: http.MethodPost,
			path:   "/api/v1/todos",
			body:   map[string]any{"title": ""},
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name:   "bad limit",
			method: http.MethodGet,
			path:   "/api/v1/notes/recent?limit=many",
			status: http.StatusBadRequest,
			code:   codeBadRequest,
		},
		{
			name:   "bad range",
			method: http.MethodGet,
			path:   "/api/v1/events/range?from=yesterday&to=2024-06-10T00:00:00Z",
			status: http.StatusBadRequest,
			code:   codeBadRequest,
		},
		{
			name:   "unknown category",
			method: http.MethodGet,
			path:   "/api/v1/categories/missing",
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, alice, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body)
			}
			if body := decode[errorResponse](t, rec); body.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.Code)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/categories", f.token(t, "alice"), categories.CreateInput{Name: ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
	body := decode[errorResponse](t, rec)
	if body.Error != "Failed to create category" {
		t.Errorf("unexpected message %q", body.Error)
	}
	if len(body.Details) == 0 {
		t.Error("expected field details")
	}
}

func TestCategoryDeleteConflict(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/categories", alice, categories.CreateInput{Name: "Work", Color: "#112233"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	work := decode[categories.Category](t, rec)

	rec = f.do(t, http.MethodPost, "/api/v1/todos", alice, todos.CreateInput{Title: "filed", CategoryID: &work.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create todo: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	todo := decode[todos.Todo](t, rec)

	rec = f.do(t, http.MethodGet, "/api/v1/categories/"+work.ID+"/can-delete", alice, nil)
	if check := decode[categories.Deletability](t, rec); check.CanDelete {
		t.Errorf("expected category in use, got %+v", check)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/categories/"+work.ID, alice, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete: expected 409, got %d: %s", rec.Code, rec.Body)
	}
	if body := decode[errorResponse](t, rec); body.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT, got %s", body.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/categories/"+work.ID+"/reassign", alice, map[string]any{"target_id": nil})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reassign: expected 204, got %d: %s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/todos/"+todo.ID, alice, nil)
	if got := decode[todos.Todo](t, rec); got.CategoryID != nil {
		t.Errorf("expected category cleared, got %v", *got.CategoryID)
	}
}

func TestCacheControlBypass(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/todos", alice, todos.CreateInput{Title: "cached"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	path := "/api/v1/todos/" + decode[todos.Todo](t, rec).ID

	f.do(t, http.MethodGet, path, alice, nil)
	f.do(t, http.MethodGet, path, alice, nil)
	hits := f.cache.Hits
	if hits == 0 {
		t.Fatal("expected a cache hit on the repeated read")
	}

	rec = f.do(t, http.MethodGet, path, alice, nil, "Cache-Control", "no-cache")
	if rec.Code != http.StatusOK {
		t.Fatalf("bypass read: expected 200, got %d", rec.Code)
	}
	if f.cache.Hits != hits {
		t.Errorf("expected bypassed read to skip the cache, hits %d -> %d", hits, f.cache.Hits)
	}
}

func TestEventRoutes(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	start := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	rec := f.do(t, http.MethodPost, "/api/v1/events", alice, map[string]any{
		"title":      "standup",
		"start_time": start,
		"end_time":   start.Add(30 * time.Minute),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = f.do(t, http.MethodGet, "/api/v1/events/conflicts?start=2024-06-04T10:15:00Z&end=2024-06-04T11:00:00Z", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("conflicts: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if list := decode[[]map[string]any](t, rec); len(list) != 1 {
		t.Errorf("expected one conflict, got %d", len(list))
	}

	rec = f.do(t, http.MethodPost, "/api/v1/events/"+id+"/attendees", alice, map[string]any{"email": "bob@example.com", "name": "Bob"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("attendee: expected 201, got %d: %s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/events/"+id+"/duplicate", alice, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if dup := decode[map[string]any](t, rec); dup["id"] == id {
		t.Error("expected a new id for the copy")
	}
}

func TestDashboardAndActivity(t *testing.T) {
	f := newFixture(t)
	alice := f.token(t, "alice")

	f.do(t, http.MethodPost, "/api/v1/todos", alice, todos.CreateInput{Title: "one"})
	f.do(t, http.MethodPost, "/api/v1/todos", alice, todos.CreateInput{Title: "two"})

	rec := f.do(t, http.MethodGet, "/api/v1/dashboard/quick-stats", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("quick stats: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if stats := decode[map[string]int](t, rec); stats["totalTodos"] != 2 {
		t.Errorf("expected 2 todos, got %+v", stats)
	}

	if rec = f.do(t, http.MethodGet, "/api/v1/dashboard", alice, nil); rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/activity?entity_type=todos&limit=1", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activity: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if rows := decode[[]map[string]any](t, rec); len(rows) != 1 {
		t.Errorf("expected limit to cap rows at 1, got %d", len(rows))
	}

	rec = f.do(t, http.MethodGet, "/api/v1/activity", f.token(t, "bob"), nil)
	if rows := decode[[]map[string]any](t, rec); len(rows) != 0 {
		t.Errorf("expected no activity for bob, got %d", len(rows))
	}
}
