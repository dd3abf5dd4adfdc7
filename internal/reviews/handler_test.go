package reviews

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"reviewhub/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(store Store, events Publisher) *gin.Engine {
	r := gin.New()
	NewHandler(store, events, discardLogger()).RegisterRoutes(r.Group("/api"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReview(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	r := newTestRouter(store, pub)

	w := do(r, http.MethodPost, "/api/reviews", `{"email":"a@b.com","rating":3,"text":"ok"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"id", "email", "rating", "text", "created_at"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("response missing %q: %s", key, w.Body.String())
		}
	}
	if body["email"] != "a@b.com" || body["rating"] != float64(3) || body["text"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(pub.created) != 1 || pub.created[0].Email != "a@b.com" {
		t.Fatalf("expected one published review, got %+v", pub.created)
	}
}

func TestCreateThenListNewestFirst(t *testing.T) {
	r := newTestRouter(newMemStore(), nil)

	do(r, http.MethodPost, "/api/reviews", `{"email":"old@b.com","rating":1,"text":"meh"}`)
	w := do(r, http.MethodPost, "/api/reviews", `{"email":"a@b.com","rating":3,"text":"ok"}`)
	var created models.Review
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w = do(r, http.MethodGet, "/api/reviews", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var items []models.Review
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 2 || items[0].ID != created.ID {
		t.Fatalf("expected created review first, got %+v", items)
	}
}

func TestCreateReviewStoreFailure(t *testing.T) {
	store := newMemStore()
	store.createErr = errStoreDown
	pub := &recordingPublisher{}
	r := newTestRouter(store, pub)

	w := do(r, http.MethodPost, "/api/reviews", `{"email":"a@b.com","rating":3,"text":"ok"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != errSubmitFailed {
		t.Fatalf("expected generic error, got %v", body)
	}
	if _, ok := body["id"]; ok {
		t.Fatalf("failure body must not look like a review: %v", body)
	}
	if strings.Contains(w.Body.String(), errStoreDown.Error()) {
		t.Fatal("store error detail leaked to the client")
	}
	if len(pub.created) != 0 {
		t.Fatal("nothing should be published on failure")
	}
}

func TestCreateReviewMalformedBody(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"email":`,
		"empty":         ``,
		"rating string": `{"email":"a@b.com","rating":"three","text":"ok"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			r := newTestRouter(store, nil)

			w := do(r, http.MethodPost, "/api/reviews", body)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), errSubmitFailed) {
				t.Fatalf("expected generic error, got %s", w.Body.String())
			}
			if store.creates != 0 {
				t.Fatal("store must not be called for a malformed body")
			}
		})
	}
}

func TestCreateReviewNoServerValidation(t *testing.T) {
	r := newTestRouter(newMemStore(), nil)

	w := do(r, http.MethodPost, "/api/reviews", `{"email":"","rating":9,"text":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected out-of-range rating to pass through, got %d", w.Code)
	}
}

func TestListReviewsEmpty(t *testing.T) {
	r := newTestRouter(newMemStore(), nil)

	w := do(r, http.MethodGet, "/api/reviews", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestListReviewsStoreFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errStoreDown
	r := newTestRouter(store, nil)

	w := do(r, http.MethodGet, "/api/reviews", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), errFetchFailed) {
		t.Fatalf("expected generic error, got %s", w.Body.String())
	}
}

func TestRouteAliases(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store, nil)

	w := do(r, http.MethodPost, "/api/post-review", `{"email":"a@b.com","rating":5,"text":"great"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/post-review: expected 200, got %d", w.Code)
	}

	for _, path := range []string{"/api/get-reviews", "/api/reviews/get-reviews"} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
		}
		var items []models.Review
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) != 1 {
			t.Fatalf("GET %s: unexpected body %s", path, w.Body.String())
		}
	}
}
