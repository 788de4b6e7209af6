package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/security"
	"chorechampions/internal/seed"
	"chorechampions/internal/service"
	"chorechampions/internal/teachback"
)

type stubJudge struct {
	answer string
	err    error
}

func (j stubJudge) Evaluate(context.Context, teachback.Request) (string, error) {
	return j.answer, j.err
}

type testServer struct {
	mux  *http.ServeMux
	repo *repository.StateRepository
}

func newTestServer(t *testing.T, judge teachback.Judge, limiter *security.RateLimiter) *testServer {
	t.Helper()

	repo := repository.NewStateRepository(repository.NewMemoryStore())
	if _, err := repo.Load(context.Background(), func() (models.AppState, error) { return seed.Default(), nil }); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	authService, err := service.NewAuthService(repo, "admin123", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService() error = %v", err)
	}
	learnerService := service.NewLearnerService(repo, nil)
	catalogService := service.NewCatalogService(repo)
	teachBackService := service.NewTeachBackService(judge, learnerService, time.Millisecond, false)

	mux := http.NewServeMux()
	RegisterRoutes(mux,
		NewMiddleware(authService, limiter),
		NewAuthHandler(authService, learnerService),
		NewParentHandler(catalogService, learnerService),
		NewLearnerHandler(learnerService),
		NewTeachBackHandler(teachBackService),
	)
	return &testServer{mux: mux, repo: repo}
}

// client carries the cookie and CSRF token of one login
type client struct {
	cookie *http.Cookie
	csrf   string
}

func (s *testServer) do(t *testing.T, c *client, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c != nil {
		req.AddCookie(c.cookie)
		req.Header.Set(security.CSRFHeader, c.csrf)
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, path string, body any) *client {
	t.Helper()

	rec := s.do(t, nil, http.MethodPost, path, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", path, rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return &client{cookie: c, csrf: resp.CSRFToken}
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}
