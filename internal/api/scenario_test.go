package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minnseong/security-study/internal/api/handler"
	"github.com/minnseong/security-study/internal/api/middleware"
	"github.com/minnseong/security-study/internal/core/domain"
	"github.com/minnseong/security-study/internal/core/service"
	"github.com/minnseong/security-study/internal/core/token"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = user.Username
	r.users[user.Username] = &clone
	return &clone, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

// newTestServer wires the request pipeline the way NewRouter does, minus the
// Mongo/Redis infrastructure, against an in-memory credential store.
func newTestServer(t *testing.T) (*echo.Echo, *memUserRepo, *token.Service) {
	t.Helper()

	tokens, err := token.NewService([]byte("scenario-secret"), time.Hour)
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}

	repo := &memUserRepo{users: make(map[string]*domain.User)}
	authService := service.NewAuthService(repo, tokens)
	userService := service.NewUserService(repo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Auth(tokens))

	e.POST("/api/authenticate", authHandler.Authenticate)
	e.POST("/api/signup", authHandler.Signup)
	e.GET("/api/hello", userHandler.Hello)
	e.GET("/api/user", userHandler.Me, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))
	e.GET("/api/user/:username", userHandler.ByUsername, middleware.RequireRoles(domain.RoleAdmin))

	return e, repo, tokens
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/authenticate", `{"username":"`+username+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid login response: %v", err)
	}
	return resp.Token
}

func TestScenario_UserLifecycle(t *testing.T) {
	e, _, tokens := newTestServer(t)

	// Signup is public and idempotent in its rejection: one record, then 409.
	rec := doJSON(e, http.MethodPost, "/api/signup", `{"username":"alice","password":"pw123","nickname":"Alice"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodPost, "/api/signup", `{"username":"alice","password":"pw123","nickname":"Alice"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", rec.Code)
	}

	// Login yields a token whose decoded roles are exactly [ROLE_USER], and
	// returns it in the Authorization response header too.
	rec = doJSON(e, http.MethodPost, "/api/authenticate", `{"username":"alice","password":"pw123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer ") {
		t.Fatalf("missing Authorization response header")
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("invalid login response: %v", err)
	}
	decoded, err := tokens.Verify(loginResp.Token, time.Now())
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if len(decoded.Roles) != 1 || decoded.Roles[0] != domain.RoleUser {
		t.Fatalf("expected decoded roles [ROLE_USER], got %v", decoded.Roles)
	}

	// The user token reads its own profile but not admin-only routes.
	rec = doJSON(e, http.MethodGet, "/api/user", "", loginResp.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/user: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodGet, "/api/user/bob", "", loginResp.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("GET /api/user/bob as ROLE_USER: expected 403, got %d", rec.Code)
	}

	// Hello stays public, token or not.
	rec = doJSON(e, http.MethodGet, "/api/hello", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/hello: expected 200, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/api/hello", "", "garbage-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/hello with bad token: expected 200, got %d", rec.Code)
	}
}

func TestScenario_ProtectedRouteRejections(t *testing.T) {
	e, _, tokens := newTestServer(t)

	// No token, forged token, expired token: identical 401s.
	bodies := make(map[string]struct{})
	for name, bearer := range map[string]string{
		"missing": "",
		"garbage": "not.a.token",
	} {
		rec := doJSON(e, http.MethodGet, "/api/user", "", bearer)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %d", name, rec.Code)
		}
		bodies[rec.Body.String()] = struct{}{}
	}

	expired, err := tokens.Issue(domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}}, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	rec := doJSON(e, http.MethodGet, "/api/user", "", expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", rec.Code)
	}
	bodies[rec.Body.String()] = struct{}{}

	if len(bodies) != 1 {
		t.Fatalf("401 responses must be indistinguishable, got %d variants", len(bodies))
	}
}

func TestScenario_AdminAccess(t *testing.T) {
	e, repo, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/signup", `{"username":"alice","password":"pw123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup alice: %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/api/signup", `{"username":"root","password":"adminpw"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup root: %d", rec.Code)
	}
	// Administrative role grant happens out of band; the next login picks it up.
	repo.users["root"].Roles = append(repo.users["root"].Roles, domain.RoleAdmin)

	adminToken := loginToken(t, e, "root", "adminpw")

	rec = doJSON(e, http.MethodGet, "/api/user/alice", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin GET /api/user/alice: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var profile map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("invalid profile: %v", err)
	}
	if profile["username"] != "alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	rec = doJSON(e, http.MethodGet, "/api/user/ghost", "", adminToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin GET unknown user: expected 404, got %d", rec.Code)
	}
}

func TestScenario_InactiveAccountRejected(t *testing.T) {
	e, repo, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/signup", `{"username":"eve","password":"pw123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup eve: %d", rec.Code)
	}
	repo.users["eve"].Active = false

	rec = doJSON(e, http.MethodPost, "/api/authenticate", `{"username":"eve","password":"pw123"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("inactive login: expected 401, got %d", rec.Code)
	}
}
