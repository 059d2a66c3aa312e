package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/service"
	"github.com/modelgate/modelgate/internal/testutil"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := service.NewAuthService(store, issuer, metrics.NewNoop())
	return NewAuthHandler(testLogger(), svc, CookieConfig{TTL: time.Hour}), store
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	rec := httptest.NewRecorder()
	h.SignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("expected success=true")
	}
	if body["message"] != "User created successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok || user["id"] == "" {
		t.Errorf("expected user with id, got %v", body["user"])
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be http-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("session cookie must be SameSite=Strict")
	}
	if cookie.Value == "" {
		t.Error("session cookie must carry a token")
	}
}

func TestSignUp_GrantsStarterCredits(t *testing.T) {
	t.Parallel()

	h, store := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	rec := httptest.NewRecorder()
	h.SignUp(rec, req)

	user, err := store.GetUserByEmail(req.Context(), "user@example.com")
	if err != nil {
		t.Fatalf("lookup created user: %v", err)
	}
	if user.Credits != model.SignupCredits {
		t.Errorf("credits = %d, want %d", user.Credits, model.SignupCredits)
	}
}

func TestSignUp_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"longenough"}`},
		{"invalid email", `{"email":"not-an-email","password":"longenough"}`},
		{"missing password", `{"email":"user@example.com"}`},
		{"short password", `{"email":"user@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newAuthHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.SignUp(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["message"] != "Validation error" {
				t.Errorf("unexpected message: %v", body["message"])
			}
			if _, ok := body["errors"].([]any); !ok {
				t.Errorf("expected errors array, got %v", body["errors"])
			}
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	h.SignUp(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"otherpassword"}`))
	rec := httptest.NewRecorder()
	h.SignUp(rec, second)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "User with this email already exists" {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	h.SignUp(httptest.NewRecorder(), signup)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Signed in successfully" {
		t.Errorf("unexpected message: %v", msg)
	}
	if sessionCookie(rec) == nil {
		t.Error("expected session cookie to be set")
	}
}

func TestSignIn_BadCredentials(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	h.SignUp(httptest.NewRecorder(), signup)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"user@example.com","password":"wrongpassword"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"longenough"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.SignIn(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			// Same message either way, so callers cannot probe for accounts.
			if msg := decodeBody(t, rec)["message"]; msg != "Invalid email or password" {
				t.Errorf("unexpected message: %v", msg)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	h, store := newAuthHandler(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"email":"user@example.com","password":"longenough"}`))
	h.SignUp(httptest.NewRecorder(), signup)

	user, err := store.GetUserByEmail(signup.Context(), "user@example.com")
	if err != nil {
		t.Fatalf("lookup user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	ctx := auth.ContextWithSession(req.Context(), &model.Session{UserID: user.ID, Email: user.Email})
	rec := httptest.NewRecorder()
	h.Profile(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	got, ok := body["user"].(map[string]any)
	if !ok || got["id"] != user.ID {
		t.Errorf("unexpected user payload: %v", body["user"])
	}
}

func TestProfile_UnknownUser(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	ctx := auth.ContextWithSession(req.Context(), &model.Session{UserID: "missing", Email: "x@y.com"})
	rec := httptest.NewRecorder()
	h.Profile(rec, req.WithContext(ctx))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "User not found" {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-out", nil)
	rec := httptest.NewRecorder()
	h.SignOut(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Signed out successfully" {
		t.Errorf("unexpected message: %v", msg)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie in response")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}
