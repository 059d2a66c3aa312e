package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/service"
)

// SessionCookieName is the http-only cookie carrying the session token.
const SessionCookieName = "token"

// Password length bounds. The upper bound keeps hashing cost bounded.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
	maxEmailLength    = 254
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles sign-up, sign-in, profile, and sign-out.
type AuthHandler struct {
	logger  *slog.Logger
	service *service.AuthService
	cookies CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *slog.Logger, svc *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: svc,
		cookies: cookies,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateCredentials(req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	user, token, err := h.service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		h.logger.Error("sign up failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("user signed up", slog.String("user_id", user.ID))

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"user":    user.ToResponse(),
	})
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateCredentials(req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	user, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("sign in failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("user signed in", slog.String("user_id", user.ID))

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Signed in successfully",
		"user":    user.ToResponse(),
	})
}

// Profile handles GET /api/v1/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("profile lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user.ToResponse(),
	})
}

// SignOut handles POST /api/v1/auth/sign-out
//
// Tokens are stateless, so sign-out only instructs the client to discard
// the cookie; a copied token stays valid until natural expiry.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Signed out successfully",
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cookies.TTL.Seconds()),
	})
}

func validateCredentials(req credentialsRequest) []FieldError {
	var errs []FieldError

	switch {
	case req.Email == "":
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	case len(req.Email) > maxEmailLength:
		errs = append(errs, FieldError{Field: "email", Message: "Email is too long"})
	default:
		if _, err := mail.ParseAddress(req.Email); err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "Email is invalid"})
		}
	}

	switch {
	case req.Password == "":
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	case len(req.Password) < minPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	case len(req.Password) > maxPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at most 72 characters"})
	}

	return errs
}
