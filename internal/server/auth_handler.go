package server

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/nextstep/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, v *validator.Validate, logger *slog.Logger) *AuthHandler {
	if v == nil {
		v = newValidator()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   v,
		logger:      logger,
	}
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("auth request failed", "path", r.URL.Path, "error", err)
		errorResponse(w, status, "Internal server error")
		return
	}
	errorResponse(w, status, err.Error())
}

// issue writes the user together with a fresh token pair.
func (h *AuthHandler) issue(w http.ResponseWriter, status int, user *types.User) {
	pair, err := h.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", "user_id", user.ID, "error", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	jsonResponse(w, status, types.LoginResponse{
		User:    user,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	h.issue(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.issue(w, http.StatusOK, user)
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req types.RefreshRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	claims, err := h.jwtService.ValidateToken(req.Refresh, TokenTypeRefresh)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// the account may have been removed since the refresh token was issued
	if _, err := h.userService.Get(r.Context(), claims.UserID); err != nil {
		if HTTPStatus(err) == http.StatusNotFound {
			errorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		h.fail(w, r, err)
		return
	}

	access, err := h.jwtService.GenerateToken(claims.UserID, TokenTypeAccess)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	jsonResponse(w, http.StatusOK, types.RefreshResponse{Access: access})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateMe changes the authenticated account's names.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdatePassword handles password changes for the authenticated account.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.UpdatePasswordRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}
