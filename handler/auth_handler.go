package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Signup godoc
// @Summary      Register a new user
// @Description  Creates a TENANT user and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.SignupRequest true "Signup payload"
// @Success      200 {object} model.AuthResponse
// @Failure      400 {object} common.AppError
// @Failure      500 {object} common.AppError
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignupRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	resp, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrEmailTaken:
			return common.NewAppError(http.StatusBadRequest, "Email already registered", nil)
		case service.ErrRoleNotProvisioned:
			return common.NewAppError(http.StatusInternalServerError, "Tenant role not found", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Server error", err)
		}
	}

	h.userService.InvalidateUserList()
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200 {object} model.AuthResponse
// @Failure      401 {object} common.AppError
// @Failure      500 {object} common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	resp, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Server error", err)
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Exchanges a valid refresh token for a new token pair; the old token is invalidated
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest true "Refresh payload"
// @Success      200 {object} model.TokenPair
// @Failure      400 {object} common.AppError
// @Failure      401 {object} common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if err == service.ErrInvalidRefresh {
			return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Server error", err)
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

// Logout godoc
// @Summary      Log a user out
// @Description  Clears the stored refresh token for the user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LogoutRequest true "Logout payload"
// @Success      200 {object} map[string]bool
// @Failure      400 {object} common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LogoutRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.authService.Logout(req.UserID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Server error", err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	return nil
}
