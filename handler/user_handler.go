package handler

import (
	"go-auth-api/common"
	"go-auth-api/service"
	"net/http"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me godoc
// @Summary      Current user
// @Description  Returns the user resolved from the access token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.PublicUser
// @Failure      401 {object} common.AppError
// @Router       /me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Not authenticated", nil)
	}

	writeJSON(w, http.StatusOK, user.Public())
	return nil
}

// ListUsers godoc
// @Summary      List users
// @Description  Returns all registered users. Admin only.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.PublicUser
// @Failure      401 {object} common.AppError
// @Failure      403 {object} common.AppError
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Server error", err)
	}

	writeJSON(w, http.StatusOK, users)
	return nil
}
