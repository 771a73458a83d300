package handler

import (
	"go-blog-api/common"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      model.RegisterRequest  true  "New user"
// @Success      201   {object}  model.User
// @Failure      400   {object}  common.AppError
// @Failure      409   {object}  common.AppError
// @Router       /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		return toAppError(err)
	}

	common.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// Profile godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Router       /users/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, _ := ClaimsFromContext(r.Context())
	user, err := h.service.GetUser(r.Context(), claims.Subject)
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// ListUsers godoc
// @Summary      List users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, err := h.service.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// UpdateUser godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "User ID"
// @Param        profile  body      model.UpdateUserRequest  true  "Fields to change"
// @Success      200      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.service.UpdateUser(r.Context(), r.PathValue("id"), req)
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// DeleteUser soft-deletes the caller's own account.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		return toAppError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// UpdateUserRoles godoc
// @Summary      Replace a user's roles (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string                        true  "User ID"
// @Param        roles  body      model.UpdateUserRolesRequest  true  "Roles"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  common.AppError
// @Failure      403    {object}  common.AppError
// @Failure      404    {object}  common.AppError
// @Router       /users/{id}/roles [put]
func (h *UserHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserRolesRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	userID := r.PathValue("id")
	claims, _ := ClaimsFromContext(r.Context())
	log := logger.Log.WithFields(logrus.Fields{
		"admin_id":       claims.Subject,
		"target_user_id": userID,
		"roles":          model.RoleStrings(req.Roles),
	})
	log.Info("Admin request to update user roles")

	if err := h.service.UpdateUserRoles(r.Context(), userID, req.Roles); err != nil {
		return toAppError(err)
	}

	log.Info("User roles updated successfully")
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "User roles updated successfully"})
	return nil
}
