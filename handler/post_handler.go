package handler

import (
	"go-blog-api/common"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(s *service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// OwnerOf loads the author of the post named by the {id} path value.
func (h *PostHandler) OwnerOf(r *http.Request) (string, error) {
	return h.service.OwnerOf(r.Context(), r.PathValue("id"))
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post  body      model.CreatePostRequest  true  "Post"
// @Success      201   {object}  model.Post
// @Router       /posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreatePostRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	claims, _ := ClaimsFromContext(r.Context())
	post, err := h.service.CreatePost(r.Context(), claims.Subject, req)
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusCreated, post)
	return nil
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) *common.AppError {
	post, err := h.service.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdatePostRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	post, err := h.service.UpdatePost(r.Context(), r.PathValue("id"), req)
	if err != nil {
		return toAppError(err)
	}
	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.DeletePost(r.Context(), r.PathValue("id")); err != nil {
		return toAppError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
