package post

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arpitag110/mindbridge/internal/middleware"
	"github.com/Arpitag110/mindbridge/internal/web"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s, validate: validator.New()}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	p, err := h.service.Create(ctx, middleware.UserID(ctx), middleware.Username(ctx), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, p)
}

func (h *Handler) ListByCircle(w http.ResponseWriter, r *http.Request) {
	circleID, err := strconv.Atoi(chi.URLParam(r, "circleId"))
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	posts, err := h.service.ListByCircle(r.Context(), circleID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, posts)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	liked, err := h.service.ToggleLike(ctx, id, middleware.UserID(ctx), middleware.Username(ctx))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	c, err := h.service.AddComment(ctx, id, middleware.UserID(ctx), middleware.Username(ctx), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), id, middleware.UserID(r.Context()), &req); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "post updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "post deleted")
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Report(r.Context(), id, middleware.UserID(r.Context()), &req); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "post reported")
}

func postID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
