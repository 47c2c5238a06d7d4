package question

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
	q, err := h.service.Create(ctx, middleware.UserID(ctx), middleware.Username(ctx), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, q)
}

func (h *Handler) ListByCircle(w http.ResponseWriter, r *http.Request) {
	circleID, err := strconv.Atoi(chi.URLParam(r, "circleId"))
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	questions, err := h.service.ListByCircle(r.Context(), circleID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, questions)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	a, err := h.service.Answer(ctx, id, middleware.UserID(ctx), middleware.Username(ctx), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, a)
}

func (h *Handler) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	answerID, err := strconv.Atoi(chi.URLParam(r, "ansId"))
	if err != nil {
		http.Error(w, "invalid answer id", http.StatusBadRequest)
		return
	}

	upvoted, err := h.service.ToggleUpvote(r.Context(), answerID, middleware.UserID(r.Context()))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]bool{"upvoted": upvoted})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
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
	web.JSON(w, http.StatusOK, "question updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "question deleted")
}

func (h *Handler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	answerID, err := strconv.Atoi(chi.URLParam(r, "ansId"))
	if err != nil {
		http.Error(w, "invalid answer id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteAnswer(r.Context(), answerID, middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "answer deleted")
}
