package entry

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

func (h *Handler) CreateMood(w http.ResponseWriter, r *http.Request) {
	var req CreateMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.service.CreateMood(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, m)
}

// ListMoods serves a user's mood history scoped to what the caller may
// see. The viewer comes from the (optional) token; an optional circleId
// query narrows the circle-mate check to one circle.
func (h *Handler) ListMoods(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	moods, err := h.service.Moods(r.Context(), ownerID, middleware.UserID(r.Context()), circleIDParam(r))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, moods)
}

func (h *Handler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid mood id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteMood(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "mood deleted")
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.service.CreateJournal(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, j)
}

func (h *Handler) ListJournals(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	journals, err := h.service.Journals(r.Context(), ownerID, middleware.UserID(r.Context()), circleIDParam(r))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, journals)
}

func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid journal id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteJournal(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "entry deleted")
}

func circleIDParam(r *http.Request) int {
	id, _ := strconv.Atoi(r.URL.Query().Get("circleId"))
	return id
}
