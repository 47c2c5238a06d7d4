package circle

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

	c, err := h.service.Create(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	circles, err := h.service.List(r.Context(), q.Get("search"), q.Get("tag"))
	if err != nil {
		web.Error(w, err)
		return
	}
	if circles == nil {
		circles = []Summary{}
	}
	web.JSON(w, http.StatusOK, circles)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
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
	web.JSON(w, http.StatusOK, "circle updated")
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Join(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, result)
}

func (h *Handler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	var req RequestAction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ResolveRequest(r.Context(), id, middleware.UserID(r.Context()), &req); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "request "+req.Action+"d")
}

type memberRequest struct {
	MemberID int `json:"memberId" validate:"required"`
}

func (h *Handler) Kick(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Kick(r.Context(), id, middleware.UserID(r.Context()), req.MemberID); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "member removed")
}

func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := circleID(r)
	if err != nil {
		http.Error(w, "invalid circle id", http.StatusBadRequest)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Promote(r.Context(), id, middleware.UserID(r.Context()), req.MemberID); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "member promoted")
}

func circleID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
