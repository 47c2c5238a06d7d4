package notify

import (
	"net/http"

	"github.com/Arpitag110/mindbridge/internal/middleware"
	"github.com/Arpitag110/mindbridge/internal/web"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.repo.ListByRecipient(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		web.Error(w, err)
		return
	}
	if notifications == nil {
		notifications = []Notification{}
	}
	web.JSON(w, http.StatusOK, notifications)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.MarkAllRead(r.Context(), middleware.UserID(r.Context())); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "notifications marked as read")
}
