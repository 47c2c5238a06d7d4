package chat

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Arpitag110/mindbridge/internal/middleware"
	"github.com/Arpitag110/mindbridge/internal/web"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: pin allowed origins once the client domain is fixed
	},
}

type Handler struct {
	hub      *Hub
	service  *Service
	validate *validator.Validate
}

func NewHandler(hub *Hub, service *Service) *Handler {
	return &Handler{hub: hub, service: service, validate: validator.New()}
}

// ServeWs upgrades the connection and registers the session with the
// hub. A second login for the same username displaces the first.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	username := middleware.Username(r.Context())
	if userID == 0 || username == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		UserID:    userID,
		Username:  username,
		SessionID: uuid.NewString(),
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.service.Send(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, m)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	partnerID, err := strconv.Atoi(chi.URLParam(r, "partnerId"))
	if err != nil {
		http.Error(w, "invalid partner id", http.StatusBadRequest)
		return
	}

	messages, err := h.service.History(r.Context(), middleware.UserID(r.Context()), partnerID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, messages)
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.service.Conversations(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, conversations)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	partnerID, err := strconv.Atoi(chi.URLParam(r, "partnerId"))
	if err != nil {
		http.Error(w, "invalid partner id", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkConversationRead(r.Context(), middleware.UserID(r.Context()), partnerID); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, "conversation marked as read")
}
