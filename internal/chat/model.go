package chat

import (
	"encoding/json"
	"time"
)

type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"senderId"`
	ReceiverID int       `json:"receiverId"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Conversation is one row of the recent-chats list: a distinct partner,
// the latest message either way, and how many of their messages the user
// hasn't read yet.
type Conversation struct {
	PartnerID     int       `json:"partnerId"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

type SendRequest struct {
	ReceiverID int    `json:"receiverId" validate:"required"`
	Text       string `json:"text" validate:"required,max=2000"`
}

// Envelope is the wire format on the websocket and the redis channel.
// RecipientID is only meaningful on the redis side; it is stripped
// before the frame reaches a browser.
type Envelope struct {
	RecipientID int             `json:"recipientId,omitempty"`
	Event       string          `json:"event"`
	Data        json.RawMessage `json:"data"`
}

// MessageEvent is the data payload of a live-delivered chat message.
type MessageEvent struct {
	SenderID   int       `json:"senderId"`
	ReceiverID int       `json:"receiverId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
