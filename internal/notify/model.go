package notify

import "time"

// Notification types mirror what triggers them.
const (
	TypePost     = "post"
	TypeLike     = "like"
	TypeComment  = "comment"
	TypeQuestion = "question"
	TypeAnswer   = "answer"
)

type Notification struct {
	ID          int       `json:"id"`
	RecipientID int       `json:"recipientId"`
	SenderName  string    `json:"senderName"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is the ephemeral payload pushed to online recipients. It carries
// the same fields the persisted row does, minus the row identity.
type Event struct {
	SenderName string    `json:"senderName"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
