package chat

import (
	"context"
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, m *Message) (*Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, m.Text).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// History returns the full thread between two users, oldest first.
func (r *Repository) History(ctx context.Context, a, b int) ([]Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, text, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Conversations aggregates one row per distinct partner in a single
// query: the newest message per normalized (lo, hi) pair via DISTINCT ON,
// plus the unread count from that partner. This replaces the obvious
// scan-everything approach, which reads the whole log on every dashboard
// load.
func (r *Repository) Conversations(ctx context.Context, userID int) ([]Conversation, error) {
	query := `
		SELECT
			CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS partner_id,
			m.text,
			m.created_at,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.sender_id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
			   AND u.receiver_id = $1
			   AND NOT u.read) AS unread_count
		FROM (
			SELECT DISTINCT ON (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id)) *
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), created_at DESC
		) m
		ORDER BY m.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.PartnerID, &c.LastMessage, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// MarkConversationRead flips every unread message from partner to user.
// Running it again matches zero rows, so it is idempotent.
func (r *Repository) MarkConversationRead(ctx context.Context, userID, partnerID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE messages SET read = TRUE WHERE sender_id = $1 AND receiver_id = $2 AND NOT read",
		partnerID, userID)
	return err
}
