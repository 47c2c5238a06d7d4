package notify

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

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, sender_name, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, n.RecipientID, n.SenderName, n.Type, n.Message).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *Repository) ListByRecipient(ctx context.Context, recipientID int) ([]Notification, error) {
	query := `
		SELECT id, recipient_id, sender_name, type, message, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderName, &n.Type, &n.Message,
			&n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read", recipientID)
	return err
}
