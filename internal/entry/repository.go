package entry

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Arpitag110/mindbridge/internal/errs"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateMood(ctx context.Context, m *Mood) (*Mood, error) {
	query := `
		INSERT INTO moods (user_id, score, emotions, note, color, visibility)
		VALUES ($1, $2, string_to_array($3, ','), $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.UserID, m.Score,
		strings.Join(m.Emotions, ","), m.Note, m.Color, m.Visibility).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMoods returns the owner's moods restricted to the allowed
// visibility tags, newest first.
func (r *Repository) ListMoods(ctx context.Context, ownerID int, allowed []string) ([]Mood, error) {
	query := `
		SELECT id, user_id, score, array_to_string(emotions, ','), note, color, visibility, created_at
		FROM moods
		WHERE user_id = $1 AND visibility = ANY(string_to_array($2, ','))
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, strings.Join(allowed, ","))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moods []Mood
	for rows.Next() {
		var m Mood
		var emotions string
		err := rows.Scan(&m.ID, &m.UserID, &m.Score, &emotions, &m.Note, &m.Color,
			&m.Visibility, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		if emotions != "" {
			m.Emotions = strings.Split(emotions, ",")
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func (r *Repository) MoodOwner(ctx context.Context, id int) (int, error) {
	var owner int
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM moods WHERE id = $1", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.NotFound("mood")
	}
	return owner, err
}

func (r *Repository) DeleteMood(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM moods WHERE id = $1", id)
	return err
}

func (r *Repository) CreateJournal(ctx context.Context, j *Journal) (*Journal, error) {
	query := `
		INSERT INTO journals (user_id, title, content, mood_tag, visibility)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, j.UserID, j.Title, j.Content, j.MoodTag, j.Visibility).
		Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *Repository) ListJournals(ctx context.Context, ownerID int, allowed []string) ([]Journal, error) {
	query := `
		SELECT id, user_id, title, content, mood_tag, visibility, created_at
		FROM journals
		WHERE user_id = $1 AND visibility = ANY(string_to_array($2, ','))
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, strings.Join(allowed, ","))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journals []Journal
	for rows.Next() {
		var j Journal
		err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.MoodTag,
			&j.Visibility, &j.CreatedAt)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

func (r *Repository) JournalOwner(ctx context.Context, id int) (int, error) {
	var owner int
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM journals WHERE id = $1", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.NotFound("journal entry")
	}
	return owner, err
}

func (r *Repository) DeleteJournal(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM journals WHERE id = $1", id)
	return err
}
