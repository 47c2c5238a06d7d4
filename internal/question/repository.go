package question

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Arpitag110/mindbridge/internal/errs"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, q *Question) (*Question, error) {
	query := `
		INSERT INTO questions (circle_id, user_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, q.CircleID, q.UserID, q.Title, q.Body).
		Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *Repository) ListByCircle(ctx context.Context, circleID int) ([]Question, error) {
	query := `
		SELECT q.id, q.circle_id, q.user_id, u.username, u.avatar, q.title, q.body, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.user_id
		WHERE q.circle_id = $1
		ORDER BY q.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, circleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	index := map[int]int{}
	for rows.Next() {
		var q Question
		err := rows.Scan(&q.ID, &q.CircleID, &q.UserID, &q.Username, &q.Avatar,
			&q.Title, &q.Body, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		q.Answers = []Answer{}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	answerQuery := `
		SELECT a.id, a.question_id, a.user_id, u.username, u.avatar, a.text,
		       COALESCE((SELECT string_agg(v.user_id::text, ',' ORDER BY v.user_id)
		                 FROM answer_upvotes v WHERE v.answer_id = a.id), ''),
		       a.created_at
		FROM answers a
		JOIN users u ON u.id = a.user_id
		JOIN questions q ON q.id = a.question_id
		WHERE q.circle_id = $1
		ORDER BY a.created_at
	`
	arows, err := r.db.QueryContext(ctx, answerQuery, circleID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var a Answer
		var upvotes string
		err := arows.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Username, &a.Avatar,
			&a.Text, &upvotes, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		a.Upvotes = parseIDList(upvotes)
		if i, ok := index[a.QuestionID]; ok {
			questions[i].Answers = append(questions[i].Answers, a)
		}
	}
	return questions, arows.Err()
}

func (r *Repository) Get(ctx context.Context, id int) (*Question, error) {
	q := &Question{}
	query := "SELECT id, circle_id, user_id, title, body, created_at FROM questions WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&q.ID, &q.CircleID, &q.UserID, &q.Title, &q.Body, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("question")
		}
		return nil, err
	}
	return q, nil
}

func (r *Repository) AddAnswer(ctx context.Context, a *Answer) (*Answer, error) {
	query := `
		INSERT INTO answers (question_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, a.QuestionID, a.UserID, a.Text).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) GetAnswer(ctx context.Context, id int) (*Answer, error) {
	a := &Answer{}
	query := "SELECT id, question_id, user_id, text, created_at FROM answers WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Text, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("answer")
		}
		return nil, err
	}
	return a, nil
}

// ToggleUpvote adds the user's upvote, or removes it on a second call.
// Returns whether the answer is upvoted by the user afterwards.
func (r *Repository) ToggleUpvote(ctx context.Context, answerID, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM answer_upvotes WHERE answer_id = $1 AND user_id = $2", answerID, userID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO answer_upvotes (answer_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		answerID, userID)
	return true, err
}

func (r *Repository) Update(ctx context.Context, id int, title, body string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE questions SET title = $2, body = $3 WHERE id = $1", id, title, body)
	return err
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = $1", id)
	return err
}

func (r *Repository) DeleteAnswer(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM answers WHERE id = $1", id)
	return err
}

func parseIDList(s string) []int {
	if s == "" {
		return []int{}
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.Atoi(p); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
