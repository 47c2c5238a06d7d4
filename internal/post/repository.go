package post

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

func (r *Repository) Create(ctx context.Context, p *Post) (*Post, error) {
	query := `
		INSERT INTO posts (circle_id, user_id, content, is_anonymous)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.CircleID, p.UserID, p.Content, p.IsAnonymous).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCircle returns a circle's posts newest first, with author info,
// like lists and comments attached.
func (r *Repository) ListByCircle(ctx context.Context, circleID int) ([]Post, error) {
	query := `
		SELECT p.id, p.circle_id, p.user_id, u.username, u.avatar, p.content, p.is_anonymous,
		       COALESCE((SELECT string_agg(l.user_id::text, ',' ORDER BY l.user_id)
		                 FROM post_likes l WHERE l.post_id = p.id), ''),
		       p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.circle_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, circleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	index := map[int]int{}
	for rows.Next() {
		var p Post
		var likes string
		err := rows.Scan(&p.ID, &p.CircleID, &p.UserID, &p.Username, &p.Avatar,
			&p.Content, &p.IsAnonymous, &likes, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Likes = parseIDList(likes)
		p.Comments = []Comment{}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	commentQuery := `
		SELECT c.id, c.post_id, c.user_id, u.username, u.avatar, c.text, c.created_at
		FROM post_comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE p.circle_id = $1
		ORDER BY c.created_at
	`
	crows, err := r.db.QueryContext(ctx, commentQuery, circleID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()

	for crows.Next() {
		var c Comment
		if err := crows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Avatar, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return posts, crows.Err()
}

// Get returns the bare post row, enough for authorization decisions.
func (r *Repository) Get(ctx context.Context, id int) (*Post, error) {
	p := &Post{}
	query := "SELECT id, circle_id, user_id, content, is_anonymous, created_at FROM posts WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.CircleID, &p.UserID, &p.Content, &p.IsAnonymous, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("post")
		}
		return nil, err
	}
	return p, nil
}

// ToggleLike adds the user's like, or removes it if already present.
// Returns whether the post is liked by the user afterwards.
func (r *Repository) ToggleLike(ctx context.Context, postID, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		postID, userID)
	return true, err
}

func (r *Repository) AddComment(ctx context.Context, c *Comment) (*Comment, error) {
	query := `
		INSERT INTO post_comments (post_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.PostID, c.UserID, c.Text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) UpdateContent(ctx context.Context, id int, content string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE posts SET content = $2 WHERE id = $1", id, content)
	return err
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

func (r *Repository) Report(ctx context.Context, postID, userID int, reason string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO post_reports (post_id, user_id, reason) VALUES ($1, $2, $3)",
		postID, userID, reason)
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
