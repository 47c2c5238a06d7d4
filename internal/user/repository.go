package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Arpitag110/mindbridge/internal/errs"
)

const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	var id int
	query := "INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id"

	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.Password).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errs.Conflict("username or email already taken")
		}
		return nil, err
	}

	u.ID = id
	return u, nil
}

const userColumns = `id, username, email, password, bio, avatar, mantra,
       array_to_string(interests, ','), ghost_mode, created_at`

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var interests string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Bio, &u.Avatar,
		&u.Mantra, &interests, &u.GhostMode, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("user")
		}
		return nil, err
	}
	u.Interests = unpackList(interests)
	return u, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1"
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *Repository) GetByID(ctx context.Context, id int) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Update applies only the fields present in req. NULL args keep the
// current column value.
func (r *Repository) Update(ctx context.Context, id int, req *UpdateRequest) (*User, error) {
	var interests *string
	if req.Interests != nil {
		joined := packList(req.Interests)
		interests = &joined
	}

	query := `
		UPDATE users SET
			username   = COALESCE($2, username),
			email      = COALESCE($3, email),
			password   = COALESCE($4, password),
			bio        = COALESCE($5, bio),
			avatar     = COALESCE($6, avatar),
			mantra     = COALESCE($7, mantra),
			interests  = CASE WHEN $8::text IS NULL THEN interests ELSE string_to_array($8, ',') END,
			ghost_mode = COALESCE($9, ghost_mode)
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query, id, req.Username, req.Email, req.Password,
		req.Bio, req.Avatar, req.Mantra, interests, req.GhostMode)
	u, err := r.scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errs.Conflict("username or email already taken")
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the account. Moods, journals, messages and the rest go
// with it through the ON DELETE CASCADE constraints.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("user")
	}
	return nil
}

func (r *Repository) Search(ctx context.Context, query string) ([]Profile, error) {
	// We limit to 10 to keep it fast
	q := `SELECT id, username, avatar FROM users WHERE username ILIKE $1 LIMIT 10`
	rows, err := r.db.QueryContext(ctx, q, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Avatar); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Profiles resolves display info for a set of user ids.
func (r *Repository) Profiles(ctx context.Context, ids []int) (map[int]Profile, error) {
	result := make(map[int]Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := "SELECT id, username, avatar FROM users WHERE id IN (" + strings.Join(placeholders, ", ") + ")"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Avatar); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

func (r *Repository) Stats(ctx context.Context, id int) (Stats, error) {
	var s Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM moods WHERE user_id = $1),
			(SELECT COUNT(*) FROM journals WHERE user_id = $1)
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.MoodCount, &s.JournalCount)
	return s, err
}

func packList(items []string) string {
	return strings.Join(items, ",")
}

func unpackList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
