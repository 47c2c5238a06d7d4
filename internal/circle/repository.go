package circle

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Arpitag110/mindbridge/internal/errs"
	"github.com/Arpitag110/mindbridge/internal/user"
)

const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the circle and makes the creator its first admin.
func (r *Repository) Create(ctx context.Context, c *Circle) (*Circle, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO circles (name, description, creator_id, tags, visibility, allows_anonymous, cover_image)
		VALUES ($1, $2, $3, string_to_array($4, ','), $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query, c.Name, c.Description, c.CreatorID,
		strings.Join(c.Tags, ","), c.Visibility, c.AllowsAnonymous, c.CoverImage).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errs.Conflict("circle name already taken")
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO circle_members (circle_id, user_id, role) VALUES ($1, $2, 'admin')",
		c.ID, c.CreatorID)
	if err != nil {
		return nil, err
	}

	return c, tx.Commit()
}

// List returns circles filtered by an optional name search and tag.
func (r *Repository) List(ctx context.Context, search, tag string) ([]Summary, error) {
	query := `
		SELECT c.id, c.name, c.description, c.creator_id, array_to_string(c.tags, ','),
		       c.visibility, c.allows_anonymous, c.cover_image, c.created_at,
		       (SELECT COUNT(*) FROM circle_members m WHERE m.circle_id = c.id AND NOT m.pending)
		FROM circles c
		WHERE ($1 = '' OR c.name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR $2 = ANY(c.tags))
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, search, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var circles []Summary
	for rows.Next() {
		var s Summary
		var tags string
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatorID, &tags,
			&s.Visibility, &s.AllowsAnonymous, &s.CoverImage, &s.CreatedAt, &s.MemberCount)
		if err != nil {
			return nil, err
		}
		s.Tags = splitTags(tags)
		circles = append(circles, s)
	}
	return circles, rows.Err()
}

// Get returns the circle with members, admins and pending requests.
func (r *Repository) Get(ctx context.Context, id int) (*Detail, error) {
	d := &Detail{}
	var tags string
	query := `
		SELECT id, name, description, creator_id, array_to_string(tags, ','),
		       visibility, allows_anonymous, cover_image, created_at
		FROM circles WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Description,
		&d.CreatorID, &tags, &d.Visibility, &d.AllowsAnonymous, &d.CoverImage, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("circle")
		}
		return nil, err
	}
	d.Tags = splitTags(tags)

	memberQuery := `
		SELECT u.id, u.username, u.avatar, m.role, m.pending
		FROM circle_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.circle_id = $1
		ORDER BY m.joined_at
	`
	rows, err := r.db.QueryContext(ctx, memberQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d.Members = []user.Profile{}
	d.Admins = []user.Profile{}
	d.PendingMembers = []user.Profile{}
	for rows.Next() {
		var p user.Profile
		var role string
		var pending bool
		if err := rows.Scan(&p.ID, &p.Username, &p.Avatar, &role, &pending); err != nil {
			return nil, err
		}
		switch {
		case pending:
			d.PendingMembers = append(d.PendingMembers, p)
		case role == "admin":
			d.Admins = append(d.Admins, p)
			d.Members = append(d.Members, p)
		default:
			d.Members = append(d.Members, p)
		}
	}
	return d, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int, req *UpdateRequest) error {
	var tags *string
	if req.Tags != nil {
		joined := strings.Join(req.Tags, ",")
		tags = &joined
	}
	query := `
		UPDATE circles SET
			name             = COALESCE($2, name),
			description      = COALESCE($3, description),
			tags             = CASE WHEN $4::text IS NULL THEN tags ELSE string_to_array($4, ',') END,
			visibility       = COALESCE($5, visibility),
			allows_anonymous = COALESCE($6, allows_anonymous),
			cover_image      = COALESCE($7, cover_image)
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, req.Name, req.Description, tags,
		req.Visibility, req.AllowsAnonymous, req.CoverImage)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.Conflict("circle name already taken")
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("circle")
	}
	return nil
}

func (r *Repository) Visibility(ctx context.Context, id int) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, "SELECT visibility FROM circles WHERE id = $1", id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.NotFound("circle")
	}
	return v, err
}

// IsMember reports full (non-pending) membership.
func (r *Repository) IsMember(ctx context.Context, circleID, userID int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM circle_members
			WHERE circle_id = $1 AND user_id = $2 AND NOT pending
		)
	`
	err := r.db.QueryRowContext(ctx, query, circleID, userID).Scan(&exists)
	return exists, err
}

func (r *Repository) IsAdmin(ctx context.Context, circleID, userID int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM circle_members
			WHERE circle_id = $1 AND user_id = $2 AND role = 'admin' AND NOT pending
		)
	`
	err := r.db.QueryRowContext(ctx, query, circleID, userID).Scan(&exists)
	return exists, err
}

// SharesCircle reports whether the two users are both full members of at
// least one common circle.
func (r *Repository) SharesCircle(ctx context.Context, a, b int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM circle_members ma
			JOIN circle_members mb ON ma.circle_id = mb.circle_id
			WHERE ma.user_id = $1 AND NOT ma.pending
			  AND mb.user_id = $2 AND NOT mb.pending
		)
	`
	err := r.db.QueryRowContext(ctx, query, a, b).Scan(&exists)
	return exists, err
}

// BothInCircle reports whether both users are full members of the given
// circle.
func (r *Repository) BothInCircle(ctx context.Context, circleID, a, b int) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM circle_members
		WHERE circle_id = $1 AND user_id IN ($2, $3) AND NOT pending
	`
	if err := r.db.QueryRowContext(ctx, query, circleID, a, b).Scan(&count); err != nil {
		return false, err
	}
	return count == 2, nil
}

// MemberIDs lists full members, used for notification fan-out.
func (r *Repository) MemberIDs(ctx context.Context, circleID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM circle_members WHERE circle_id = $1 AND NOT pending", circleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddMember inserts a membership row; inserting an existing one is a no-op.
func (r *Repository) AddMember(ctx context.Context, circleID, userID int, pending bool) error {
	query := `
		INSERT INTO circle_members (circle_id, user_id, pending)
		VALUES ($1, $2, $3)
		ON CONFLICT (circle_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, circleID, userID, pending)
	return err
}

// ApprovePending turns a join request into full membership.
func (r *Repository) ApprovePending(ctx context.Context, circleID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE circle_members SET pending = FALSE WHERE circle_id = $1 AND user_id = $2 AND pending",
		circleID, userID)
	return err
}

func (r *Repository) RemovePending(ctx context.Context, circleID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM circle_members WHERE circle_id = $1 AND user_id = $2 AND pending",
		circleID, userID)
	return err
}

// RemoveMember drops the membership row regardless of role.
func (r *Repository) RemoveMember(ctx context.Context, circleID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM circle_members WHERE circle_id = $1 AND user_id = $2",
		circleID, userID)
	return err
}

func (r *Repository) Promote(ctx context.Context, circleID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE circle_members SET role = 'admin' WHERE circle_id = $1 AND user_id = $2 AND NOT pending",
		circleID, userID)
	return err
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
