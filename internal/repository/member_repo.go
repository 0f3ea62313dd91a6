package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/models"
	"github.com/lib/pq"
)

const memberColumns = `id, name, role, photo_url, description, social_url, created_at`

// memberRepo is the concrete implementation of MemberRepository
type memberRepo struct {
	db *database.DB
}

// NewMemberRepo creates a new member repository
func NewMemberRepo(db *database.DB) MemberRepository {
	return &memberRepo{db: db}
}

func scanMember(s scanner) (*models.Member, error) {
	var m models.Member
	if err := s.Scan(&m.ID, &m.Name, &m.Role, &m.PhotoURL, &m.Description, &m.SocialURL, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all members, newest first
func (r *memberRepo) List(ctx context.Context) ([]*models.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Count returns the total number of members
func (r *memberRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&count)
	return count, err
}

// GetByID retrieves a member by ID
func (r *memberRepo) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Create inserts a new member and fills in its generated ID
func (r *memberRepo) Create(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (name, role, photo_url, description, social_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		m.Name, m.Role, m.PhotoURL, m.Description, m.SocialURL, m.CreatedAt,
	).Scan(&m.ID)
}

// Update overwrites the editable fields of a member
func (r *memberRepo) Update(ctx context.Context, m *models.Member) error {
	query := `
		UPDATE members SET name = $1, role = $2, photo_url = $3, description = $4, social_url = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query, m.Name, m.Role, m.PhotoURL, m.Description, m.SocialURL, m.ID)
	if err != nil {
		return err
	}
	return expectRow(result, "member", m.ID)
}

// Delete removes a member
func (r *memberRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM members WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(result, "member", id)
}

// BatchInsert inserts multiple members using PostgreSQL COPY
func (r *memberRepo) BatchInsert(ctx context.Context, members []*models.Member) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("members",
		"name", "role", "photo_url", "description", "social_url", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, m.Name, m.Role, m.PhotoURL, m.Description, m.SocialURL, m.CreatedAt); err != nil {
			return 0, err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(members), nil
}

// StreamAll streams all members in creation order for export
func (r *memberRepo) StreamAll(ctx context.Context, callback func(*models.Member) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return err
		}
		if err := callback(m); err != nil {
			return err
		}
	}
	return rows.Err()
}
