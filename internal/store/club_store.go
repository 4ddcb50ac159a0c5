package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/collegefest/festadmin/internal/domain"
	"github.com/google/uuid"
)

type ClubStore struct {
	db *sql.DB
}

func NewClubStore(db *sql.DB) *ClubStore {
	return &ClubStore{db: db}
}

func (s *ClubStore) Create(ctx context.Context, in domain.ClubInput) (*domain.Club, error) {
	id := uuid.NewString()
	data, contentType, filename := attachmentArgs(in.Logo)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clubs (id, name, description, logo_data, logo_content_type, logo_filename)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, in.Name, in.Description, data, contentType, filename)
	if isUniqueViolation(err, "clubs.name") {
		return nil, fmt.Errorf("failed to create club %q: %w", in.Name, domain.ErrDuplicateClubName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the club with its logo bytes, or nil if it does not exist.
func (s *ClubStore) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	club := &domain.Club{}
	var logo attachmentColumns
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, logo_data, logo_content_type, logo_filename, created_at
		FROM clubs WHERE id = ?
	`, id).Scan(&club.ID, &club.Name, &club.Description,
		&logo.data, &logo.contentType, &logo.filename, &club.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	club.Logo = logo.attachment()
	return club, nil
}

// List returns every club ordered by name. Logos carry metadata only.
func (s *ClubStore) List(ctx context.Context) ([]*domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, logo_content_type, logo_filename, created_at
		FROM clubs ORDER BY name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*domain.Club
	for rows.Next() {
		club := &domain.Club{}
		var logo attachmentColumns
		if err := rows.Scan(&club.ID, &club.Name, &club.Description,
			&logo.contentType, &logo.filename, &club.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		club.Logo = logo.attachment()
		clubs = append(clubs, club)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clubs: %w", err)
	}

	return clubs, nil
}

// GetLogo returns the stored logo. It returns domain.ErrNotFound when the
// club does not exist.
func (s *ClubStore) GetLogo(ctx context.Context, id string) (domain.Attachment, error) {
	var logo attachmentColumns
	err := s.db.QueryRowContext(ctx, `
		SELECT logo_data, logo_content_type, logo_filename FROM clubs WHERE id = ?
	`, id).Scan(&logo.data, &logo.contentType, &logo.filename)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attachment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to get club logo: %w", err)
	}
	return logo.attachment(), nil
}

// DeleteWithEvents removes the club and every event referencing it in one
// transaction and returns the number of events removed. Events are removed
// even when the club row is already gone.
func (s *ClubStore) DeleteWithEvents(ctx context.Context, id string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clubs WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("failed to delete club: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE club_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete club events: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit club delete: %w", err)
	}
	return removed, nil
}
