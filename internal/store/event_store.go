package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/collegefest/festadmin/internal/domain"
	"github.com/google/uuid"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `
	e.id, e.club_id, e.name, e.description, e.venue, e.date, e.time, e.type,
	e.registration_link, e.created_at, c.id, c.name, c.description`

// eventRow scans one events row joined with its club.
type eventRow struct {
	event    domain.Event
	poster   attachmentColumns
	clubID   sql.NullString
	clubName sql.NullString
	clubDesc sql.NullString
}

func (r *eventRow) dest(withPosterData bool) []any {
	e := &r.event
	dest := []any{&e.ID, &e.ClubID, &e.Name, &e.Description, &e.Venue, &e.Date,
		&e.Time, &e.Type, &e.RegistrationLink, &e.CreatedAt,
		&r.clubID, &r.clubName, &r.clubDesc}
	if withPosterData {
		dest = append(dest, &r.poster.data)
	}
	return append(dest, &r.poster.contentType, &r.poster.filename)
}

func (r *eventRow) result() *domain.Event {
	e := r.event
	e.Poster = r.poster.attachment()
	if r.clubID.Valid {
		e.Club = &domain.Club{
			ID:          r.clubID.String,
			Name:        r.clubName.String,
			Description: r.clubDesc.String,
		}
	}
	return &e
}

func (s *EventStore) Create(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	id := uuid.NewString()
	data, contentType, filename := attachmentArgs(in.Poster)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, club_id, name, description, venue, date, time, type,
			registration_link, poster_data, poster_content_type, poster_filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, in.ClubID, in.Name, in.Description, in.Venue, in.Date, in.Time, in.Type,
		in.RegistrationLink, data, contentType, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the event with its club populated and poster bytes loaded,
// or nil if it does not exist.
func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var row eventRow
	err := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`, e.poster_data, e.poster_content_type, e.poster_filename
		FROM events e LEFT JOIN clubs c ON c.id = e.club_id
		WHERE e.id = ?
	`, id).Scan(row.dest(true)...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return row.result(), nil
}

// List returns every event with its club populated, ordered by date and
// time. Posters carry metadata only.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	return s.list(ctx, `
		SELECT `+eventColumns+`, e.poster_content_type, e.poster_filename
		FROM events e LEFT JOIN clubs c ON c.id = e.club_id
		ORDER BY e.date ASC, e.time ASC, e.rowid ASC
	`)
}

func (s *EventStore) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.dest(false)...); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, row.result())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetPoster returns the stored poster. It returns domain.ErrNotFound when
// the event does not exist.
func (s *EventStore) GetPoster(ctx context.Context, id string) (domain.Attachment, error) {
	var poster attachmentColumns
	err := s.db.QueryRowContext(ctx, `
		SELECT poster_data, poster_content_type, poster_filename FROM events WHERE id = ?
	`, id).Scan(&poster.data, &poster.contentType, &poster.filename)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attachment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to get event poster: %w", err)
	}
	return poster.attachment(), nil
}

// Update applies the non-nil fields of u. It returns domain.ErrNotFound when
// no event has the given id.
func (s *EventStore) Update(ctx context.Context, id string, u domain.EventUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	set("club_id", u.ClubID)
	set("name", u.Name)
	set("description", u.Description)
	set("venue", u.Venue)
	set("date", u.Date)
	set("time", u.Time)
	set("type", u.Type)
	set("registration_link", u.RegistrationLink)
	if u.Poster != nil {
		data, contentType, filename := attachmentArgs(*u.Poster)
		sets = append(sets, "poster_data = ?", "poster_content_type = ?", "poster_filename = ?")
		args = append(args, data, contentType, filename)
	}

	if len(sets) == 0 {
		existing, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
