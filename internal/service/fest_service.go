package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/collegefest/festadmin/internal/domain"
)

// clubRepository is the subset of store.ClubStore that FestService requires.
type clubRepository interface {
	Create(ctx context.Context, in domain.ClubInput) (*domain.Club, error)
	GetByID(ctx context.Context, id string) (*domain.Club, error)
	List(ctx context.Context) ([]*domain.Club, error)
	GetLogo(ctx context.Context, id string) (domain.Attachment, error)
	DeleteWithEvents(ctx context.Context, id string) (int64, error)
}

// eventRepository is the subset of store.EventStore that FestService requires.
type eventRepository interface {
	Create(ctx context.Context, in domain.EventInput) (*domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	GetPoster(ctx context.Context, id string) (domain.Attachment, error)
	Update(ctx context.Context, id string, u domain.EventUpdate) error
	Delete(ctx context.Context, id string) error
}

type FestService struct {
	clubStore  clubRepository
	eventStore eventRepository
	logger     *slog.Logger
}

func NewFestService(clubStore clubRepository, eventStore eventRepository, logger *slog.Logger) *FestService {
	return &FestService{
		clubStore:  clubStore,
		eventStore: eventStore,
		logger:     logger,
	}
}

func (s *FestService) CreateClub(ctx context.Context, in domain.ClubInput) (*domain.Club, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	club, err := s.clubStore.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("club created", "club_id", club.ID, "has_logo", club.Logo.Present)
	return club, nil
}

func (s *FestService) ListClubs(ctx context.Context) ([]*domain.Club, error) {
	return s.clubStore.List(ctx)
}

// DeleteClub removes the club and all events that reference it.
func (s *FestService) DeleteClub(ctx context.Context, clubID string) error {
	removed, err := s.clubStore.DeleteWithEvents(ctx, clubID)
	if err != nil {
		return err
	}
	s.logger.Info("club deleted", "club_id", clubID, "events_removed", removed)
	return nil
}

// ClubLogo returns the club's logo. It returns domain.ErrNotFound when the
// club is missing or has no logo bytes.
func (s *FestService) ClubLogo(ctx context.Context, clubID string) (domain.Attachment, error) {
	logo, err := s.clubStore.GetLogo(ctx, clubID)
	if err != nil {
		return domain.Attachment{}, err
	}
	if !logo.HasData() {
		return domain.Attachment{}, domain.ErrNotFound
	}
	return logo, nil
}

func (s *FestService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireClub(ctx, in.ClubID); err != nil {
		return nil, err
	}

	event, err := s.eventStore.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("event created", "event_id", event.ID, "club_id", event.ClubID, "has_poster", event.Poster.Present)
	return event, nil
}

func (s *FestService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.eventStore.List(ctx)
}

// GetEvent returns the event with its club populated, or domain.ErrNotFound.
func (s *FestService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

// UpdateEvent applies u to the event and returns the updated record.
func (s *FestService) UpdateEvent(ctx context.Context, eventID string, u domain.EventUpdate) (*domain.Event, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.ClubID != nil {
		if err := s.requireClub(ctx, *u.ClubID); err != nil {
			return nil, err
		}
	}

	if err := s.eventStore.Update(ctx, eventID, u); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	s.logger.Info("event updated", "event_id", eventID, "poster_replaced", u.Poster != nil)
	return s.GetEvent(ctx, eventID)
}

// DeleteEvent removes the event. Deleting an event that does not exist is
// not an error.
func (s *FestService) DeleteEvent(ctx context.Context, eventID string) error {
	err := s.eventStore.Delete(ctx, eventID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("delete of missing event", "event_id", eventID)
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("event deleted", "event_id", eventID)
	return nil
}

// EventPoster returns the event's poster. It returns domain.ErrNotFound
// when the event is missing or has no poster bytes.
func (s *FestService) EventPoster(ctx context.Context, eventID string) (domain.Attachment, error) {
	poster, err := s.eventStore.GetPoster(ctx, eventID)
	if err != nil {
		return domain.Attachment{}, err
	}
	if !poster.HasData() {
		return domain.Attachment{}, domain.ErrNotFound
	}
	return poster, nil
}

// Dashboard bundles every club and event for the summary page.
type Dashboard struct {
	Clubs  []*domain.Club
	Events []*domain.Event
	// EventCounts maps club id to the number of events it owns.
	EventCounts map[string]int
}

func (s *FestService) Dashboard(ctx context.Context) (*Dashboard, error) {
	clubs, err := s.clubStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	events, err := s.eventStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	counts := make(map[string]int, len(clubs))
	for _, e := range events {
		counts[e.ClubID]++
	}
	return &Dashboard{Clubs: clubs, Events: events, EventCounts: counts}, nil
}

func (s *FestService) requireClub(ctx context.Context, clubID string) error {
	club, err := s.clubStore.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("failed to get club: %w", err)
	}
	if club == nil {
		return fmt.Errorf("%w: club %s does not exist", domain.ErrInvalidInput, clubID)
	}
	return nil
}
