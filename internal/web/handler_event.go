package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/collegefest/festadmin/internal/domain"
	"github.com/collegefest/festadmin/internal/upload"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, "Error loading events", http.StatusInternalServerError)
		s.logger.Error("list events failed", "error", err)
		return
	}
	clubs, err := s.service.ListClubs(r.Context())
	if err != nil {
		http.Error(w, "Error loading events", http.StatusInternalServerError)
		s.logger.Error("list clubs failed", "error", err)
		return
	}

	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Events": events, "Clubs": clubs, "CurrentPage": "events"},
		"base.html", "pages/events.html", "partials/event_row.html", "partials/event_fields.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "events", "error", err)
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := upload.ParseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	poster, err := upload.File(r, "poster")
	if err != nil {
		http.Error(w, "Error creating event", http.StatusInternalServerError)
		s.logger.Error("read poster upload failed", "error", err)
		return
	}

	in := domain.EventInput{
		ClubID:           strings.TrimSpace(r.FormValue("club")),
		Name:             strings.TrimSpace(r.FormValue("name")),
		Description:      strings.TrimSpace(r.FormValue("description")),
		Venue:            strings.TrimSpace(r.FormValue("venue")),
		Date:             strings.TrimSpace(r.FormValue("date")),
		Time:             strings.TrimSpace(r.FormValue("time")),
		Type:             strings.TrimSpace(r.FormValue("type")),
		RegistrationLink: strings.TrimSpace(r.FormValue("registration_link")),
		Poster:           poster,
	}
	if _, err := s.service.CreateEvent(r.Context(), in); err != nil {
		http.Error(w, "Error creating event", http.StatusInternalServerError)
		s.logger.Error("create event failed", "error", err)
		return
	}
	http.Redirect(w, r, "/admin/events", http.StatusFound)
}

func (s *Server) handleEditEventPage(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	event, err := s.service.GetEvent(r.Context(), eventID)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error loading event for editing", http.StatusInternalServerError)
		s.logger.Error("get event failed", "event_id", eventID, "error", err)
		return
	}

	s.renderEditEvent(w, r, http.StatusOK, event, "")
}

// handleUpdateEvent re-renders the edit form with an inline message when the
// update fails, unlike create and delete which answer with a bare 500.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := upload.ParseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	u, err := eventUpdateFromForm(r)
	if err == nil {
		_, err = s.service.UpdateEvent(r.Context(), eventID, u)
	}
	if err == nil {
		http.Redirect(w, r, "/admin/events", http.StatusFound)
		return
	}
	s.logger.Error("update event failed", "event_id", eventID, "error", err)

	event, getErr := s.service.GetEvent(r.Context(), eventID)
	if errors.Is(getErr, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if getErr != nil {
		http.Error(w, "Error loading event for editing", http.StatusInternalServerError)
		s.logger.Error("get event failed", "event_id", eventID, "error", getErr)
		return
	}
	s.renderEditEvent(w, r, http.StatusOK, event, "Error updating event")
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r)
	if err != nil {
		http.Error(w, "Error deleting event", http.StatusInternalServerError)
		s.logger.Error("delete event failed", "error", err)
		return
	}

	if err := s.service.DeleteEvent(r.Context(), eventID); err != nil {
		http.Error(w, "Error deleting event", http.StatusInternalServerError)
		s.logger.Error("delete event failed", "event_id", eventID, "error", err)
		return
	}
	http.Redirect(w, r, "/admin/events", http.StatusFound)
}

func (s *Server) renderEditEvent(w http.ResponseWriter, r *http.Request, status int, event *domain.Event, errMsg string) {
	clubs, err := s.service.ListClubs(r.Context())
	if err != nil {
		http.Error(w, "Error loading event for editing", http.StatusInternalServerError)
		s.logger.Error("list clubs failed", "error", err)
		return
	}

	if err := s.renderPage(w, r, status,
		map[string]any{"Event": event, "Clubs": clubs, "Error": errMsg, "CurrentPage": "events"},
		"base.html", "pages/edit_event.html", "partials/event_fields.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "edit_event", "error", err)
	}
}

// eventFormFields maps form keys to the EventUpdate field they set.
var eventFormFields = []struct {
	key string
	set func(u *domain.EventUpdate, v *string)
}{
	{"club", func(u *domain.EventUpdate, v *string) { u.ClubID = v }},
	{"name", func(u *domain.EventUpdate, v *string) { u.Name = v }},
	{"description", func(u *domain.EventUpdate, v *string) { u.Description = v }},
	{"venue", func(u *domain.EventUpdate, v *string) { u.Venue = v }},
	{"date", func(u *domain.EventUpdate, v *string) { u.Date = v }},
	{"time", func(u *domain.EventUpdate, v *string) { u.Time = v }},
	{"type", func(u *domain.EventUpdate, v *string) { u.Type = v }},
	{"registration_link", func(u *domain.EventUpdate, v *string) { u.RegistrationLink = v }},
}

// eventUpdateFromForm builds an update from the fields present in the
// submitted form. Absent fields stay nil and are left unchanged; the poster
// is replaced only when a new file was uploaded.
func eventUpdateFromForm(r *http.Request) (domain.EventUpdate, error) {
	var u domain.EventUpdate
	for _, f := range eventFormFields {
		vals, ok := r.PostForm[f.key]
		if !ok || len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[0])
		f.set(&u, &v)
	}

	poster, err := upload.File(r, "poster")
	if err != nil {
		return domain.EventUpdate{}, err
	}
	if poster.Present {
		u.Poster = &poster
	}
	return u, nil
}

// parseID validates the {id} path variable as a UUID.
func parseID(r *http.Request) (string, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
