package domain

import (
	"fmt"
	"strings"
)

// ClubInput carries the fields of a club create submission.
type ClubInput struct {
	Name        string
	Description string
	Logo        Attachment
}

func (in ClubInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	return required("description", in.Description)
}

// EventInput carries the fields of an event create submission. Every text
// field is required; Poster is optional.
type EventInput struct {
	ClubID           string
	Name             string
	Description      string
	Venue            string
	Date             string
	Time             string
	Type             string
	RegistrationLink string
	Poster           Attachment
}

func (in EventInput) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"description", in.Description},
		{"club", in.ClubID},
		{"venue", in.Venue},
		{"date", in.Date},
		{"time", in.Time},
		{"type", in.Type},
		{"registration_link", in.RegistrationLink},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// EventUpdate is a partial event edit. A nil field is left unchanged. A
// non-nil Poster replaces the stored poster wholesale; there is no way to
// clear a poster through an update.
type EventUpdate struct {
	ClubID           *string
	Name             *string
	Description      *string
	Venue            *string
	Date             *string
	Time             *string
	Type             *string
	RegistrationLink *string
	Poster           *Attachment
}

// Validate rejects submitted-but-blank text fields and a poster without data.
func (u EventUpdate) Validate() error {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", u.Name},
		{"description", u.Description},
		{"club", u.ClubID},
		{"venue", u.Venue},
		{"date", u.Date},
		{"time", u.Time},
		{"type", u.Type},
		{"registration_link", u.RegistrationLink},
	} {
		if f.value == nil {
			continue
		}
		if err := required(f.name, *f.value); err != nil {
			return err
		}
	}
	if u.Poster != nil && !u.Poster.HasData() {
		return fmt.Errorf("%w: poster is empty", ErrInvalidInput)
	}
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (u EventUpdate) IsEmpty() bool {
	return u.ClubID == nil && u.Name == nil && u.Description == nil &&
		u.Venue == nil && u.Date == nil && u.Time == nil && u.Type == nil &&
		u.RegistrationLink == nil && u.Poster == nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}
