package domain

import "time"

// Attachment is a binary file stored inline on its owning record. Present
// distinguishes "no file" from an empty one; when Present is false the other
// fields are zero.
type Attachment struct {
	Present     bool
	Data        []byte
	ContentType string
	Filename    string
}

func NewAttachment(data []byte, contentType, filename string) Attachment {
	return Attachment{
		Present:     true,
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
	}
}

// HasData reports whether the attachment is set and its bytes are loaded.
// List queries return attachment metadata without Data.
func (a Attachment) HasData() bool {
	return a.Present && len(a.Data) > 0
}

type Club struct {
	ID          string
	Name        string
	Description string
	Logo        Attachment
	CreatedAt   time.Time
}

type Event struct {
	ID               string
	ClubID           string
	Name             string
	Description      string
	Venue            string
	Date             string
	Time             string
	Type             string
	RegistrationLink string
	Poster           Attachment
	CreatedAt        time.Time

	// Club is the populated owner. It is nil when the event was loaded
	// without its club or the club no longer exists.
	Club *Club
}
