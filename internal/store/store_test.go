package store

import (
	"database/sql"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/collegefest/festadmin/internal/db"
	"github.com/collegefest/festadmin/internal/domain"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// faker is seeded so failures reproduce.
var faker = gofakeit.New(1)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02}

func clubInput(name string) domain.ClubInput {
	return domain.ClubInput{Name: name, Description: faker.Sentence(8)}
}

func eventInput(clubID string) domain.EventInput {
	return domain.EventInput{
		ClubID:           clubID,
		Name:             faker.RandomString([]string{"Hackathon", "Battle of Bands", "Treasure Hunt", "Open Mic"}),
		Description:      faker.Sentence(10),
		Venue:            "Main Auditorium",
		Date:             "2026-11-14",
		Time:             "18:30",
		Type:             "cultural",
		RegistrationLink: "https://example.com/register",
	}
}
