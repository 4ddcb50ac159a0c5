package web_test

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegefest/festadmin/internal/auth"
	"github.com/collegefest/festadmin/internal/db"
	"github.com/collegefest/festadmin/internal/domain"
	"github.com/collegefest/festadmin/internal/service"
	"github.com/collegefest/festadmin/internal/session"
	"github.com/collegefest/festadmin/internal/store"
	"github.com/collegefest/festadmin/internal/web"
	"github.com/collegefest/festadmin/internal/web/templates"
)

const (
	adminUser = "admin"
	adminPass = "admin123"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
	csrfField = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)
)

// testEnv is a real web.Server backed by in-memory SQLite and sessions,
// plus a browser-like client that keeps cookies and does not follow
// redirects.
type testEnv struct {
	srv    *httptest.Server
	svc    *service.FestService
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)

	svc := service.NewFestService(store.NewClubStore(database), store.NewEventStore(database), slog.Default())
	authn, err := auth.NewAuthenticator(adminUser, adminPass, slog.Default())
	require.NoError(t, err)

	server := web.NewServer(svc, authn, session.NewMemoryStore(time.Hour), templates.FS, web.Options{
		SessionSecret: "test-secret",
		Registry:      prometheus.NewRegistry(),
	}, slog.Default())
	srv := httptest.NewServer(server)

	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return &testEnv{srv: srv, svc: svc, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// do sends req and returns the response with its body already read.
func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	return e.do(t, req)
}

// token returns a CSRF token for the client's current cookie state, taken
// from whichever form page it is allowed to see.
func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	resp, body := e.get(t, "/admin/login")
	if resp.StatusCode == http.StatusFound {
		resp, body = e.get(t, "/admin/clubs")
	}
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := csrfField.FindStringSubmatch(body)
	require.NotNil(t, m, "no csrf field in page:\n%s", body)
	return html.UnescapeString(m[1])
}

func (e *testEnv) postForm(t *testing.T, path string, vals url.Values) (*http.Response, string) {
	t.Helper()
	if vals == nil {
		vals = url.Values{}
	}
	if vals.Get("gorilla.csrf.Token") == "" {
		vals.Set("gorilla.csrf.Token", e.token(t))
	}
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(vals.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

type testFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func (e *testEnv) postMultipart(t *testing.T, path string, fields map[string]string, file *testFile) (*http.Response, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("gorilla.csrf.Token", e.token(t)))
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, body := e.postForm(t, "/admin/login", url.Values{"username": {adminUser}, "password": {adminPass}})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func (e *testEnv) createClub(t *testing.T, name string) *domain.Club {
	t.Helper()
	club, err := e.svc.CreateClub(context.Background(), domain.ClubInput{Name: name, Description: name + " club"})
	require.NoError(t, err)
	return club
}

func eventFields(clubID, name string) map[string]string {
	return map[string]string{
		"name":              name,
		"description":       "An evening of " + name,
		"club":              clubID,
		"venue":             "Main Auditorium",
		"date":              "2026-11-14",
		"time":              "18:30",
		"type":              "Competition",
		"registration_link": "https://fest.example.edu/register",
	}
}

func (e *testEnv) onlyEvent(t *testing.T) *domain.Event {
	t.Helper()
	events, err := e.svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	return events[0]
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func TestIntegration_RootRedirectsToAdmin(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)

	resp, _ := e.get(t, "/")
	assertRedirect(t, resp, "/admin")
}

func TestIntegration_ProtectedRoutesRedirectToLogin(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	club := e.createClub(t, "Drama")
	event, err := e.svc.CreateEvent(context.Background(), domain.EventInput{
		ClubID: club.ID, Name: "Play", Description: "d", Venue: "v",
		Date: "2026-11-14", Time: "18:30", Type: "t", RegistrationLink: "https://x.example",
	})
	require.NoError(t, err)

	for _, path := range []string{"/admin", "/admin/clubs", "/admin/events", "/admin/events/" + event.ID + "/edit"} {
		t.Run("GET "+path, func(t *testing.T) {
			resp, _ := e.get(t, path)
			assertRedirect(t, resp, "/admin/login")
		})
	}

	posts := []struct {
		path string
		vals url.Values
	}{
		{"/admin/clubs", url.Values{"name": {"Robotics Club"}, "description": {"Builds robots"}}},
		{"/admin/clubs/" + club.ID + "/delete", nil},
		{"/admin/events", url.Values{"name": {"Hack"}, "club": {club.ID}}},
		{"/admin/events/" + event.ID + "/edit", url.Values{"name": {"Renamed"}}},
		{"/admin/events/" + event.ID + "/delete", nil},
	}
	for _, p := range posts {
		t.Run("POST "+p.path, func(t *testing.T) {
			resp, _ := e.postForm(t, p.path, p.vals)
			assertRedirect(t, resp, "/admin/login")
		})
	}

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Drama", clubs[0].Name)
	assert.Equal(t, "Play", e.onlyEvent(t).Name)
}

func TestIntegration_LoginWrongCredentials(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)

	for _, creds := range []url.Values{
		{"username": {adminUser}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {adminPass}},
		{},
	} {
		resp, body := e.postForm(t, "/admin/login", creds)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Invalid credentials")
	}

	resp, _ := e.get(t, "/admin")
	assertRedirect(t, resp, "/admin/login")
}

func TestIntegration_LoginGrantsAccess(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, body := e.get(t, "/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Dashboard")

	// The login page sends an authenticated browser straight to the dashboard.
	resp, _ = e.get(t, "/admin/login")
	assertRedirect(t, resp, "/admin")
}

func TestIntegration_AdminTrailingSlash(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)

	resp, _ := e.get(t, "/admin/")
	assertRedirect(t, resp, "/admin")

	e.login(t)
	resp, _ = e.get(t, "/admin/")
	assertRedirect(t, resp, "/admin")
}

func TestIntegration_SessionCookieAttributes(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	token := e.token(t)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/admin/login", strings.NewReader(url.Values{
		"username": {adminUser}, "password": {adminPass}, "gorilla.csrf.Token": {token},
	}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := e.do(t, req)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var sess *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "fest_session" {
			sess = c
		}
	}
	require.NotNil(t, sess)
	assert.True(t, sess.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sess.SameSite)
	assert.Equal(t, "/", sess.Path)
	assert.Len(t, sess.Value, 64)
}

func TestIntegration_Logout(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	srvURL, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	stolen := e.client.Jar.Cookies(srvURL)

	resp, _ := e.get(t, "/admin/logout")
	assertRedirect(t, resp, "/admin/login")

	resp, _ = e.get(t, "/admin")
	assertRedirect(t, resp, "/admin/login")

	// Replaying the old cookie must not revive the session.
	replay := newClient(t)
	replay.Jar.SetCookies(srvURL, stolen)
	e.client = replay
	resp, _ = e.get(t, "/admin")
	assertRedirect(t, resp, "/admin/login")
}

func TestIntegration_RoboticsClubScenario(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, body := e.postMultipart(t, "/admin/clubs", map[string]string{
		"name":        "Robotics Club",
		"description": "Builds robots",
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	assert.Equal(t, "/admin/clubs", resp.Header.Get("Location"))

	resp, body = e.get(t, "/admin/clubs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Robotics Club")

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.False(t, clubs[0].Logo.Present)

	resp, body = e.get(t, "/admin/image/club/"+clubs[0].ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Image not found")
}

func TestIntegration_CreateClubURLEncoded(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, _ := e.postForm(t, "/admin/clubs", url.Values{"name": {"Music"}, "description": {"Bands"}})
	assertRedirect(t, resp, "/admin/clubs")

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Music", clubs[0].Name)
}

func TestIntegration_DuplicateClubName(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	fields := map[string]string{"name": "Chess", "description": "Plays chess"}

	resp, _ := e.postMultipart(t, "/admin/clubs", fields, nil)
	assertRedirect(t, resp, "/admin/clubs")

	resp, body := e.postMultipart(t, "/admin/clubs", fields, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Error creating club")

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	assert.Len(t, clubs, 1)
}

func TestIntegration_ClubLogoServed(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, body := e.postMultipart(t, "/admin/clubs",
		map[string]string{"name": "Photography", "description": "Takes photos"},
		&testFile{field: "logo", filename: "logo.png", contentType: "image/png", data: pngBytes})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)

	resp, body = e.get(t, "/admin/image/club/"+clubs[0].ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, pngBytes, []byte(body))

	_, body = e.get(t, "/admin/clubs")
	assert.Contains(t, body, "/admin/image/club/"+clubs[0].ID)
}

func TestIntegration_ZeroByteUploadsAreIgnored(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	empty := func(field string) *testFile {
		return &testFile{field: field, filename: "empty.png", contentType: "image/png", data: []byte{}}
	}

	resp, body := e.postMultipart(t, "/admin/clubs",
		map[string]string{"name": "Origami", "description": "Folds paper"}, empty("logo"))
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.False(t, clubs[0].Logo.Present)
	_, body = e.get(t, "/admin/clubs")
	assert.NotContains(t, body, "/admin/image/club/"+clubs[0].ID)

	resp, body = e.postMultipart(t, "/admin/events", eventFields(clubs[0].ID, "Cranes"),
		&testFile{field: "poster", filename: "poster.png", contentType: "image/png", data: pngBytes})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	resp, body = e.postMultipart(t, "/admin/events/"+event.ID+"/edit", eventFields(clubs[0].ID, "Paper Cranes"), empty("poster"))
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	assert.Equal(t, "Paper Cranes", e.onlyEvent(t).Name)
	resp, body = e.get(t, "/admin/image/event/"+event.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pngBytes, []byte(body))
}

func TestIntegration_DeleteClubCascadesEvents(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	doomed := e.createClub(t, "Dance")
	kept := e.createClub(t, "Debate")

	for _, c := range []struct{ club, name string }{{doomed.ID, "Salsa"}, {doomed.ID, "Hip Hop"}, {kept.ID, "Finals"}} {
		resp, body := e.postMultipart(t, "/admin/events", eventFields(c.club, c.name), nil)
		require.Equal(t, http.StatusFound, resp.StatusCode, body)
	}

	resp, _ := e.postForm(t, "/admin/clubs/"+doomed.ID+"/delete", nil)
	assertRedirect(t, resp, "/admin/clubs")

	events, err := e.svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Finals", events[0].Name)
	for _, ev := range events {
		assert.NotEqual(t, doomed.ID, ev.ClubID)
	}

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Debate", clubs[0].Name)
}

func TestIntegration_DeleteClubMalformedID(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, body := e.postForm(t, "/admin/clubs/not-an-id/delete", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Error deleting club")
}

func TestIntegration_ListEventsShowsClubOptions(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Astronomy")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Star Gazing"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	assert.Equal(t, "/admin/events", resp.Header.Get("Location"))

	resp, body = e.get(t, "/admin/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Star Gazing")
	assert.Contains(t, body, `<option value="`+club.ID+`"`)
	assert.Contains(t, body, "Astronomy")
}

func TestIntegration_CreateEventUnknownClub(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, body := e.postMultipart(t, "/admin/events", eventFields(uuid.NewString(), "Ghost"), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Error creating event")

	events, err := e.svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestIntegration_EditEventKeepsPosterWhenNoneUploaded(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Film")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Screening"),
		&testFile{field: "poster", filename: "poster.png", contentType: "image/png", data: pngBytes})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	resp, body = e.get(t, "/admin/events/"+event.ID+"/edit")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Screening"`)

	fields := eventFields(club.ID, "Late Screening")
	resp, body = e.postMultipart(t, "/admin/events/"+event.ID+"/edit", fields, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	assert.Equal(t, "/admin/events", resp.Header.Get("Location"))

	assert.Equal(t, "Late Screening", e.onlyEvent(t).Name)
	resp, body = e.get(t, "/admin/image/event/"+event.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, pngBytes, []byte(body))
}

func TestIntegration_EditEventWithoutPosterStaysWithout(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Quiz")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Trivia"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	resp, body = e.postMultipart(t, "/admin/events/"+event.ID+"/edit", eventFields(club.ID, "Trivia Night"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	assert.False(t, e.onlyEvent(t).Poster.Present)
	resp, _ = e.get(t, "/admin/image/event/"+event.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_EditEventReplacesPoster(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Art")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Gallery"),
		&testFile{field: "poster", filename: "old.png", contentType: "image/png", data: pngBytes})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	resp, body = e.postMultipart(t, "/admin/events/"+event.ID+"/edit", eventFields(club.ID, "Gallery"),
		&testFile{field: "poster", filename: "new.gif", contentType: "image/gif", data: gifBytes})
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	resp, body = e.get(t, "/admin/image/event/"+event.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))
	assert.Equal(t, gifBytes, []byte(body))
}

func TestIntegration_EditEventFailureRerendersForm(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Coding")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Hackathon"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"blank name", map[string]string{"name": "  "}},
		{"unknown club", map[string]string{"club": uuid.NewString()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := e.postMultipart(t, "/admin/events/"+event.ID+"/edit", tt.fields, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "Error updating event")
			assert.Contains(t, body, `value="Hackathon"`)
		})
	}

	stored := e.onlyEvent(t)
	assert.Equal(t, "Hackathon", stored.Name)
	assert.Equal(t, club.ID, stored.ClubID)
}

func TestIntegration_EditMissingEvent(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, _ := e.get(t, "/admin/events/"+uuid.NewString()+"/edit")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.get(t, "/admin/events/garbage/edit")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.postMultipart(t, "/admin/events/"+uuid.NewString()+"/edit", map[string]string{"name": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_DeleteEvent(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Sports")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Relay"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)
	event := e.onlyEvent(t)

	resp, _ = e.postForm(t, "/admin/events/"+event.ID+"/delete", nil)
	assertRedirect(t, resp, "/admin/events")

	events, err := e.svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)

	// Deleting again is not an error.
	resp, _ = e.postForm(t, "/admin/events/"+event.ID+"/delete", nil)
	assertRedirect(t, resp, "/admin/events")

	resp, body = e.postForm(t, "/admin/events/bogus/delete", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Error deleting event")
}

func TestIntegration_ImageNotFoundIsUniform(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	club := e.createClub(t, "Literature")
	event, err := e.svc.CreateEvent(context.Background(), domain.EventInput{
		ClubID: club.ID, Name: "Reading", Description: "d", Venue: "Library",
		Date: "2026-11-15", Time: "10:00", Type: "Talk", RegistrationLink: "https://x.example",
	})
	require.NoError(t, err)

	paths := []string{
		"/admin/image/club/" + uuid.NewString(),
		"/admin/image/club/" + club.ID,
		"/admin/image/club/%27%3B--",
		"/admin/image/event/" + uuid.NewString(),
		"/admin/image/event/" + event.ID,
		"/admin/image/event/42",
	}
	var bodies []string
	for _, p := range paths {
		resp, body := e.get(t, p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
		bodies = append(bodies, body)
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
}

func TestIntegration_CSRFRequiredOnMutations(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)

	resp, _ := e.postForm(t, "/admin/clubs", url.Values{
		"name": {"Sneaky"}, "description": {"x"}, "gorilla.csrf.Token": {"forged"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	clubs, err := e.svc.ListClubs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clubs)
}

func TestIntegration_DashboardSummarisesClubsAndEvents(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)
	e.login(t)
	club := e.createClub(t, "Robotics Club")

	resp, body := e.postMultipart(t, "/admin/events", eventFields(club.ID, "Robo Wars"), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode, body)

	resp, body = e.get(t, "/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Robotics Club")
	assert.Contains(t, body, "Robo Wars")
	assert.Contains(t, body, "Sat, Nov 14 2026")
}

func TestIntegration_StaticAndHeaders(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)

	resp, body := e.get(t, "/static/script.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Are you sure you want to delete this item?")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

func TestIntegration_Metrics(t *testing.T) {
	skipShort(t)
	e := newTestEnv(t)

	resp, _ := e.get(t, "/admin/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `festadmin_http_requests_total{code="200",route="GET /admin/login"}`)
}
