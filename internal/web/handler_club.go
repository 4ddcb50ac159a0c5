package web

import (
	"net/http"

	"github.com/collegefest/festadmin/internal/domain"
	"github.com/collegefest/festadmin/internal/upload"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.service.Dashboard(r.Context())
	if err != nil {
		http.Error(w, "Error loading dashboard", http.StatusInternalServerError)
		s.logger.Error("load dashboard failed", "error", err)
		return
	}

	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{
			"Clubs":       dash.Clubs,
			"Events":      dash.Events,
			"EventCounts": dash.EventCounts,
			"CurrentPage": "dashboard",
		},
		"base.html", "pages/dashboard.html", "partials/event_row.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "dashboard", "error", err)
	}
}

func (s *Server) handleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := s.service.ListClubs(r.Context())
	if err != nil {
		http.Error(w, "Error loading clubs", http.StatusInternalServerError)
		s.logger.Error("list clubs failed", "error", err)
		return
	}

	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Clubs": clubs, "CurrentPage": "clubs"},
		"base.html", "pages/clubs.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "clubs", "error", err)
	}
}

func (s *Server) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	if err := upload.ParseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	logo, err := upload.File(r, "logo")
	if err != nil {
		http.Error(w, "Error creating club", http.StatusInternalServerError)
		s.logger.Error("read logo upload failed", "error", err)
		return
	}

	in := domain.ClubInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Logo:        logo,
	}
	if _, err := s.service.CreateClub(r.Context(), in); err != nil {
		http.Error(w, "Error creating club", http.StatusInternalServerError)
		s.logger.Error("create club failed", "error", err)
		return
	}
	http.Redirect(w, r, "/admin/clubs", http.StatusFound)
}

func (s *Server) handleDeleteClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseID(r)
	if err != nil {
		http.Error(w, "Error deleting club", http.StatusInternalServerError)
		s.logger.Error("delete club failed", "error", err)
		return
	}

	if err := s.service.DeleteClub(r.Context(), clubID); err != nil {
		http.Error(w, "Error deleting club", http.StatusInternalServerError)
		s.logger.Error("delete club failed", "club_id", clubID, "error", err)
		return
	}
	http.Redirect(w, r, "/admin/clubs", http.StatusFound)
}
