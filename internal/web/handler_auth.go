package web

import (
	"net/http"
	"time"

	"github.com/collegefest/festadmin/internal/session"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if isAdmin(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	s.renderLogin(w, r, "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := s.auth.Check(username, password); err != nil {
		s.renderLogin(w, r, "Invalid credentials")
		return
	}

	// A fresh token on every login; any token the browser already held is
	// discarded.
	if rs, ok := sessionFromContext(r.Context()); ok {
		if err := s.sessions.Delete(r.Context(), rs.token); err != nil {
			s.logger.Error("delete previous session failed", "error", err)
		}
	}

	token, err := s.sessions.Create(r.Context(), session.Session{Admin: true, CreatedAt: time.Now().UTC()})
	if err != nil {
		http.Error(w, "Error logging in", http.StatusInternalServerError)
		s.logger.Error("create session failed", "error", err)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if rs, ok := sessionFromContext(r.Context()); ok {
		if err := s.sessions.Delete(r.Context(), rs.token); err != nil {
			s.logger.Error("delete session failed", "error", err)
		}
		s.logger.Info("auth_event", "event", "logout")
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Error": errMsg, "CurrentPage": "login"},
		"base.html", "pages/login.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "login", "error", err)
	}
}
