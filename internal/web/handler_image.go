package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/collegefest/festadmin/internal/domain"
)

func (s *Server) handleClubLogo(w http.ResponseWriter, r *http.Request) {
	s.serveAttachment(w, r, s.service.ClubLogo)
}

func (s *Server) handleEventPoster(w http.ResponseWriter, r *http.Request) {
	s.serveAttachment(w, r, s.service.EventPoster)
}

// serveAttachment writes the stored bytes with their content type. Every
// failure, including a malformed id, answers 404.
func (s *Server) serveAttachment(w http.ResponseWriter, r *http.Request, get func(context.Context, string) (domain.Attachment, error)) {
	id := r.PathValue("id")
	att, err := get(r.Context(), id)
	if err != nil {
		s.logger.Debug("image not served", "path", r.URL.Path, "error", err)
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(att.Data)))
	w.Header().Set("Cache-Control", "private, no-cache")
	if _, err := w.Write(att.Data); err != nil {
		s.logger.Error("write image failed", "path", r.URL.Path, "error", err)
	}
}
