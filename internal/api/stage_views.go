package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"curator/internal/record"
)

// stageListHandler serves the pending or approved metadata listing shared
// by the raw and cleaning tabs.
func (s *Server) stageListHandler(stage record.Stage, status record.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := s.store.List(stage, status)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if files == nil {
			files = []map[string]any{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"files":   files,
			"count":   len(files),
		})
	}
}

// stageFileHandler serves a single record's content, checking pending
// before approved.
func (s *Server) stageFileHandler(stage record.Stage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		file, err := s.store.Get(stage, filename)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"filename": file.Filename,
			"content":  file.Content,
			"metadata": file.Meta,
			"location": file.Location,
		})
	}
}
