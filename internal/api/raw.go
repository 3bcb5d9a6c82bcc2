package api

import (
	"net/http"
	"strings"

	"curator/internal/record"
)

type rawSubmitRequest struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Source   string `json:"source"`
	Content  string `json:"content"`
}

func (s *Server) handleRawSubmit(w http.ResponseWriter, r *http.Request) {
	var req rawSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if err := record.ValidateFilename(filename); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = s.vocab.DefaultLanguage()
	}
	if err := s.vocab.ValidateLanguage(language); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	if err := s.vocab.ValidateSourceType(req.Source); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	if err := record.ValidateRawContent(req.Content); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}

	rec := record.NewRecord(filename, language, req.Source, req.Content, "collector")
	if err := s.store.Submit(record.StageRaw, filename, req.Content, rec); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Raw data submitted successfully. Awaiting admin approval.",
		"submission_id": rec.ID,
		"filename":      filename,
	})
}
