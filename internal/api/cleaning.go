package api

import (
	"net/http"
	"strings"

	"curator/internal/record"
)

const previewRunes = 200

// cleaningStatus reports how far a raw file has moved through cleaning.
func (s *Server) cleaningStatus(filename string) string {
	if s.store.Exists(record.StatusApproved, record.StageCleaned, filename) {
		return "approved"
	}
	if s.store.Exists(record.StatusPending, record.StageCleaned, filename) {
		return "pending"
	}
	return "not_started"
}

func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}

func (s *Server) handleCleaningRawFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.ListFilenames(record.StageRaw, record.StatusApproved)
	if err != nil {
		s.writeError(w, err)
		return
	}

	files := make([]map[string]any, 0, len(names))
	for _, name := range names {
		content, metaBytes, err := s.store.ReadApproved(record.StageRaw, name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		meta := decodeMeta(metaBytes)
		files = append(files, map[string]any{
			"filename":        name,
			"language":        metaField(meta, "language", s.vocab.DefaultLanguage()),
			"source":          metaField(meta, "source", "unknown"),
			"content":         string(content),
			"content_length":  len([]rune(string(content))),
			"content_preview": contentPreview(string(content)),
			"cleaning_status": s.cleaningStatus(name),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"files":   files,
		"count":   len(files),
	})
}

type cleaningSubmitRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// handleCleaningSubmit accepts a cleaned rendition of an approved raw file.
// The filename must match the raw file so lineage stays intact; language
// and source are inherited from the raw metadata.
func (s *Server) handleCleaningSubmit(w http.ResponseWriter, r *http.Request) {
	var req cleaningSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if err := record.ValidateFilename(filename); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	if err := record.ValidateRawContent(req.Content); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}

	_, metaBytes, err := s.store.ReadApproved(record.StageRaw, filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rawMeta := decodeMeta(metaBytes)

	rec := record.NewRecord(
		filename,
		metaField(rawMeta, "language", s.vocab.DefaultLanguage()),
		metaField(rawMeta, "source", "unknown"),
		req.Content,
		"cleaner",
	)
	rec.OriginalRawID = metaField(rawMeta, "id", "")

	if err := s.store.Submit(record.StageCleaned, filename, req.Content, rec); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Cleaned data submitted. Awaiting admin approval.",
		"submission_id": rec.ID,
		"filename":      filename,
	})
}
