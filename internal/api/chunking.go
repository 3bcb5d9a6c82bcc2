package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"curator/internal/record"
)

func (s *Server) handleChunkingCleanedFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.ListFilenames(record.StageCleaned, record.StatusApproved)
	if err != nil {
		s.writeError(w, err)
		return
	}

	files := make([]map[string]any, 0, len(names))
	for _, name := range names {
		content, metaBytes, err := s.store.ReadApproved(record.StageCleaned, name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		pending, approved, err := s.store.ChunkCounts(name)
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
			"pending_chunks":  pending,
			"approved_chunks": approved,
			"total_chunks":    pending + approved,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"files":   files,
		"count":   len(files),
	})
}

func (s *Server) handleChunksFor(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	chunks, err := s.store.ChunksFor(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if chunks == nil {
		chunks = []record.Chunk{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": filename,
		"chunks":   chunks,
		"count":    len(chunks),
	})
}

type chunkSubmitRequest struct {
	Filename         string `json:"filename"`
	Text             string `json:"text"`
	Category         string `json:"category"`
	Source           string `json:"source"`
	OverlapReference string `json:"overlap_reference"`
}

type chunkBatchRequest struct {
	Filename string `json:"filename"`
	Chunks   []struct {
		Text             string `json:"text"`
		Category         string `json:"category"`
		Source           string `json:"source"`
		OverlapReference string `json:"overlap_reference"`
	} `json:"chunks"`
}

// buildChunk validates one chunk submission and assembles the stored form.
// The language is inherited from the cleaned file's metadata.
func (s *Server) buildChunk(filename, text, category, source, overlapReference, language string, index int) (record.Chunk, error) {
	if err := record.ValidateChunkText(text); err != nil {
		return record.Chunk{}, err
	}
	if err := s.vocab.ValidateCategory(category); err != nil {
		return record.Chunk{}, err
	}
	return record.NewChunk(filename, text, language, category, s.vocab.NormalizeSourceType(source), overlapReference, "chunker", index), nil
}

func (s *Server) cleanedLanguage(filename string) (string, error) {
	_, metaBytes, err := s.store.ReadApproved(record.StageCleaned, filename)
	if err != nil {
		return "", err
	}
	return metaField(decodeMeta(metaBytes), "language", s.vocab.DefaultLanguage()), nil
}

func (s *Server) handleChunkSubmit(w http.ResponseWriter, r *http.Request) {
	var req chunkSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if err := record.ValidateFilename(filename); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	language, err := s.cleanedLanguage(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	index, err := s.store.NextChunkIndex(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	chunk, err := s.buildChunk(filename, req.Text, req.Category, req.Source, req.OverlapReference, language, index)
	if err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	if err := s.store.SubmitChunk(chunk); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Chunk created. Awaiting admin approval.",
		"chunk_id":    chunk.ChunkID,
		"chunk_index": chunk.ChunkIndex,
		"filename":    filename,
	})
}

func (s *Server) handleChunkSubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req chunkBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if err := record.ValidateFilename(filename); err != nil {
		s.writeValidationError(w, "%s", err)
		return
	}
	if len(req.Chunks) == 0 {
		s.writeValidationError(w, "chunks must be a non-empty array")
		return
	}
	language, err := s.cleanedLanguage(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	index, err := s.store.NextChunkIndex(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	created := make([]map[string]any, 0, len(req.Chunks))
	for _, item := range req.Chunks {
		chunk, err := s.buildChunk(filename, item.Text, item.Category, item.Source, item.OverlapReference, language, index)
		if err != nil {
			s.writeValidationError(w, "chunk %d: %s", index, err)
			return
		}
		if err := s.store.SubmitChunk(chunk); err != nil {
			s.writeError(w, err)
			return
		}
		created = append(created, map[string]any{
			"chunk_id":    chunk.ChunkID,
			"chunk_index": chunk.ChunkIndex,
		})
		index++
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  strconv.Itoa(len(created)) + " chunks created. Awaiting admin approval.",
		"chunks":   created,
		"filename": filename,
	})
}

func (s *Server) handleChunkPending(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ChunkGroups(record.StatusPending)
	if err != nil {
		s.writeError(w, err)
		return
	}

	files := make(map[string][]record.Chunk, len(groups))
	totalChunks := 0
	for _, group := range groups {
		if len(group.Chunks) == 0 {
			continue
		}
		files[group.SourceFile] = group.Chunks
		totalChunks += len(group.Chunks)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"files":        files,
		"total_files":  len(files),
		"total_chunks": totalChunks,
	})
}

func (s *Server) handleChunkDelete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 1 {
		s.writeValidationError(w, "invalid chunk index %q", chi.URLParam(r, "index"))
		return
	}
	if err := s.store.DeleteChunk(filename, index); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Chunk deleted successfully",
	})
}
