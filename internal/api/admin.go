package api

import (
	"net/http"
	"strconv"
	"strings"

	"curator/internal/publish"
	"curator/internal/record"
	"curator/internal/services"
	"curator/internal/store"
)

func (s *Server) handleAdminPending(w http.ResponseWriter, r *http.Request) {
	rawPending, err := s.store.List(record.StageRaw, record.StatusPending)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleanedPending, err := s.store.List(record.StageCleaned, record.StatusPending)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groups, err := s.store.ChunkGroups(record.StatusPending)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if rawPending == nil {
		rawPending = []store.Metadata{}
	}
	if cleanedPending == nil {
		cleanedPending = []store.Metadata{}
	}
	chunked := make(map[string][]record.Chunk, len(groups))
	chunkTotal := 0
	for _, group := range groups {
		if len(group.Chunks) == 0 {
			continue
		}
		chunked[group.SourceFile] = group.Chunks
		chunkTotal += len(group.Chunks)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pending": map[string]any{
			"raw":     rawPending,
			"cleaned": cleanedPending,
			"chunked": chunked,
		},
		"totals": map[string]int{
			"raw":     len(rawPending),
			"cleaned": len(cleanedPending),
			"chunked": chunkTotal,
			"total":   len(rawPending) + len(cleanedPending) + chunkTotal,
		},
	})
}

// itemStage maps the admin "type" parameter onto a workflow stage.
// "chunk" is handled separately because chunks address by index.
func itemStage(itemType string) (record.Stage, bool) {
	switch strings.ToLower(strings.TrimSpace(itemType)) {
	case "raw":
		return record.StageRaw, true
	case "cleaned":
		return record.StageCleaned, true
	default:
		return "", false
	}
}

func isChunkType(itemType string) bool {
	return strings.ToLower(strings.TrimSpace(itemType)) == "chunk"
}

func (s *Server) handleAdminItem(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	filename := r.URL.Query().Get("filename")
	if itemType == "" || filename == "" {
		s.writeValidationError(w, "missing type or filename")
		return
	}

	if isChunkType(itemType) {
		index, err := strconv.Atoi(r.URL.Query().Get("chunk_index"))
		if err != nil || index < 1 {
			s.writeValidationError(w, "missing or invalid chunk_index")
			return
		}
		chunk, err := s.store.GetChunk(filename, index)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if chunk.Status != record.StatusPending {
			s.writeError(w, services.Wrap(services.ErrNotFound, "chunked", "item",
				"chunk is not pending review", nil))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"type":     itemType,
			"filename": filename,
			"chunk":    chunk,
		})
		return
	}

	stage, ok := itemStage(itemType)
	if !ok {
		s.writeValidationError(w, "invalid type %q", itemType)
		return
	}
	file, err := s.store.Get(stage, filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if file.Location != record.StatusPending {
		s.writeError(w, services.Wrap(services.ErrNotFound, string(stage), "item",
			"item is not pending review", nil))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"type":     itemType,
		"filename": filename,
		"content":  file.Content,
		"metadata": file.Meta,
	})
}

type adminUpdateRequest struct {
	Type       string         `json:"type"`
	Filename   string         `json:"filename"`
	Content    string         `json:"content"`
	Metadata   store.Metadata `json:"metadata"`
	ChunkIndex int            `json:"chunk_index"`
	Chunk      *record.Chunk  `json:"chunk"`
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Type == "" || req.Filename == "" {
		s.writeValidationError(w, "missing type or filename")
		return
	}

	if isChunkType(req.Type) {
		if req.ChunkIndex < 1 {
			s.writeValidationError(w, "missing chunk_index")
			return
		}
		if req.Chunk == nil {
			s.writeValidationError(w, "missing chunk body")
			return
		}
		if _, err := s.store.ReplaceChunk(req.Filename, req.ChunkIndex, *req.Chunk, "admin"); err != nil {
			s.writeError(w, err)
			return
		}
	} else {
		stage, ok := itemStage(req.Type)
		if !ok {
			s.writeValidationError(w, "invalid type %q", req.Type)
			return
		}
		if _, err := s.store.Update(stage, req.Filename, req.Content, req.Metadata, "admin"); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  req.Type + " updated successfully",
		"type":     req.Type,
		"filename": req.Filename,
	})
}

type adminActionRequest struct {
	Type       string `json:"type"`
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
	Reason     string `json:"reason"`
}

func (s *Server) handleAdminApprove(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Type == "" || req.Filename == "" {
		s.writeValidationError(w, "missing type or filename")
		return
	}

	if isChunkType(req.Type) {
		if req.ChunkIndex < 1 {
			s.writeValidationError(w, "missing chunk_index")
			return
		}
		if _, err := s.store.ApproveChunk(req.Filename, req.ChunkIndex, "admin"); err != nil {
			s.writeError(w, err)
			return
		}
	} else {
		stage, ok := itemStage(req.Type)
		if !ok {
			s.writeValidationError(w, "invalid type %q, want raw, cleaned, or chunk", req.Type)
			return
		}
		if _, err := s.store.Approve(stage, req.Filename, "admin"); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  req.Type + " approved successfully",
		"type":     req.Type,
		"filename": req.Filename,
	})
}

func (s *Server) handleAdminReject(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Type == "" || req.Filename == "" {
		s.writeValidationError(w, "missing type or filename")
		return
	}

	if isChunkType(req.Type) {
		if req.ChunkIndex < 1 {
			s.writeValidationError(w, "missing chunk_index")
			return
		}
		if err := s.store.DeleteChunk(req.Filename, req.ChunkIndex); err != nil {
			s.writeError(w, err)
			return
		}
	} else {
		stage, ok := itemStage(req.Type)
		if !ok {
			s.writeValidationError(w, "invalid type %q", req.Type)
			return
		}
		if err := s.store.Reject(stage, req.Filename, req.Reason); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  req.Type + " rejected",
		"type":     req.Type,
		"filename": req.Filename,
	})
}

func (s *Server) handleAdminApproveAll(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	itemType := strings.ToLower(strings.TrimSpace(req.Type))
	if itemType == "" {
		s.writeValidationError(w, "missing type")
		return
	}

	var approved int
	var err error
	switch itemType {
	case "raw":
		approved, err = s.store.ApproveAll(record.StageRaw, "admin")
	case "cleaned":
		approved, err = s.store.ApproveAll(record.StageCleaned, "admin")
	case "chunks":
		if strings.TrimSpace(req.Filename) == "" {
			s.writeValidationError(w, "filename required for chunk approval")
			return
		}
		approved, err = s.store.ApproveAllChunks(req.Filename, "admin")
	default:
		s.writeValidationError(w, "invalid type %q", req.Type)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        "Approved " + strconv.Itoa(approved) + " items",
		"approved_count": approved,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": map[string]any{
			"raw":     stats.Raw,
			"cleaned": stats.Cleaned,
			"chunked": stats.Chunked,
			"totals": map[string]int{
				"pending":  stats.TotalPending(),
				"approved": stats.TotalApproved(),
			},
		},
	})
}

type adminPushRequest struct {
	Type  string `json:"type"`
	Repo  string `json:"repo"`
	Force bool   `json:"force"`
}

func (s *Server) handleAdminPush(w http.ResponseWriter, r *http.Request) {
	var req adminPushRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		s.writeValidationError(w, "missing type")
		return
	}
	if s.pusher == nil {
		s.writeValidationError(w, "hub is not configured; set a hub token first")
		return
	}

	kinds, err := publish.ParseKinds(req.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}
	summary, err := s.pusher.Push(r.Context(), publish.Request{
		Kinds:        kinds,
		RepoOverride: strings.TrimSpace(req.Repo),
		Force:        req.Force,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Pushed " + strconv.Itoa(summary.TotalUploaded()) + " files to the dataset hub",
		"results": summary,
		"totals": map[string]int{
			"uploaded": summary.TotalUploaded(),
			"failed":   summary.TotalFailed(),
		},
	})
}
