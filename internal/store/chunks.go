package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/record"
	"curator/internal/services"
)

func (s *FileStore) chunkDir(status record.Status, sourceFile string) string {
	return filepath.Join(s.dir(status, record.StageChunked), sourceFile)
}

func (s *FileStore) chunkPath(status record.Status, sourceFile string, index int) string {
	return filepath.Join(s.chunkDir(status, sourceFile), record.ChunkFileName(index))
}

func readChunk(path string) (record.Chunk, error) {
	var chunk record.Chunk
	data, err := os.ReadFile(path)
	if err != nil {
		return chunk, err
	}
	if err := json.Unmarshal(data, &chunk); err != nil {
		return chunk, fmt.Errorf("parse chunk %s: %w", filepath.Base(path), err)
	}
	return chunk, nil
}

func writeChunk(path string, chunk record.Chunk) error {
	data, err := json.MarshalIndent(chunk, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chunk: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// parseChunkIndex extracts NN from chunk_NN.json names. Returns 0 for names
// that do not follow the scheme.
func parseChunkIndex(name string) int {
	if !strings.HasPrefix(name, "chunk_") || !strings.HasSuffix(name, ".json") {
		return 0
	}
	value := strings.TrimSuffix(strings.TrimPrefix(name, "chunk_"), ".json")
	index, err := strconv.Atoi(value)
	if err != nil || index < 1 {
		return 0
	}
	return index
}

func maxChunkIndex(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	highest := 0
	for _, entry := range entries {
		if index := parseChunkIndex(entry.Name()); index > highest {
			highest = index
		}
	}
	return highest
}

// NextChunkIndex returns the index the next chunk of sourceFile should take:
// one past the highest index present in either the pending or approved
// folder. Deleting a middle chunk never renumbers or reuses its slot.
func (s *FileStore) NextChunkIndex(sourceFile string) (int, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return 0, err
	}
	pending := maxChunkIndex(s.chunkDir(record.StatusPending, sourceFile))
	approved := maxChunkIndex(s.chunkDir(record.StatusApproved, sourceFile))
	highest := pending
	if approved > highest {
		highest = approved
	}
	return highest + 1, nil
}

// SubmitChunk stores a pending chunk under its source file's folder.
func (s *FileStore) SubmitChunk(chunk record.Chunk) error {
	if err := sanitizeName(chunk.SourceFile); err != nil {
		return err
	}
	dir := s.chunkDir(record.StatusPending, chunk.SourceFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chunk directory: %w", err)
	}
	path := s.chunkPath(record.StatusPending, chunk.SourceFile, chunk.ChunkIndex)
	if _, err := os.Stat(path); err == nil {
		return services.Wrap(services.ErrConflict, "chunked", "submit",
			fmt.Sprintf("chunk %d of %q is already pending", chunk.ChunkIndex, chunk.SourceFile), nil)
	}
	if err := writeChunk(path, chunk); err != nil {
		return err
	}
	s.logger.Info("chunk stored",
		logging.String(logging.FieldFilename, chunk.SourceFile),
		logging.Int(logging.FieldChunkIndex, chunk.ChunkIndex),
		logging.String("chunk_id", chunk.ChunkID))
	return nil
}

func (s *FileStore) chunksAt(status record.Status, sourceFile string) ([]record.Chunk, error) {
	entries, err := os.ReadDir(s.chunkDir(status, sourceFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chunk directory: %w", err)
	}
	chunks := make([]record.Chunk, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || parseChunkIndex(entry.Name()) == 0 {
			continue
		}
		chunk, err := readChunk(filepath.Join(s.chunkDir(status, sourceFile), entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable chunk",
				logging.String(logging.FieldFilename, sourceFile),
				logging.String("file", entry.Name()),
				logging.Error(err))
			continue
		}
		chunk.Status = status
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// ChunksFor returns every chunk of a source file, pending and approved
// merged, sorted by index.
func (s *FileStore) ChunksFor(sourceFile string) ([]record.Chunk, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return nil, err
	}
	pending, err := s.chunksAt(record.StatusPending, sourceFile)
	if err != nil {
		return nil, err
	}
	approved, err := s.chunksAt(record.StatusApproved, sourceFile)
	if err != nil {
		return nil, err
	}
	chunks := append(pending, approved...)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

// ChunkCounts returns how many pending and approved chunks a source file has.
func (s *FileStore) ChunkCounts(sourceFile string) (pending, approved int, err error) {
	if err := sanitizeName(sourceFile); err != nil {
		return 0, 0, err
	}
	p, err := s.chunksAt(record.StatusPending, sourceFile)
	if err != nil {
		return 0, 0, err
	}
	a, err := s.chunksAt(record.StatusApproved, sourceFile)
	if err != nil {
		return 0, 0, err
	}
	return len(p), len(a), nil
}

// ChunkGroup is the set of chunks a single source file has at one status.
type ChunkGroup struct {
	SourceFile string
	Chunks     []record.Chunk
}

// ChunkGroups lists the chunk folders at a status, each with its chunks
// sorted by index.
func (s *FileStore) ChunkGroups(status record.Status) ([]ChunkGroup, error) {
	entries, err := os.ReadDir(s.dir(status, record.StageChunked))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chunked directory: %w", err)
	}
	groups := make([]ChunkGroup, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		chunks, err := s.chunksAt(status, entry.Name())
		if err != nil {
			return nil, err
		}
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].ChunkIndex < chunks[j].ChunkIndex
		})
		groups = append(groups, ChunkGroup{SourceFile: entry.Name(), Chunks: chunks})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].SourceFile < groups[j].SourceFile
	})
	return groups, nil
}

// GetChunk finds one chunk by source file and index, pending first.
func (s *FileStore) GetChunk(sourceFile string, index int) (record.Chunk, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return record.Chunk{}, err
	}
	for _, status := range []record.Status{record.StatusPending, record.StatusApproved} {
		chunk, err := readChunk(s.chunkPath(status, sourceFile, index))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return record.Chunk{}, err
		}
		chunk.Status = status
		return chunk, nil
	}
	return record.Chunk{}, services.Wrap(services.ErrNotFound, "chunked", "get",
		fmt.Sprintf("chunk %d of %q not found", index, sourceFile), nil)
}

// ApproveChunk stamps a pending chunk and moves it to the approved folder,
// removing the pending folder once it empties.
func (s *FileStore) ApproveChunk(sourceFile string, index int, approvedBy string) (record.Chunk, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return record.Chunk{}, err
	}
	pendingPath := s.chunkPath(record.StatusPending, sourceFile, index)
	chunk, err := readChunk(pendingPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record.Chunk{}, services.Wrap(services.ErrNotFound, "chunked", "approve",
				fmt.Sprintf("no pending chunk %d of %q", index, sourceFile), nil)
		}
		return record.Chunk{}, err
	}

	now := time.Now()
	chunk.Status = record.StatusApproved
	chunk.ApprovedAt = &now
	chunk.ApprovedBy = approvedBy

	approvedDir := s.chunkDir(record.StatusApproved, sourceFile)
	if err := os.MkdirAll(approvedDir, 0o755); err != nil {
		return record.Chunk{}, fmt.Errorf("create approved chunk directory: %w", err)
	}
	if err := writeChunk(s.chunkPath(record.StatusApproved, sourceFile, index), chunk); err != nil {
		return record.Chunk{}, err
	}
	if err := os.Remove(pendingPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return record.Chunk{}, fmt.Errorf("remove pending chunk: %w", err)
	}
	s.removeIfEmpty(s.chunkDir(record.StatusPending, sourceFile))

	s.logger.Info("chunk approved",
		logging.String(logging.FieldFilename, sourceFile),
		logging.Int(logging.FieldChunkIndex, index),
		logging.String("approved_by", approvedBy))
	return chunk, nil
}

// ApproveAllChunks approves every pending chunk of a source file.
func (s *FileStore) ApproveAllChunks(sourceFile, approvedBy string) (int, error) {
	chunks, err := s.chunksAt(record.StatusPending, sourceFile)
	if err != nil {
		return 0, err
	}
	approved := 0
	for _, chunk := range chunks {
		if _, err := s.ApproveChunk(sourceFile, chunk.ChunkIndex, approvedBy); err != nil {
			return approved, err
		}
		approved++
	}
	return approved, nil
}

// DeleteChunk removes a pending chunk. Approved chunks are immutable through
// this path.
func (s *FileStore) DeleteChunk(sourceFile string, index int) error {
	if err := sanitizeName(sourceFile); err != nil {
		return err
	}
	path := s.chunkPath(record.StatusPending, sourceFile, index)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "chunked", "delete",
				fmt.Sprintf("chunk %d of %q not found or already approved", index, sourceFile), nil)
		}
		return fmt.Errorf("remove chunk: %w", err)
	}
	s.removeIfEmpty(s.chunkDir(record.StatusPending, sourceFile))
	s.logger.Info("chunk deleted",
		logging.String(logging.FieldFilename, sourceFile),
		logging.Int(logging.FieldChunkIndex, index))
	return nil
}

// ReplaceChunk overwrites a pending chunk wholesale, stamping the edit.
func (s *FileStore) ReplaceChunk(sourceFile string, index int, chunk record.Chunk, updatedBy string) (record.Chunk, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return record.Chunk{}, err
	}
	path := s.chunkPath(record.StatusPending, sourceFile, index)
	if _, err := os.Stat(path); err != nil {
		return record.Chunk{}, services.Wrap(services.ErrNotFound, "chunked", "update",
			fmt.Sprintf("no pending chunk %d of %q", index, sourceFile), nil)
	}
	chunk.SourceFile = sourceFile
	chunk.ChunkIndex = index
	chunk.Status = record.StatusPending
	chunk.TextLength = len([]rune(chunk.Text))
	now := time.Now()
	chunk.UpdatedAt = &now
	chunk.UpdatedBy = updatedBy
	if err := writeChunk(path, chunk); err != nil {
		return record.Chunk{}, err
	}
	s.logger.Info("chunk updated",
		logging.String(logging.FieldFilename, sourceFile),
		logging.Int(logging.FieldChunkIndex, index),
		logging.String("updated_by", updatedBy))
	return chunk, nil
}

// ReadApprovedChunk returns the raw bytes of an approved chunk document.
func (s *FileStore) ReadApprovedChunk(sourceFile, name string) ([]byte, error) {
	if err := sanitizeName(sourceFile); err != nil {
		return nil, err
	}
	if parseChunkIndex(name) == 0 {
		return nil, services.Wrap(services.ErrValidation, "chunked", "read approved",
			fmt.Sprintf("invalid chunk file name %q", name), nil)
	}
	data, err := os.ReadFile(filepath.Join(s.chunkDir(record.StatusApproved, sourceFile), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "chunked", "read approved",
				fmt.Sprintf("chunk %s of %q not found", name, sourceFile), nil)
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = os.Remove(dir)
}
