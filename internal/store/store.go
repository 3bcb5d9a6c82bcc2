package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/record"
	"curator/internal/services"
)

// Metadata is a loose JSON object read from a record sidecar. Unknown fields
// round-trip untouched.
type Metadata = map[string]any

// FileStore is the directory-based curation store.
type FileStore struct {
	root   string
	logger *slog.Logger
}

// New creates a FileStore rooted at dataDir.
func New(dataDir string, logger *slog.Logger) *FileStore {
	return &FileStore{
		root:   dataDir,
		logger: logging.NewComponentLogger(logger, "store"),
	}
}

// Root returns the data directory the store operates on.
func (s *FileStore) Root() string { return s.root }

// EnsureLayout creates the pending and approved directories for every stage.
func (s *FileStore) EnsureLayout() error {
	for _, status := range []record.Status{record.StatusPending, record.StatusApproved} {
		for _, stage := range record.Stages() {
			if err := os.MkdirAll(s.dir(status, stage), 0o755); err != nil {
				return fmt.Errorf("create store directory: %w", err)
			}
		}
	}
	return nil
}

func (s *FileStore) dir(status record.Status, stage record.Stage) string {
	return filepath.Join(s.root, string(status), string(stage))
}

func (s *FileStore) contentPath(status record.Status, stage record.Stage, filename string) string {
	return filepath.Join(s.dir(status, stage), filename+".txt")
}

func (s *FileStore) metaPath(status record.Status, stage record.Stage, filename string) string {
	return filepath.Join(s.dir(status, stage), filename+".meta.json")
}

// sanitizeName rejects filenames that would escape the stage directory.
func sanitizeName(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, "/\\") {
		return services.Wrap(services.ErrValidation, "store", "sanitize", fmt.Sprintf("invalid filename %q", filename), nil)
	}
	return nil
}

func readMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := Metadata{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", filepath.Base(path), err)
	}
	return meta, nil
}

func writeMetadata(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

func recordToMetadata(rec record.Record) (Metadata, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	meta := Metadata{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Exists reports whether a record's content file is present at the given
// status and stage.
func (s *FileStore) Exists(status record.Status, stage record.Stage, filename string) bool {
	if sanitizeName(filename) != nil {
		return false
	}
	_, err := os.Stat(s.contentPath(status, stage, filename))
	return err == nil
}

// Submit stores a pending content file with its metadata sidecar. A pending
// record of the same name is a conflict; resubmission after approval is
// allowed so a file can be revised through a fresh review cycle.
func (s *FileStore) Submit(stage record.Stage, filename, content string, rec record.Record) error {
	if err := sanitizeName(filename); err != nil {
		return err
	}
	contentPath := s.contentPath(record.StatusPending, stage, filename)
	if _, err := os.Stat(contentPath); err == nil {
		return services.Wrap(services.ErrConflict, string(stage), "submit",
			fmt.Sprintf("file %q is already pending review", filename), nil)
	}

	meta, err := recordToMetadata(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(contentPath), 0o755); err != nil {
		return fmt.Errorf("create stage directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(contentPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := writeMetadata(s.metaPath(record.StatusPending, stage, filename), meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	s.logger.Info("submission stored",
		logging.String(logging.FieldStage, string(stage)),
		logging.String(logging.FieldFilename, filename),
		logging.Int("content_length", len(content)))
	return nil
}

// List returns the metadata of every record at the given stage and status,
// newest first.
func (s *FileStore) List(stage record.Stage, status record.Status) ([]Metadata, error) {
	entries, err := os.ReadDir(s.dir(status, stage))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stage directory: %w", err)
	}

	items := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		meta, err := readMetadata(filepath.Join(s.dir(status, stage), entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable metadata",
				logging.String(logging.FieldStage, string(stage)),
				logging.String("file", entry.Name()),
				logging.Error(err))
			continue
		}
		items = append(items, meta)
	}

	sortKey := "submitted_at"
	if status == record.StatusApproved {
		sortKey = "approved_at"
	}
	sort.SliceStable(items, func(i, j int) bool {
		return metaString(items[i], sortKey) > metaString(items[j], sortKey)
	})
	return items, nil
}

// ListFilenames returns the base names of every content file at the given
// stage and status.
func (s *FileStore) ListFilenames(stage record.Stage, status record.Status) ([]string, error) {
	entries, err := os.ReadDir(s.dir(status, stage))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stage directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}

// File bundles a record's content with its metadata and current location.
type File struct {
	Filename string
	Content  string
	Meta     Metadata
	Location record.Status
}

// Get finds a record by filename, checking pending before approved.
func (s *FileStore) Get(stage record.Stage, filename string) (*File, error) {
	if err := sanitizeName(filename); err != nil {
		return nil, err
	}
	for _, status := range []record.Status{record.StatusPending, record.StatusApproved} {
		content, err := os.ReadFile(s.contentPath(status, stage, filename))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read content: %w", err)
		}
		meta, err := readMetadata(s.metaPath(status, stage, filename))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if meta == nil {
			meta = Metadata{}
		}
		return &File{Filename: filename, Content: string(content), Meta: meta, Location: status}, nil
	}
	return nil, services.Wrap(services.ErrNotFound, string(stage), "get",
		fmt.Sprintf("file %q not found", filename), nil)
}

// Update overwrites a pending record's content and shallow-merges a metadata
// patch, stamping the edit.
func (s *FileStore) Update(stage record.Stage, filename, content string, patch Metadata, updatedBy string) (Metadata, error) {
	if err := sanitizeName(filename); err != nil {
		return nil, err
	}
	contentPath := s.contentPath(record.StatusPending, stage, filename)
	if _, err := os.Stat(contentPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, string(stage), "update",
			fmt.Sprintf("no pending file %q", filename), nil)
	}

	metaPath := s.metaPath(record.StatusPending, stage, filename)
	meta, err := readMetadata(metaPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		meta = Metadata{}
	}

	if content != "" {
		if err := fileutil.WriteFileAtomic(contentPath, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write content: %w", err)
		}
		meta["content_length"] = len([]rune(content))
	}
	for key, value := range patch {
		meta[key] = value
	}
	meta["updated_at"] = time.Now().Format(time.RFC3339)
	meta["updated_by"] = updatedBy

	if err := writeMetadata(metaPath, meta); err != nil {
		return nil, err
	}
	s.logger.Info("pending record updated",
		logging.String(logging.FieldStage, string(stage)),
		logging.String(logging.FieldFilename, filename),
		logging.String("updated_by", updatedBy))
	return meta, nil
}

// Approve stamps a pending record and moves its content and metadata to the
// approved directory. The content move happens before the metadata swap, so
// a crash in between leaves a pending sidecar that the next Approve call of
// the same filename cleans up.
func (s *FileStore) Approve(stage record.Stage, filename, approvedBy string) (Metadata, error) {
	if err := sanitizeName(filename); err != nil {
		return nil, err
	}
	pendingContent := s.contentPath(record.StatusPending, stage, filename)
	pendingMeta := s.metaPath(record.StatusPending, stage, filename)
	approvedContent := s.contentPath(record.StatusApproved, stage, filename)

	if _, err := os.Stat(pendingContent); err != nil {
		return nil, services.Wrap(services.ErrNotFound, string(stage), "approve",
			fmt.Sprintf("no pending file %q", filename), nil)
	}

	meta, err := readMetadata(pendingMeta)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		meta = Metadata{}
	}
	meta["status"] = string(record.StatusApproved)
	meta["approved_at"] = time.Now().Format(time.RFC3339)
	meta["approved_by"] = approvedBy

	if err := os.MkdirAll(filepath.Dir(approvedContent), 0o755); err != nil {
		return nil, fmt.Errorf("create approved directory: %w", err)
	}
	if err := fileutil.MoveFile(pendingContent, approvedContent); err != nil {
		return nil, fmt.Errorf("move content: %w", err)
	}
	if err := writeMetadata(s.metaPath(record.StatusApproved, stage, filename), meta); err != nil {
		return nil, fmt.Errorf("write approved metadata: %w", err)
	}
	if err := os.Remove(pendingMeta); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove pending metadata: %w", err)
	}

	s.logger.Info("record approved",
		logging.String(logging.FieldStage, string(stage)),
		logging.String(logging.FieldFilename, filename),
		logging.String("approved_by", approvedBy))
	return meta, nil
}

// Reject deletes a pending record outright. The reason is recorded in the
// log only; rejected data leaves no tombstone.
func (s *FileStore) Reject(stage record.Stage, filename, reason string) error {
	if err := sanitizeName(filename); err != nil {
		return err
	}
	contentPath := s.contentPath(record.StatusPending, stage, filename)
	if _, err := os.Stat(contentPath); err != nil {
		return services.Wrap(services.ErrNotFound, string(stage), "reject",
			fmt.Sprintf("no pending file %q", filename), nil)
	}
	if err := os.Remove(contentPath); err != nil {
		return fmt.Errorf("remove content: %w", err)
	}
	if err := os.Remove(s.metaPath(record.StatusPending, stage, filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove metadata: %w", err)
	}
	s.logger.Info("record rejected",
		logging.String(logging.FieldStage, string(stage)),
		logging.String(logging.FieldFilename, filename),
		logging.String("reason", reason))
	return nil
}

// ApproveAll approves every pending record at the stage and returns how many
// were moved.
func (s *FileStore) ApproveAll(stage record.Stage, approvedBy string) (int, error) {
	names, err := s.ListFilenames(stage, record.StatusPending)
	if err != nil {
		return 0, err
	}
	approved := 0
	for _, name := range names {
		if _, err := s.Approve(stage, name, approvedBy); err != nil {
			return approved, err
		}
		approved++
	}
	return approved, nil
}

// ReadApproved returns the raw content and metadata bytes for an approved
// record, for publishing.
func (s *FileStore) ReadApproved(stage record.Stage, filename string) (content, meta []byte, err error) {
	if err := sanitizeName(filename); err != nil {
		return nil, nil, err
	}
	content, err = os.ReadFile(s.contentPath(record.StatusApproved, stage, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, services.Wrap(services.ErrNotFound, string(stage), "read approved",
				fmt.Sprintf("file %q not found", filename), nil)
		}
		return nil, nil, err
	}
	meta, err = os.ReadFile(s.metaPath(record.StatusApproved, stage, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}
	return content, meta, nil
}

func metaString(meta Metadata, key string) string {
	if value, ok := meta[key].(string); ok {
		return value
	}
	return ""
}
