package testsupport

import (
	"strings"
	"testing"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/record"
	"curator/internal/store"
)

// MustOpenStore creates a FileStore over the test config's data directory
// with the full directory layout in place.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.FileStore {
	t.Helper()

	fs := store.New(cfg.Paths.DataDir, logging.NewNop())
	if err := fs.EnsureLayout(); err != nil {
		t.Fatalf("store.EnsureLayout: %v", err)
	}
	return fs
}

// SubmitRaw stores a pending raw record for tests and returns it.
func SubmitRaw(t testing.TB, fs *store.FileStore, filename string) record.Record {
	t.Helper()

	rec := record.NewRecord(filename, "ta", "wikipedia", RawContent(), "collector")
	if err := fs.Submit(record.StageRaw, filename, RawContent(), rec); err != nil {
		t.Fatalf("store.Submit: %v", err)
	}
	return rec
}

// ApproveRaw moves a pending raw record to approved for tests.
func ApproveRaw(t testing.TB, fs *store.FileStore, filename string) {
	t.Helper()

	if _, err := fs.Approve(record.StageRaw, filename, "admin"); err != nil {
		t.Fatalf("store.Approve: %v", err)
	}
}

// RawContent returns text long enough to satisfy submission validation.
func RawContent() string {
	return strings.Repeat("tamil corpus sample text ", 4)
}

// ChunkText returns text long enough to satisfy chunk validation.
func ChunkText() string {
	return "a reasonably sized chunk of text for testing"
}
