package api_test

import (
	"net/http"
	"strings"
	"testing"

	"curator/internal/testsupport"
)

func TestCleaningRawFilesReportsStatus(t *testing.T) {
	server, _ := newTestServer(t, nil)
	submitRaw(t, server.Handler(), "untouched_doc")
	submitRaw(t, server.Handler(), "in_progress_doc")
	approveItem(t, server.Handler(), "raw", "untouched_doc")
	approveItem(t, server.Handler(), "raw", "in_progress_doc")
	submitCleaned(t, server.Handler(), "in_progress_doc")

	_, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/cleaning/raw-files", nil, nil)
	if payload["count"] != float64(2) {
		t.Fatalf("expected two approved raw files, got %v", payload["count"])
	}

	statuses := map[string]string{}
	for _, entry := range payload["files"].([]any) {
		file := entry.(map[string]any)
		statuses[file["filename"].(string)] = file["cleaning_status"].(string)
	}
	if statuses["untouched_doc"] != "not_started" {
		t.Fatalf("expected not_started, got %q", statuses["untouched_doc"])
	}
	if statuses["in_progress_doc"] != "pending" {
		t.Fatalf("expected pending, got %q", statuses["in_progress_doc"])
	}

	approveItem(t, server.Handler(), "cleaned", "in_progress_doc")
	_, payload = doJSON(t, server.Handler(), http.MethodGet, "/api/cleaning/raw-files", nil, nil)
	for _, entry := range payload["files"].([]any) {
		file := entry.(map[string]any)
		if file["filename"] == "in_progress_doc" && file["cleaning_status"] != "approved" {
			t.Fatalf("expected approved status, got %v", file["cleaning_status"])
		}
	}
}

func TestCleaningRawFilesTruncatesPreview(t *testing.T) {
	server, _ := newTestServer(t, nil)
	long := strings.Repeat("x", 300)
	recorder, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/raw/submit", map[string]any{
		"filename": "long_doc",
		"language": "ta",
		"source":   "wikipedia",
		"content":  long,
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("submit returned %d", recorder.Code)
	}
	approveItem(t, server.Handler(), "raw", "long_doc")

	_, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/cleaning/raw-files", nil, nil)
	file := payload["files"].([]any)[0].(map[string]any)
	preview := file["content_preview"].(string)
	if len(preview) != 203 || !strings.HasSuffix(preview, "...") {
		t.Fatalf("expected 200-rune preview with ellipsis, got %d bytes", len(preview))
	}
	if file["content"].(string) != long {
		t.Fatal("expected full content alongside the preview")
	}
}

func TestCleaningSubmitRequiresApprovedRaw(t *testing.T) {
	server, _ := newTestServer(t, nil)

	recorder, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/cleaning/submit", map[string]any{
		"filename": "never_submitted",
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing raw file, got %d", recorder.Code)
	}

	// Pending raw is not enough; the raw file must be approved first.
	submitRaw(t, server.Handler(), "still_pending")
	recorder, _ = doJSON(t, server.Handler(), http.MethodPost, "/api/cleaning/submit", map[string]any{
		"filename": "still_pending",
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unapproved raw file, got %d", recorder.Code)
	}
}

func TestCleaningSubmitInheritsLineage(t *testing.T) {
	server, _ := newTestServer(t, nil)

	recorder, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/raw/submit", map[string]any{
		"filename": "lineage_doc",
		"language": "hi",
		"source":   "book",
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("raw submit returned %d", recorder.Code)
	}
	approveItem(t, server.Handler(), "raw", "lineage_doc")

	_, rawFile := doJSON(t, server.Handler(), http.MethodGet, "/api/raw/file/lineage_doc", nil, nil)
	rawID := rawFile["metadata"].(map[string]any)["id"].(string)

	submitCleaned(t, server.Handler(), "lineage_doc")

	_, cleanedFile := doJSON(t, server.Handler(), http.MethodGet, "/api/cleaning/file/lineage_doc", nil, nil)
	meta := cleanedFile["metadata"].(map[string]any)
	if meta["language"] != "hi" || meta["source"] != "book" {
		t.Fatalf("expected inherited language and source, got %v", meta)
	}
	if meta["original_raw_id"] != rawID {
		t.Fatalf("expected original_raw_id %q, got %v", rawID, meta["original_raw_id"])
	}
	if meta["submitted_by"] != "cleaner" {
		t.Fatalf("expected cleaner attribution, got %v", meta["submitted_by"])
	}
}

func TestCleaningSubmitDuplicateConflict(t *testing.T) {
	server, _ := newTestServer(t, nil)
	submitRaw(t, server.Handler(), "twice_cleaned")
	approveItem(t, server.Handler(), "raw", "twice_cleaned")
	submitCleaned(t, server.Handler(), "twice_cleaned")

	recorder, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/cleaning/submit", map[string]any{
		"filename": "twice_cleaned",
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate cleaning, got %d", recorder.Code)
	}
}
