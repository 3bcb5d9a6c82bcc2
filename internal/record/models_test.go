package record_test

import (
	"strings"
	"testing"

	"curator/internal/record"
)

func TestParseStage(t *testing.T) {
	for _, value := range []string{"raw", "cleaned", "chunked", " RAW "} {
		if _, err := record.ParseStage(value); err != nil {
			t.Fatalf("ParseStage(%q) returned error: %v", value, err)
		}
	}
	if _, err := record.ParseStage("chunks"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestParseStatus(t *testing.T) {
	if status, err := record.ParseStatus("Approved"); err != nil || status != record.StatusApproved {
		t.Fatalf("ParseStatus returned %v, %v", status, err)
	}
	if _, err := record.ParseStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestNewRecordDefaults(t *testing.T) {
	rec := record.NewRecord("tamil_doc_1", "ta", "wikipedia", strings.Repeat("x", 80), "collector")
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}
	if rec.Status != record.StatusPending {
		t.Fatalf("expected pending status, got %s", rec.Status)
	}
	if rec.ContentLength != 80 {
		t.Fatalf("unexpected content length %d", rec.ContentLength)
	}
	if rec.SubmittedAt.IsZero() {
		t.Fatal("expected submission timestamp")
	}
	if rec.ApprovedAt != nil {
		t.Fatal("expected no approval timestamp on a fresh record")
	}
}

func TestChunkID(t *testing.T) {
	tests := []struct {
		language   string
		category   string
		sourceFile string
		index      int
		want       string
	}{
		{"ta", "education", "tamil_doc_1", 1, "ta_edu_tamildoc1_01"},
		{"ta", "news", "tamil_doc_1", 2, "ta_new_tamildoc1_02"},
		// Short categories are used whole.
		{"en", "o", "abc", 3, "en_o_abc_03"},
		// Long filenames truncate after underscore removal.
		{"hi", "history", "very_long_source_name", 12, "hi_his_verylongso_12"},
	}
	for _, tt := range tests {
		got := record.ChunkID(tt.language, tt.category, tt.sourceFile, tt.index)
		if got != tt.want {
			t.Errorf("ChunkID(%q, %q, %q, %d) = %q, want %q",
				tt.language, tt.category, tt.sourceFile, tt.index, got, tt.want)
		}
	}
}

func TestChunkIDStableForSameInputs(t *testing.T) {
	a := record.ChunkID("ta", "education", "doc_one", 4)
	b := record.ChunkID("ta", "education", "doc_one", 4)
	if a != b {
		t.Fatalf("expected deterministic chunk id, got %q and %q", a, b)
	}
}

func TestNewChunk(t *testing.T) {
	chunk := record.NewChunk("tamil_doc_1", strings.Repeat("y", 30), "ta", "education", "wikipedia", "", "chunker", 2)
	if chunk.ChunkID != "ta_edu_tamildoc1_02" {
		t.Fatalf("unexpected chunk id %q", chunk.ChunkID)
	}
	if chunk.ChunkIndex != 2 {
		t.Fatalf("unexpected chunk index %d", chunk.ChunkIndex)
	}
	if chunk.TextLength != 30 {
		t.Fatalf("unexpected text length %d", chunk.TextLength)
	}
	if chunk.Status != record.StatusPending {
		t.Fatalf("expected pending status, got %s", chunk.Status)
	}
}

func TestRAGFormatDropsBookkeeping(t *testing.T) {
	chunk := record.NewChunk("doc_one", strings.Repeat("z", 25), "ta", "news", "blog", "", "chunker", 1)
	rag := chunk.RAGFormat()
	if rag.ChunkID != chunk.ChunkID || rag.Text != chunk.Text || rag.ChunkIndex != 1 {
		t.Fatalf("unexpected rag chunk: %+v", rag)
	}
}

func TestChunkFileName(t *testing.T) {
	if name := record.ChunkFileName(3); name != "chunk_03.json" {
		t.Fatalf("unexpected chunk file name %q", name)
	}
	if name := record.ChunkFileName(12); name != "chunk_12.json" {
		t.Fatalf("unexpected chunk file name %q", name)
	}
}
