package publish_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"curator/internal/ledger"
	"curator/internal/logging"
	"curator/internal/publish"
	"curator/internal/record"
	"curator/internal/store"
	"curator/internal/testsupport"
)

type fakeUploader struct {
	uploads  []upload
	failures map[string]error
}

type upload struct {
	repo    string
	path    string
	payload string
	message string
}

func (f *fakeUploader) UploadFile(_ context.Context, repo, pathInRepo string, payload []byte, message string) error {
	if err, ok := f.failures[pathInRepo]; ok {
		return err
	}
	f.uploads = append(f.uploads, upload{repo: repo, path: pathInRepo, payload: string(payload), message: message})
	return nil
}

func newPublisher(t *testing.T) (*publish.Publisher, *store.FileStore, *fakeUploader) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	fs := testsupport.MustOpenStore(t, cfg)
	lg, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() { _ = lg.Close() })
	uploader := &fakeUploader{failures: map[string]error{}}
	return publish.New(fs, uploader, lg, cfg, logging.NewNop()), fs, uploader
}

func TestPushUploadsApprovedRawWithMetadata(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	testsupport.SubmitRaw(t, fs, "tamil_doc_1")
	testsupport.ApproveRaw(t, fs, "tamil_doc_1")

	summary, err := pub.Push(context.Background(), publish.Request{Kinds: []publish.Kind{publish.KindRaw}})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if summary.Raw.Uploaded != 1 || summary.Raw.Failed != 0 {
		t.Fatalf("unexpected raw result: %+v", summary.Raw)
	}
	if len(uploader.uploads) != 2 {
		t.Fatalf("expected content and metadata uploads, got %d", len(uploader.uploads))
	}
	if uploader.uploads[0].path != "tamil_doc_1.txt" {
		t.Fatalf("unexpected content path %q", uploader.uploads[0].path)
	}
	if uploader.uploads[0].message != "Add raw file: tamil_doc_1" {
		t.Fatalf("unexpected commit message %q", uploader.uploads[0].message)
	}
	if uploader.uploads[1].path != "tamil_doc_1.meta.json" {
		t.Fatalf("unexpected metadata path %q", uploader.uploads[1].path)
	}
	if uploader.uploads[1].message != "Add metadata for: tamil_doc_1" {
		t.Fatalf("unexpected metadata commit message %q", uploader.uploads[1].message)
	}
}

func TestPushSkipsPreviouslyPublished(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	testsupport.SubmitRaw(t, fs, "tamil_doc_1")
	testsupport.ApproveRaw(t, fs, "tamil_doc_1")

	ctx := context.Background()
	if _, err := pub.Push(ctx, publish.Request{Kinds: []publish.Kind{publish.KindRaw}}); err != nil {
		t.Fatalf("first push failed: %v", err)
	}

	summary, err := pub.Push(ctx, publish.Request{Kinds: []publish.Kind{publish.KindRaw}})
	if err != nil {
		t.Fatalf("second push failed: %v", err)
	}
	if summary.Raw.Uploaded != 0 || summary.Raw.Skipped != 1 {
		t.Fatalf("expected second push to skip, got %+v", summary.Raw)
	}
	if len(uploader.uploads) != 2 {
		t.Fatalf("expected no further uploads, got %d total", len(uploader.uploads))
	}
}

func TestPushForceReuploadsEverything(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	testsupport.SubmitRaw(t, fs, "tamil_doc_1")
	testsupport.ApproveRaw(t, fs, "tamil_doc_1")

	ctx := context.Background()
	if _, err := pub.Push(ctx, publish.Request{Kinds: []publish.Kind{publish.KindRaw}}); err != nil {
		t.Fatalf("first push failed: %v", err)
	}

	summary, err := pub.Push(ctx, publish.Request{Kinds: []publish.Kind{publish.KindRaw}, Force: true})
	if err != nil {
		t.Fatalf("forced push failed: %v", err)
	}
	if summary.Raw.Uploaded != 1 || summary.Raw.Skipped != 0 {
		t.Fatalf("expected forced push to re-upload, got %+v", summary.Raw)
	}
	if len(uploader.uploads) != 4 {
		t.Fatalf("expected 4 uploads total, got %d", len(uploader.uploads))
	}
}

func TestPushContinuesPastFailures(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	for _, name := range []string{"doc_a", "doc_b", "doc_c"} {
		testsupport.SubmitRaw(t, fs, name)
		testsupport.ApproveRaw(t, fs, name)
	}
	uploader.failures["doc_b.txt"] = errors.New("boom")

	summary, err := pub.Push(context.Background(), publish.Request{Kinds: []publish.Kind{publish.KindRaw}})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if summary.Raw.Uploaded != 2 || summary.Raw.Failed != 1 {
		t.Fatalf("unexpected raw result: %+v", summary.Raw)
	}
	if summary.TotalUploaded() != 2 || summary.TotalFailed() != 1 {
		t.Fatalf("unexpected totals: uploaded=%d failed=%d", summary.TotalUploaded(), summary.TotalFailed())
	}

	// A failed item must stay unrecorded so the next push retries it.
	retry, err := pub.Push(context.Background(), publish.Request{Kinds: []publish.Kind{publish.KindRaw}})
	if err != nil {
		t.Fatalf("retry push failed: %v", err)
	}
	if retry.Raw.Failed != 1 || retry.Raw.Skipped != 2 {
		t.Fatalf("expected retry to revisit only the failed item, got %+v", retry.Raw)
	}
}

func TestPushChunksUsesFolderLayout(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	for index := 1; index <= 2; index++ {
		chunk := record.NewChunk("tamil_doc_1", testsupport.ChunkText(), "ta", "education", "wikipedia", "", "chunker", index)
		if err := fs.SubmitChunk(chunk); err != nil {
			t.Fatalf("SubmitChunk: %v", err)
		}
		if _, err := fs.ApproveChunk("tamil_doc_1", index, "admin"); err != nil {
			t.Fatalf("ApproveChunk: %v", err)
		}
	}

	summary, err := pub.Push(context.Background(), publish.Request{Kinds: []publish.Kind{publish.KindChunked}})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if summary.Chunked.Uploaded != 2 {
		t.Fatalf("unexpected chunked result: %+v", summary.Chunked)
	}
	if uploader.uploads[0].path != "tamil_doc_1/chunk_01.json" {
		t.Fatalf("unexpected chunk path %q", uploader.uploads[0].path)
	}
	if uploader.uploads[0].message != "Add chunk_01.json for tamil_doc_1" {
		t.Fatalf("unexpected chunk commit message %q", uploader.uploads[0].message)
	}
}

func TestPushRepoOverride(t *testing.T) {
	pub, fs, uploader := newPublisher(t)
	testsupport.SubmitRaw(t, fs, "tamil_doc_1")
	testsupport.ApproveRaw(t, fs, "tamil_doc_1")

	_, err := pub.Push(context.Background(), publish.Request{
		Kinds:        []publish.Kind{publish.KindRaw},
		RepoOverride: "mozhii/custom-export",
	})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	for _, up := range uploader.uploads {
		if up.repo != "mozhii/custom-export" {
			t.Fatalf("expected override repo, got %q", up.repo)
		}
	}
}

func TestParseKinds(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"raw", 1, true},
		{"Cleaned", 1, true},
		{" chunked ", 1, true},
		{"all", 3, true},
		{"everything", 0, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("input_%s", tc.input), func(t *testing.T) {
			kinds, err := publish.ParseKinds(tc.input)
			if tc.ok && err != nil {
				t.Fatalf("ParseKinds(%q) failed: %v", tc.input, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("ParseKinds(%q) expected error", tc.input)
			}
			if len(kinds) != tc.want {
				t.Fatalf("ParseKinds(%q) returned %d kinds, want %d", tc.input, len(kinds), tc.want)
			}
		})
	}
}
