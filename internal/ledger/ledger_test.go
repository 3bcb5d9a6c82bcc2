package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"curator/internal/ledger"
	"curator/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	published, err := store.IsPublished(ctx, "raw", "tamil_doc_1", "mozhii/mozhii-raw-data")
	if err != nil {
		t.Fatalf("IsPublished failed: %v", err)
	}
	if published {
		t.Fatal("expected fresh ledger to report item as unpublished")
	}
}

func TestMarkPublishedRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.MarkPublished(ctx, "raw", "tamil_doc_1", "mozhii/mozhii-raw-data"); err != nil {
		t.Fatalf("MarkPublished failed: %v", err)
	}

	published, err := store.IsPublished(ctx, "raw", "tamil_doc_1", "mozhii/mozhii-raw-data")
	if err != nil {
		t.Fatalf("IsPublished failed: %v", err)
	}
	if !published {
		t.Fatal("expected item to be reported as published")
	}

	otherRepo, err := store.IsPublished(ctx, "raw", "tamil_doc_1", "mozhii/mozhii-cleaned-data")
	if err != nil {
		t.Fatalf("IsPublished failed: %v", err)
	}
	if otherRepo {
		t.Fatal("expected item to be scoped to its target repo")
	}
}

func TestMarkPublishedIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.MarkPublished(ctx, "chunked", "ta_edu_tamildoc1_01", "mozhii/mozhii-chunked-data"); err != nil {
			t.Fatalf("MarkPublished attempt %d failed: %v", i+1, err)
		}
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(entries))
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("doc_%d", i)
		if err := store.MarkPublished(ctx, "raw", key, "mozhii/mozhii-raw-data"); err != nil {
			t.Fatalf("MarkPublished failed: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected limit to cap results at 3, got %d", len(entries))
	}
	if entries[0].ItemKey != "doc_4" {
		t.Fatalf("expected newest entry first, got %q", entries[0].ItemKey)
	}
	if entries[0].UploadedAt.IsZero() {
		t.Fatal("expected uploaded timestamp to be populated")
	}
}
