package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"curator/internal/api"
	"curator/internal/logging"
	"curator/internal/publish"
	"curator/internal/store"
	"curator/internal/testsupport"
)

type stubPusher struct {
	lastRequest publish.Request
	summary     *publish.Summary
	err         error
}

func (p *stubPusher) Push(_ context.Context, req publish.Request) (*publish.Summary, error) {
	p.lastRequest = req
	if p.err != nil {
		return nil, p.err
	}
	if p.summary != nil {
		return p.summary, nil
	}
	return &publish.Summary{}, nil
}

func newTestServer(t *testing.T, pusher api.Pusher, opts ...testsupport.ConfigOption) (*api.Server, *store.FileStore) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	fs := testsupport.MustOpenStore(t, cfg)
	return api.New(cfg, fs, pusher, logging.NewNop()), fs
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	payload := map[string]any{}
	if recorder.Body.Len() > 0 {
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse response body %q: %v", recorder.Body.String(), err)
		}
	}
	return recorder, payload
}

func submitRaw(t *testing.T, handler http.Handler, filename string) {
	t.Helper()

	recorder, _ := doJSON(t, handler, http.MethodPost, "/api/raw/submit", map[string]any{
		"filename": filename,
		"language": "ta",
		"source":   "wikipedia",
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("raw submit returned %d: %s", recorder.Code, recorder.Body.String())
	}
}

func approveItem(t *testing.T, handler http.Handler, itemType, filename string) {
	t.Helper()

	recorder, _ := doJSON(t, handler, http.MethodPost, "/api/admin/approve", map[string]any{
		"type":     itemType,
		"filename": filename,
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("approve %s %s returned %d: %s", itemType, filename, recorder.Code, recorder.Body.String())
	}
}

func submitCleaned(t *testing.T, handler http.Handler, filename string) {
	t.Helper()

	recorder, _ := doJSON(t, handler, http.MethodPost, "/api/cleaning/submit", map[string]any{
		"filename": filename,
		"content":  testsupport.RawContent(),
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("cleaning submit returned %d: %s", recorder.Code, recorder.Body.String())
	}
}

func submitChunk(t *testing.T, handler http.Handler, filename string) map[string]any {
	t.Helper()

	recorder, payload := doJSON(t, handler, http.MethodPost, "/api/chunking/submit", map[string]any{
		"filename": filename,
		"text":     testsupport.ChunkText(),
		"category": "education",
		"source":   "wikipedia",
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("chunk submit returned %d: %s", recorder.Code, recorder.Body.String())
	}
	return payload
}
