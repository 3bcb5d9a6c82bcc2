package api_test

import (
	"net/http"
	"testing"

	"curator/internal/testsupport"
)

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, nil)

	recorder, payload := doJSON(t, server.Handler(), http.MethodGet, "/health", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("health returned %d", recorder.Code)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", payload)
	}
}

func TestConfigEndpointExposesVocabularies(t *testing.T) {
	server, _ := newTestServer(t, nil)

	recorder, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/config", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("config returned %d", recorder.Code)
	}

	languages, ok := payload["languages"].(map[string]any)
	if !ok {
		t.Fatalf("expected languages map, got %T", payload["languages"])
	}
	if languages["ta"] != "Tamil" {
		t.Fatalf("expected Tamil display name, got %v", languages["ta"])
	}
	if payload["defaultLanguage"] != "ta" {
		t.Fatalf("unexpected default language %v", payload["defaultLanguage"])
	}
	categories, ok := payload["categories"].([]any)
	if !ok || len(categories) == 0 {
		t.Fatalf("expected categories list, got %v", payload["categories"])
	}
	repos, ok := payload["hubRepos"].(map[string]any)
	if !ok || repos["raw"] != "mozhii/mozhii-raw-data" {
		t.Fatalf("unexpected hub repos: %v", payload["hubRepos"])
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	server, _ := newTestServer(t, nil, testsupport.WithAPIToken("sekrit"))

	recorder, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/admin/stats", nil, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", recorder.Code)
	}
	if payload["success"] != false {
		t.Fatalf("expected failure envelope, got %v", payload)
	}

	recorder, _ = doJSON(t, server.Handler(), http.MethodGet, "/api/admin/stats", nil, map[string]string{
		"Authorization": "Bearer wrong",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", recorder.Code)
	}

	recorder, _ = doJSON(t, server.Handler(), http.MethodGet, "/api/admin/stats", nil, map[string]string{
		"Authorization": "Bearer sekrit",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", recorder.Code)
	}
}

func TestAdminRoutesOpenWithoutConfiguredToken(t *testing.T) {
	server, _ := newTestServer(t, nil)

	recorder, _ := doJSON(t, server.Handler(), http.MethodGet, "/api/admin/stats", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected open admin routes, got %d", recorder.Code)
	}

	// Collector routes never require the admin token.
	recorder, _ = doJSON(t, server.Handler(), http.MethodGet, "/api/raw/pending", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for raw pending, got %d", recorder.Code)
	}
}
