package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/services"
)

// HTTPDoer describes the HTTP client used by the hub client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one dataset hub instance. Repositories are addressed by
// their owner/name identifier per call.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
}

// New builds a client from configuration with a timeout-bounded HTTP client.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := 60 * time.Second
	baseURL := ""
	token := ""
	if cfg != nil {
		timeout = time.Duration(cfg.Hub.RequestTimeout) * time.Second
		baseURL = cfg.Hub.BaseURL
		token = cfg.Hub.Token
	}
	return NewWithClient(baseURL, token, &http.Client{Timeout: timeout}, logger)
}

// NewWithClient builds a client around an injected HTTPDoer.
func NewWithClient(baseURL, token string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
		logger:  logging.NewComponentLogger(logger, "hub"),
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.client.Do(req)
}

func classifyStatus(operation string, resp *http.Response) error {
	if resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := fmt.Sprintf("hub returned %d", resp.StatusCode)
	if len(bytes.TrimSpace(body)) > 0 {
		detail = fmt.Sprintf("hub returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	marker := services.ErrTransient
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		marker = services.ErrUnauthorized
	case http.StatusNotFound:
		marker = services.ErrNotFound
	}
	return services.Wrap(marker, "hub", operation, detail, nil)
}

func escapePath(pathInRepo string) string {
	segments := strings.Split(strings.Trim(pathInRepo, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// UploadFile pushes payload to pathInRepo in the given dataset repository
// with a commit message.
func (c *Client) UploadFile(ctx context.Context, repo, pathInRepo string, payload []byte, message string) error {
	uploadURL := fmt.Sprintf("%s/api/datasets/%s/upload/main/%s", c.baseURL, repo, escapePath(pathInRepo))
	if message != "" {
		uploadURL += "?commit_message=" + url.QueryEscape(message)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "hub", "upload", "request failed", err)
	}
	defer resp.Body.Close()
	if err := classifyStatus("upload", resp); err != nil {
		return err
	}
	c.logger.Debug("file uploaded",
		logging.String(logging.FieldRepo, repo),
		logging.String("path", pathInRepo),
		logging.Int("bytes", len(payload)))
	return nil
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ListFiles returns the file paths at the root of the repository's main
// branch. Directories are skipped.
func (c *Client) ListFiles(ctx context.Context, repo string) ([]string, error) {
	listURL := fmt.Sprintf("%s/api/datasets/%s/tree/main", c.baseURL, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "hub", "list", "request failed", err)
	}
	defer resp.Body.Close()
	if err := classifyStatus("list", resp); err != nil {
		return nil, err
	}

	var entries []treeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode tree listing: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type == "file" {
			files = append(files, entry.Path)
		}
	}
	return files, nil
}

// DownloadFile fetches one file from the repository's main branch.
func (c *Client) DownloadFile(ctx context.Context, repo, pathInRepo string) ([]byte, error) {
	downloadURL := fmt.Sprintf("%s/datasets/%s/resolve/main/%s", c.baseURL, repo, escapePath(pathInRepo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "hub", "download", "request failed", err)
	}
	defer resp.Body.Close()
	if err := classifyStatus("download", resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}
