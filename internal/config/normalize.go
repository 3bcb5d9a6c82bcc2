package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHub(); err != nil {
		return err
	}
	c.normalizeCuration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("CURATOR_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeHub() error {
	c.Hub.Token = strings.TrimSpace(c.Hub.Token)
	if c.Hub.Token == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Hub.Token = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Hub.Token = strings.TrimSpace(value)
		}
	}
	c.Hub.BaseURL = strings.TrimRight(strings.TrimSpace(c.Hub.BaseURL), "/")
	if c.Hub.BaseURL == "" {
		c.Hub.BaseURL = defaultHubBaseURL
	}
	c.Hub.RawRepo = strings.TrimSpace(c.Hub.RawRepo)
	if c.Hub.RawRepo == "" {
		c.Hub.RawRepo = defaultHubRawRepo
	}
	c.Hub.CleanedRepo = strings.TrimSpace(c.Hub.CleanedRepo)
	if c.Hub.CleanedRepo == "" {
		c.Hub.CleanedRepo = defaultHubCleanedRepo
	}
	c.Hub.ChunkedRepo = strings.TrimSpace(c.Hub.ChunkedRepo)
	if c.Hub.ChunkedRepo == "" {
		c.Hub.ChunkedRepo = defaultHubChunkedRepo
	}
	if c.Hub.RequestTimeout <= 0 {
		c.Hub.RequestTimeout = defaultHubRequestTimeout
	}
	return nil
}

func (c *Config) normalizeCuration() {
	c.Curation.Languages = normalizeList(c.Curation.Languages, defaultLanguages())
	c.Curation.Categories = normalizeList(c.Curation.Categories, defaultCategories())
	c.Curation.SourceTypes = normalizeList(c.Curation.SourceTypes, defaultSourceTypes())
	c.Curation.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Curation.DefaultLanguage))
	if c.Curation.DefaultLanguage == "" {
		c.Curation.DefaultLanguage = defaultLanguage
	}
}

func normalizeList(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
