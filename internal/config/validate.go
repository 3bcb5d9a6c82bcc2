package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateHub(); err != nil {
		return err
	}
	if err := c.validateCuration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateHub() error {
	if c.Hub.RequestTimeout <= 0 {
		return errors.New("hub.request_timeout must be positive (seconds)")
	}
	if c.Hub.Token == "" {
		return nil
	}
	for key, repo := range map[string]string{
		"hub.raw_repo":     c.Hub.RawRepo,
		"hub.cleaned_repo": c.Hub.CleanedRepo,
		"hub.chunked_repo": c.Hub.ChunkedRepo,
	} {
		if strings.TrimSpace(repo) == "" {
			return fmt.Errorf("%s must be set when hub.token is configured", key)
		}
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("%s must use the owner/name form, got %q", key, repo)
		}
	}
	return nil
}

func (c *Config) validateCuration() error {
	if len(c.Curation.Languages) == 0 {
		return errors.New("curation.languages must include at least one language")
	}
	if len(c.Curation.Categories) == 0 {
		return errors.New("curation.categories must include at least one category")
	}
	if len(c.Curation.SourceTypes) == 0 {
		return errors.New("curation.source_types must include at least one source type")
	}
	found := false
	for _, lang := range c.Curation.Languages {
		if lang == c.Curation.DefaultLanguage {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("curation.default_language %q is not in curation.languages", c.Curation.DefaultLanguage)
	}
	return nil
}
