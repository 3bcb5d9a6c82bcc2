package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Hub.Token = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIToken sets the admin bearer token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithHub points the hub section at a test server.
func WithHub(baseURL, token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Hub.BaseURL = baseURL
		b.cfg.Hub.Token = token
	}
}

// WithLanguages overrides the accepted language codes.
func WithLanguages(defaultLanguage string, languages ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Curation.DefaultLanguage = defaultLanguage
		b.cfg.Curation.Languages = languages
	}
}
