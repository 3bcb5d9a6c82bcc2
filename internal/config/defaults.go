package config

const (
	defaultDataDir           = "~/.local/share/curator/data"
	defaultLogDir            = "~/.local/share/curator/logs"
	defaultAPIBind           = "127.0.0.1:8747"
	defaultHubBaseURL        = "https://huggingface.co"
	defaultHubRawRepo        = "mozhii/mozhii-raw-data"
	defaultHubCleanedRepo    = "mozhii/mozhii-cleaned-data"
	defaultHubChunkedRepo    = "mozhii/mozhii-chunked-data"
	defaultHubRequestTimeout = 60
	defaultLanguage          = "ta"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

func defaultLanguages() []string {
	return []string{"ta", "en", "hi", "te", "ml", "kn"}
}

func defaultCategories() []string {
	return []string{
		"education", "literature", "news", "science", "history", "culture",
		"technology", "health", "legal", "government", "religion", "other",
	}
}

func defaultSourceTypes() []string {
	return []string{
		"gov_textbook", "wikipedia", "news_article", "blog", "book",
		"research_paper", "manual_entry", "other",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Hub: Hub{
			BaseURL:        defaultHubBaseURL,
			RawRepo:        defaultHubRawRepo,
			CleanedRepo:    defaultHubCleanedRepo,
			ChunkedRepo:    defaultHubChunkedRepo,
			RequestTimeout: defaultHubRequestTimeout,
		},
		Curation: Curation{
			Languages:       defaultLanguages(),
			DefaultLanguage: defaultLanguage,
			Categories:      defaultCategories(),
			SourceTypes:     defaultSourceTypes(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
