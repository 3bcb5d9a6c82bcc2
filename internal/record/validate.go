package record

import (
	"fmt"
	"strings"
)

const (
	minFilenameLength  = 3
	minRawContentRunes = 50
	minChunkTextRunes  = 20
)

// Vocabulary holds the controlled value sets applied during submission
// validation. Zero-value sets accept nothing, so callers build one from
// configuration.
type Vocabulary struct {
	languages   map[string]struct{}
	categories  map[string]struct{}
	sourceTypes map[string]struct{}
	defaultLang string

	languageList   []string
	categoryList   []string
	sourceTypeList []string
}

// NewVocabulary builds a Vocabulary from configured value lists.
func NewVocabulary(languages []string, defaultLanguage string, categories, sourceTypes []string) Vocabulary {
	v := Vocabulary{
		languages:      make(map[string]struct{}, len(languages)),
		categories:     make(map[string]struct{}, len(categories)),
		sourceTypes:    make(map[string]struct{}, len(sourceTypes)),
		defaultLang:    strings.ToLower(strings.TrimSpace(defaultLanguage)),
		languageList:   append([]string(nil), languages...),
		categoryList:   append([]string(nil), categories...),
		sourceTypeList: append([]string(nil), sourceTypes...),
	}
	for _, lang := range languages {
		v.languages[strings.ToLower(strings.TrimSpace(lang))] = struct{}{}
	}
	for _, cat := range categories {
		v.categories[strings.ToLower(strings.TrimSpace(cat))] = struct{}{}
	}
	for _, st := range sourceTypes {
		v.sourceTypes[strings.ToLower(strings.TrimSpace(st))] = struct{}{}
	}
	return v
}

// Languages returns the configured language codes.
func (v Vocabulary) Languages() []string { return append([]string(nil), v.languageList...) }

// Categories returns the configured category names.
func (v Vocabulary) Categories() []string { return append([]string(nil), v.categoryList...) }

// SourceTypes returns the configured source type names.
func (v Vocabulary) SourceTypes() []string { return append([]string(nil), v.sourceTypeList...) }

// DefaultLanguage returns the language applied when a submission omits one.
func (v Vocabulary) DefaultLanguage() string { return v.defaultLang }

// ValidateLanguage checks a language code against the configured set.
func (v Vocabulary) ValidateLanguage(language string) error {
	normalized := strings.ToLower(strings.TrimSpace(language))
	if normalized == "" {
		return fmt.Errorf("language is required")
	}
	if _, ok := v.languages[normalized]; !ok {
		return fmt.Errorf("unsupported language %q", language)
	}
	return nil
}

// ValidateCategory checks a category against the configured set.
func (v Vocabulary) ValidateCategory(category string) error {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return fmt.Errorf("category is required")
	}
	if _, ok := v.categories[normalized]; !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}

// NormalizeSourceType lowercases a source type and substitutes "unknown"
// when the submission omits one. Unlisted values pass through so older
// submissions keep their original source labels.
func (v Vocabulary) NormalizeSourceType(source string) string {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

// ValidateSourceType checks a source type against the configured set.
func (v Vocabulary) ValidateSourceType(source string) error {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if normalized == "" {
		return fmt.Errorf("source is required")
	}
	if _, ok := v.sourceTypes[normalized]; !ok {
		return fmt.Errorf("unknown source type %q", source)
	}
	return nil
}

// ValidateFilename enforces the identifier charset shared by all stages.
// Filenames become directory and repository path segments, so only
// alphanumerics, underscores, and hyphens are allowed.
func ValidateFilename(filename string) error {
	trimmed := strings.TrimSpace(filename)
	if len(trimmed) < minFilenameLength {
		return fmt.Errorf("filename must be at least %d characters", minFilenameLength)
	}
	stripped := strings.NewReplacer("_", "", "-", "").Replace(trimmed)
	if stripped == "" {
		return fmt.Errorf("filename must contain alphanumeric characters")
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			continue
		}
		return fmt.Errorf("filename contains invalid character %q", r)
	}
	return nil
}

// ValidateRawContent enforces the minimum length for raw and cleaned text.
func ValidateRawContent(content string) error {
	if len([]rune(strings.TrimSpace(content))) < minRawContentRunes {
		return fmt.Errorf("content must be at least %d characters", minRawContentRunes)
	}
	return nil
}

// ValidateChunkText enforces the minimum length for a chunk passage.
func ValidateChunkText(text string) error {
	if len([]rune(strings.TrimSpace(text))) < minChunkTextRunes {
		return fmt.Errorf("chunk text must be at least %d characters", minChunkTextRunes)
	}
	return nil
}

// ValidateChunkIndex rejects non-positive chunk indices.
func ValidateChunkIndex(index int) error {
	if index < 1 {
		return fmt.Errorf("chunk_index must be 1 or greater")
	}
	return nil
}
