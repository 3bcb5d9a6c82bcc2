// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display names)
// are consolidated here so submission validation, API responses, and CLI
// output agree on how codes are rendered.
package language
