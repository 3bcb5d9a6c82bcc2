// Package config loads, normalizes, and validates the TOML configuration that
// drives both the curator CLI and the curatord daemon.
//
// Loading resolves the config path, applies repository defaults for any value
// the file omits, expands filesystem paths, and rejects configurations that
// cannot support the curation workflow.
package config
