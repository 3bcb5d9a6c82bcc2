// Package services defines shared utilities consumed by the curation API
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp curation stage names and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP status codes.
//
// Use these helpers when wiring new handlers so operational behaviour (error
// handling, observability) stays uniform across the workflow.
package services
