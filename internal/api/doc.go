// Package api exposes the curation workflow over HTTP.
//
// Routes are grouped by role: collectors submit under /api/raw, cleaners
// under /api/cleaning, chunkers under /api/chunking, and reviewers operate
// under /api/admin. Every response uses a {success, ...} envelope; failures
// carry {success: false, error: message} with a status derived from the
// error's classification. Admin routes optionally require a bearer token.
package api
