// Package hub is a minimal client for a HuggingFace-style dataset hub.
//
// The curation workflow only needs three operations against a dataset
// repository: upload a file, list the files present, and download one back.
// Everything else (branches, discussions, large-file plumbing) is out of
// scope, so the client stays a thin wrapper over the hub's HTTP API.
package hub
