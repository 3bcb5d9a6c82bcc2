// Package store implements the filesystem-backed curation store.
//
// The directory a record lives in is the source of truth for its approval
// state: data/pending/{raw,cleaned,chunked} holds items awaiting review and
// data/approved/{raw,cleaned,chunked} holds accepted items. Raw and cleaned
// stages keep a content file ({name}.txt) next to a metadata sidecar
// ({name}.meta.json); the chunked stage keeps one folder per source file with
// a JSON document per chunk.
//
// Metadata is handled as loose JSON objects so reviewer edits survive fields
// this version of the code does not know about. All metadata writes go
// through an atomic temp-file-and-rename. Approval itself moves two files
// and is not atomic; a crash between the moves leaves the content approved
// with its sidecar still pending, which the next approval of the same file
// repairs.
package store
