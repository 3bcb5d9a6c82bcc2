// Package ledger records which approved files and chunks have already
// been uploaded to the dataset hub, so repeated pushes skip work that
// previously succeeded. Entries are keyed by kind, item key, and target
// repository; a forced push bypasses the ledger but still records the
// new upload.
package ledger
