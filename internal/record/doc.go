// Package record defines the curation domain model: the metadata records that
// accompany raw and cleaned text files, the chunk objects produced for
// retrieval datasets, and the validation rules applied on submission.
package record
