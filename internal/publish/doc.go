// Package publish pushes approved records and chunks to the dataset hub.
// A push walks the approved tree one stage at a time, uploading content and
// metadata per item; a single failed upload is counted and logged but never
// aborts the batch. Items already recorded in the publish ledger are skipped
// unless the push is forced.
package publish
