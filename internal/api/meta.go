package api

import (
	"encoding/json"

	"curator/internal/store"
)

// decodeMeta parses a metadata sidecar, tolerating a missing or malformed
// one. Submissions made out-of-band may lack sidecars entirely.
func decodeMeta(data []byte) store.Metadata {
	meta := store.Metadata{}
	if len(data) == 0 {
		return meta
	}
	_ = json.Unmarshal(data, &meta)
	return meta
}

func metaField(meta store.Metadata, key, fallback string) string {
	if value, ok := meta[key].(string); ok && value != "" {
		return value
	}
	return fallback
}
