package ingest

import (
	"crypto/sha1"
	"encoding/hex"
)

// StableID derives a deterministic identifier for an entity that carries no
// source-native id: a SHA-1 digest of the canonical name, prefixed with the
// entity kind ("assignee", "inventor"). The hash is for deduplication across
// runs, not for security; the same trimmed name must always map to the same
// id so re-ingestion merges instead of duplicating.
func StableID(kind, value string) string {
	sum := sha1.Sum([]byte(value))
	return kind + "_" + hex.EncodeToString(sum[:])
}
