package tablestore

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Revision fingerprints one row's exact content. Pairs are hashed in
// lexicographic key order so the token does not depend on how the header
// happens to be ordered; empty cells are skipped so padding a table with a
// new blank column leaves revisions intact.
func Revision(row map[string]string) string {
	keys := make([]string, 0, len(row))
	for key, value := range row {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	hasher := sha256.New()
	for _, key := range keys {
		hasher.Write([]byte(key))
		hasher.Write([]byte{'='})
		hasher.Write([]byte(row[key]))
		hasher.Write([]byte{'\n'})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
