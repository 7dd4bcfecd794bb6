// Package store persists CV profiles, job postings, match results and
// application records. Two implementations share the same surface: an
// in-memory store for tests and a SQLite store for the CLI.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newID returns a fresh identifier with a resource prefix, e.g. "cv-1a2b3c4d".
func newID(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("store: read random id: %v", err))
	}
	return prefix + "-" + hex.EncodeToString(buf)
}
