package bucket

import (
	"github.com/google/uuid"
)

// KeySeparator joins a key prefix and its identifier
const KeySeparator = "::"

// NewDocumentKey returns a random document key, optionally namespaced by
// prefix, e.g. "user::0b5c...".
func NewDocumentKey(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + KeySeparator + id
}
