package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// KeyPrefix namespaces retained conversations in the store.
const KeyPrefix = "chat_"

// DefaultMaxConversations is the retention bound.
const DefaultMaxConversations = 20

// Backend kinds accepted by NewBackend.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// ErrNotFound is returned when no conversation is retained under an id.
var ErrNotFound = errors.New("conversation not found")

// Key returns the store key of a conversation id.
func Key(id string) string {
	return KeyPrefix + id
}

// IsConversationKey reports whether key holds a retained conversation.
func IsConversationKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefix) && len(key) > len(KeyPrefix)
}

// Backend persists a snapshot of the key-value store. Values are JSON
// documents; keys the manager does not own are passed through untouched.
type Backend interface {
	Load() (map[string]json.RawMessage, error)
	Save(entries map[string]json.RawMessage) error
}

// NewBackend returns the backend of the given kind stored at path.
func NewBackend(kind, path string) (Backend, error) {
	switch kind {
	case "", BackendJSON:
		return NewFileBackend(path), nil
	case BackendBolt:
		return NewBoltBackend(path), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
