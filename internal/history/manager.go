package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"clauder/internal/conversation"
)

// Manager keeps the most recently captured conversations, bounded to a
// fixed number of entries, and persists them through a Backend.
type Manager struct {
	backend Backend
	mu      sync.RWMutex
	entries map[string]*conversation.Conversation
	foreign map[string]json.RawMessage
	max     int
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the source of capture timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a retention manager over backend. A non-positive max
// uses DefaultMaxConversations.
func NewManager(backend Backend, max int, opts ...Option) *Manager {
	if max < 1 {
		max = DefaultMaxConversations
	}
	m := &Manager{
		backend: backend,
		entries: map[string]*conversation.Conversation{},
		foreign: map[string]json.RawMessage{},
		max:     max,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a manager for the given backend kind and loads it.
func Open(kind, path string, max int, opts ...Option) (*Manager, error) {
	backend, err := NewBackend(kind, path)
	if err != nil {
		return nil, err
	}
	m := NewManager(backend, max, opts...)
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the store. Entries that do not decode into a valid
// conversation are skipped.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}

	m.entries = map[string]*conversation.Conversation{}
	m.foreign = map[string]json.RawMessage{}
	for key, value := range raw {
		if !IsConversationKey(key) {
			m.foreign[key] = value
			continue
		}
		conv, err := conversation.Decode(bytes.NewReader(value))
		if err != nil {
			continue
		}
		m.entries[key] = conv
	}
	return nil
}

// Put normalises and stores conv, then evicts everything outside the
// newest max conversations. The stored record is returned.
func (m *Manager) Put(conv *conversation.Conversation) (*conversation.Conversation, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}

	stored := *conv
	stored.Name = conv.DisplayName()
	stored.StoredAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(stored.ID)
	prev, had := m.entries[key]
	m.entries[key] = &stored
	evicted := map[string]*conversation.Conversation{}
	for _, k := range Evict(m.entries, m.max) {
		evicted[k] = m.entries[k]
		delete(m.entries, k)
	}

	if err := m.saveUnlocked(); err != nil {
		// Memory must keep matching what the backend last saved.
		for k, c := range evicted {
			m.entries[k] = c
		}
		if had {
			m.entries[key] = prev
		} else {
			delete(m.entries, key)
		}
		return nil, err
	}
	return &stored, nil
}

// Get returns the conversation retained under id.
func (m *Manager) Get(id string) (*conversation.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.entries[Key(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return conv, nil
}

// List returns the retained conversations, newest first.
func (m *Manager) List() []*conversation.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := Rank(m.entries)
	out := make([]*conversation.Conversation, len(keys))
	for i, key := range keys {
		out[i] = m.entries[key]
	}
	return out
}

// Delete removes the conversation retained under id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(id)
	if _, ok := m.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := m.entries[key]
	delete(m.entries, key)
	if err := m.saveUnlocked(); err != nil {
		m.entries[key] = prev
		return err
	}
	return nil
}

// Len returns the number of retained conversations.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// saveUnlocked writes the snapshot (must be called with lock held)
func (m *Manager) saveUnlocked() error {
	snapshot := make(map[string]json.RawMessage, len(m.entries)+len(m.foreign))
	for key, value := range m.foreign {
		snapshot[key] = value
	}
	for key, conv := range m.entries {
		data, err := json.Marshal(conv)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		snapshot[key] = data
	}
	if err := m.backend.Save(snapshot); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}
	return nil
}

// Rank orders the keys of entries newest first by RankTime, breaking ties
// by capture time (newest first) and then by key.
func Rank(entries map[string]*conversation.Conversation) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := entries[keys[i]], entries[keys[j]]
		if ta, tb := a.RankTime(), b.RankTime(); !ta.Equal(tb) {
			return ta.After(tb)
		}
		if !a.StoredAt.Equal(b.StoredAt) {
			return a.StoredAt.After(b.StoredAt)
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Evict returns the keys ranked below the newest max entries.
func Evict(entries map[string]*conversation.Conversation, max int) []string {
	keys := Rank(entries)
	if len(keys) <= max {
		return nil
	}
	return keys[max:]
}
