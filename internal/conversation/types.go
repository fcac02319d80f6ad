// Package conversation models a captured chat conversation as the host
// application returns it: a flat list of messages threaded by parent id.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// RootParentID is the parent id carried by messages that start a thread.
const RootParentID = "00000000-0000-4000-8000-000000000000"

// DefaultName is used when the host did not give the conversation a name.
const DefaultName = "Untitled Chat"

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid chat data")

	ErrMissingID       = fmt.Errorf("%w: missing uuid", ErrInvalid)
	ErrMissingMessages = fmt.Errorf("%w: missing messages", ErrInvalid)
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderHuman     Sender = "human"
	SenderAssistant Sender = "assistant"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderHuman || s == SenderAssistant
}

// Label returns the transcript label for the sender.
func (s Sender) Label() string {
	if s == SenderHuman {
		return "User"
	}
	return "Claude"
}

// Participants lists the transcript labels in display order.
func Participants() []string {
	return []string{SenderHuman.Label(), SenderAssistant.Label()}
}

// Message is a single chat message.
type Message struct {
	ID        string    `json:"uuid"`
	ParentID  string    `json:"parent_message_uuid"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
	Content   Content   `json:"content"`
}

// IsRoot reports whether the message starts a thread.
func (m Message) IsRoot() bool {
	return m.ParentID == RootParentID
}

// UnmarshalJSON decodes a message, reading an unparseable created_at as
// the zero time.
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var aux struct {
		plain
		CreatedAt json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Message(aux.plain)
	m.CreatedAt = parseTime(aux.CreatedAt)
	return nil
}

// Conversation is the full record captured from the host application.
type Conversation struct {
	ID        string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"chat_messages"`

	// StoredAt is stamped when the conversation is captured.
	StoredAt time.Time `json:"stored_at,omitempty"`
}

// UnmarshalJSON decodes a conversation. Timestamps the host sent in an
// unknown format become zero and render as "Invalid Date".
func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var aux struct {
		plain
		CreatedAt json.RawMessage `json:"created_at"`
		UpdatedAt json.RawMessage `json:"updated_at"`
		StoredAt  json.RawMessage `json:"stored_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Conversation(aux.plain)
	c.CreatedAt = parseTime(aux.CreatedAt)
	c.UpdatedAt = parseTime(aux.UpdatedAt)
	c.StoredAt = parseTime(aux.StoredAt)
	return nil
}

// DisplayName returns the name or DefaultName when unnamed.
func (c *Conversation) DisplayName() string {
	if c.Name == "" {
		return DefaultName
	}
	return c.Name
}

// Validate rejects records that cannot be stored or exported.
func (c *Conversation) Validate() error {
	if c == nil || c.ID == "" {
		return ErrMissingID
	}
	if c.Messages == nil {
		return ErrMissingMessages
	}
	return nil
}

// RankTime is the timestamp used to order conversations by recency:
// updated, else created, else capture time.
func (c *Conversation) RankTime() time.Time {
	switch {
	case !c.UpdatedAt.IsZero():
		return c.UpdatedAt
	case !c.CreatedAt.IsZero():
		return c.CreatedAt
	default:
		return c.StoredAt
	}
}

// Decode reads a conversation from JSON and validates it.
func Decode(r io.Reader) (*Conversation, error) {
	var c Conversation
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse chat data: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
