package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"clauder/internal/conversation"
)

// OwnRequestHeader marks requests issued by this tool so they are never
// captured twice.
const OwnRequestHeader = "X-Clauder-Request"

// ChatPagePrefix is the path of a conversation page in the host application.
const ChatPagePrefix = "/chat/"

// Request is an outgoing host-application request as observed before send.
type Request struct {
	Method string
	URL    string
	Header http.Header
}

// IsOwnRequest reports whether h carries the marker of this tool.
func IsOwnRequest(h http.Header) bool {
	return h.Get(OwnRequestHeader) == "true"
}

// IsConversationRequest reports whether r loads a full conversation tree.
func IsConversationRequest(r Request) bool {
	return r.Method == http.MethodGet &&
		strings.Contains(r.URL, "chat_conversations") &&
		strings.Contains(r.URL, "tree=True")
}

// droppedHeaders are connection-specific and must not be replayed.
var droppedHeaders = []string{"Host", "Content-Length", "Connection"}

// ForwardHeaders copies h for a re-fetch, dropping connection-specific
// headers and adding the own-request marker.
func ForwardHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		out = http.Header{}
	}
	for _, name := range droppedHeaders {
		out.Del(name)
	}
	out.Set(OwnRequestHeader, "true")
	return out
}

// ConversationIDFromPage extracts the conversation id from a chat page URL
// such as https://claude.ai/chat/<uuid>.
func ConversationIDFromPage(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}
	if !strings.HasPrefix(u.Path, ChatPagePrefix) {
		return "", fmt.Errorf("not a chat page: %s", pageURL)
	}
	id := strings.Trim(strings.TrimPrefix(u.Path, ChatPagePrefix), "/")
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid conversation id %q: %w", id, err)
	}
	return id, nil
}

// ResolveID accepts either a bare conversation id or a chat page URL.
// Only page URLs must carry a UUID; bare ids are looked up as given.
func ResolveID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "://") {
		return ConversationIDFromPage(ref)
	}
	if ref == "" {
		return "", errors.New("empty conversation id")
	}
	return ref, nil
}

// Store receives captured conversations.
type Store interface {
	Put(conv *conversation.Conversation) (*conversation.Conversation, error)
}

// Capturer watches host requests and stores the conversations they load.
type Capturer struct {
	client *Client
	store  Store
}

// NewCapturer creates a Capturer fetching with client and storing in store.
func NewCapturer(client *Client, store Store) *Capturer {
	return &Capturer{client: client, store: store}
}

// Observe handles one host request. Requests that are the tool's own or do
// not load a conversation tree are ignored and return nil. Otherwise the
// tree is re-fetched with the request's headers and stored.
func (c *Capturer) Observe(ctx context.Context, r Request) (*conversation.Conversation, error) {
	if IsOwnRequest(r.Header) || !IsConversationRequest(r) {
		return nil, nil
	}

	conv, err := c.client.Fetch(ctx, r.URL, r.Header)
	if err != nil {
		return nil, err
	}

	stored, err := c.store.Put(conv)
	if err != nil {
		return nil, fmt.Errorf("failed to store conversation %s: %w", conv.ID, err)
	}
	return stored, nil
}
