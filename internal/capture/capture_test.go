package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clauder/internal/conversation"
)

const convID = "3f8a2c1e-9b4d-4e7a-8c6f-1d2e3f4a5b6c"

const treeJSON = `{
  "uuid": "` + convID + `",
  "name": "",
  "created_at": "2024-06-01T10:00:00Z",
  "updated_at": "2024-06-01T10:05:00Z",
  "chat_messages": [
    {"uuid": "m1", "sender": "human", "parent_message_uuid": "00000000-0000-4000-8000-000000000000",
     "created_at": "2024-06-01T10:00:00Z", "content": [{"type": "text", "text": "Hi"}]}
  ]
}`

type memoryStore struct {
	puts []*conversation.Conversation
}

func (s *memoryStore) Put(conv *conversation.Conversation) (*conversation.Conversation, error) {
	stored := *conv
	stored.Name = conv.DisplayName()
	s.puts = append(s.puts, &stored)
	return &stored, nil
}

func TestIsConversationRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"tree GET", Request{Method: "GET", URL: "https://claude.ai/api/organizations/o/chat_conversations/x?tree=True&rendering_mode=messages"}, true},
		{"no tree", Request{Method: "GET", URL: "https://claude.ai/api/organizations/o/chat_conversations/x"}, false},
		{"lower-case tree", Request{Method: "GET", URL: "https://claude.ai/api/organizations/o/chat_conversations/x?tree=true"}, false},
		{"POST", Request{Method: "POST", URL: "https://claude.ai/api/organizations/o/chat_conversations/x?tree=True"}, false},
		{"other endpoint", Request{Method: "GET", URL: "https://claude.ai/api/organizations/o/projects?tree=True"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConversationRequest(tt.req); got != tt.want {
				t.Errorf("IsConversationRequest(%s %s) = %v, want %v", tt.req.Method, tt.req.URL, got, tt.want)
			}
		})
	}
}

func TestForwardHeaders(t *testing.T) {
	in := http.Header{}
	in.Set("Host", "claude.ai")
	in.Set("Content-Length", "0")
	in.Set("Connection", "keep-alive")
	in.Set("Cookie", "sessionKey=abc")
	in.Set("Anthropic-Client-Platform", "web_claude_ai")

	out := ForwardHeaders(in)
	for _, h := range []string{"Host", "Content-Length", "Connection"} {
		if out.Get(h) != "" {
			t.Errorf("header %s forwarded", h)
		}
	}
	if out.Get("Cookie") != "sessionKey=abc" || out.Get("Anthropic-Client-Platform") != "web_claude_ai" {
		t.Errorf("headers not copied: %v", out)
	}
	if !IsOwnRequest(out) {
		t.Error("forwarded headers lack the own-request marker")
	}
	if in.Get("Host") == "" || IsOwnRequest(in) {
		t.Error("ForwardHeaders modified its input")
	}
	if !IsOwnRequest(ForwardHeaders(nil)) {
		t.Error("ForwardHeaders(nil) lacks the marker")
	}
}

func TestConversationIDFromPage(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://claude.ai/chat/" + convID, convID, false},
		{"https://claude.ai/chat/" + convID + "/", convID, false},
		{"https://claude.ai/chat/" + convID + "?foo=bar", convID, false},
		{"https://claude.ai/new", "", true},
		{"https://claude.ai/chat/not-a-uuid", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ConversationIDFromPage(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConversationIDFromPage(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ConversationIDFromPage(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"uuid", convID, convID, false},
		{"bare non-uuid id", "c1", "c1", false},
		{"surrounding space", "  c1\n", "c1", false},
		{"chat page url", "https://claude.ai/chat/" + convID, convID, false},
		{"chat page url without uuid", "https://claude.ai/chat/c1", "", true},
		{"other page url", "https://claude.ai/settings", "", true},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveID(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestObserveCapturesTree(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(treeJSON))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", "sessionKey=abc")
	header.Set("Connection", "keep-alive")

	store := &memoryStore{}
	c := NewCapturer(NewClient(5*time.Second, "clauder-test/1.0"), store)
	conv, err := c.Observe(context.Background(), Request{
		Method: "GET",
		URL:    srv.URL + "/api/organizations/o/chat_conversations/" + convID + "?tree=True",
		Header: header,
	})
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if conv == nil || conv.ID != convID || conv.Name != conversation.DefaultName {
		t.Fatalf("Observe() = %+v", conv)
	}
	if len(store.puts) != 1 || len(store.puts[0].Messages) != 1 {
		t.Fatalf("store received %d conversations", len(store.puts))
	}
	if got.Get(OwnRequestHeader) != "true" {
		t.Error("re-fetch lacks the own-request marker")
	}
	if got.Get("Cookie") != "sessionKey=abc" {
		t.Errorf("Cookie = %q, want forwarded", got.Get("Cookie"))
	}
	if got.Get("User-Agent") != "clauder-test/1.0" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
}

func TestObserveIgnoresOtherRequests(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(treeJSON))
	}))
	defer srv.Close()

	own := http.Header{}
	own.Set(OwnRequestHeader, "true")
	tree := srv.URL + "/api/chat_conversations/x?tree=True"

	store := &memoryStore{}
	c := NewCapturer(NewClient(time.Second, ""), store)
	for _, r := range []Request{
		{Method: "GET", URL: tree, Header: own},
		{Method: "GET", URL: srv.URL + "/api/chat_conversations/x"},
		{Method: "PUT", URL: tree},
	} {
		conv, err := c.Observe(context.Background(), r)
		if conv != nil || err != nil {
			t.Errorf("Observe(%s %s) = %v, %v; want ignored", r.Method, r.URL, conv, err)
		}
	}
	if calls != 0 || len(store.puts) != 0 {
		t.Errorf("ignored requests caused %d fetches and %d stores", calls, len(store.puts))
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantErr error
	}{
		{"forbidden", http.StatusForbidden, "denied", "status 403", nil},
		{"bad json", http.StatusOK, "{", "failed to parse chat data", nil},
		{"missing messages", http.StatusOK, `{"uuid":"x"}`, "", conversation.ErrMissingMessages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(time.Second, "").Fetch(context.Background(), srv.URL, nil)
			if err == nil {
				t.Fatal("Fetch() succeeded, want error")
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Fetch() error = %v, want it to mention %q", err, tt.wantMsg)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
