package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"clauder/internal/conversation"
	"clauder/internal/exporter"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		outcome exporter.Outcome
		want    string
	}{
		{
			name:    "success",
			outcome: exporter.Outcome{Kind: exporter.KindSuccess, Message: "Archive created with 2 messages!", Path: "out/c1.zip"},
			want:    "✓ Archive created with 2 messages! → out/c1.zip\n",
		},
		{
			name:    "error",
			outcome: exporter.Outcome{Kind: exporter.KindError, Message: exporter.MsgNoData},
			want:    "✗ No chat data found. Try refreshing the page.\n",
		},
		{
			name:    "info hidden",
			outcome: exporter.Outcome{Kind: exporter.KindInfo, Message: exporter.MsgCreating},
			want:    "",
		},
		{
			name:    "info verbose",
			verbose: true,
			outcome: exporter.Outcome{ConversationID: "3f8a2c1e-9b4d", Kind: exporter.KindInfo, Message: exporter.MsgCreating},
			want:    "· [3f8a2c1e] Creating archive...\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewDisplay(&buf, false, tt.verbose, 80).Report(tt.outcome)
			if got := buf.String(); got != tt.want {
				t.Errorf("Report() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColourOnlyWhenEnabled(t *testing.T) {
	var plain, coloured bytes.Buffer
	NewDisplay(&plain, false, false, 80).PrintError(errors.New("boom"))
	NewDisplay(&coloured, true, false, 80).PrintError(errors.New("boom"))

	if strings.Contains(plain.String(), "\033[") {
		t.Errorf("plain output contains escape codes: %q", plain.String())
	}
	if !strings.HasPrefix(coloured.String(), colorRed) {
		t.Errorf("coloured output %q lacks colour", coloured.String())
	}
}

func TestPrintConversations(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf, false, false, 80)
	d.PrintConversations([]*conversation.Conversation{
		{ID: "c1", Name: "Go concurrency", Messages: make([]conversation.Message, 4)},
		{ID: "c2", Messages: []conversation.Message{}},
	})
	want := " 1. Go concurrency  c1 · 4 messages\n 2. Untitled Chat  c2 · 0 messages\n"
	if buf.String() != want {
		t.Errorf("PrintConversations() wrote %q, want %q", buf.String(), want)
	}

	buf.Reset()
	d.PrintConversations(nil)
	if !strings.Contains(buf.String(), "No conversations") {
		t.Errorf("empty listing = %q", buf.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	NewDisplay(&buf, false, false, 80).RenderMarkdown("# Solver\n\n- Messages: 2\n")
	out := buf.String()
	for _, s := range []string{"Solver", "Messages: 2"} {
		if !strings.Contains(out, s) {
			t.Errorf("rendered output %q lacks %q", out, s)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a rather long title", 10, "a rathe..."},
		{"ünïcödé title", 6, "ünï..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
