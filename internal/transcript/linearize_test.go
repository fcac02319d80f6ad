package transcript

import (
	"strings"
	"testing"
	"time"

	"clauder/internal/conversation"
)

var base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func msg(id, parent string, sender conversation.Sender, minute int, text string) conversation.Message {
	m := conversation.Message{
		ID:        id,
		ParentID:  parent,
		Sender:    sender,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
	if text != "" {
		m.Content = conversation.Content{conversation.TextBlock{Text: text}}
	}
	return m
}

const root = conversation.RootParentID

func TestLinearizeDepthFirstOrder(t *testing.T) {
	// Input order deliberately differs from chronological order.
	msgs := []conversation.Message{
		msg("C", "A", conversation.SenderAssistant, 3, "c-text"),
		msg("D", "B", conversation.SenderHuman, 4, "d-text"),
		msg("A", root, conversation.SenderHuman, 1, "a-text"),
		msg("B", "A", conversation.SenderAssistant, 2, "b-text"),
	}
	got := LinearizeIn(msgs, time.UTC)

	want := "[1] User (6/1/2024, 9:01:00 AM):\n" +
		"a-text\n\n" +
		"  [2] Claude (6/1/2024, 9:02:00 AM):\n" +
		"  b-text\n\n" +
		"    [3] User (6/1/2024, 9:04:00 AM):\n" +
		"    d-text\n\n" +
		"  [4] Claude (6/1/2024, 9:03:00 AM):\n" +
		"  c-text\n\n"
	if got != want {
		t.Errorf("LinearizeIn() =\n%s\nwant\n%s", got, want)
	}
}

func TestLinearizeSkipsEmptyMessages(t *testing.T) {
	msgs := []conversation.Message{
		msg("A", root, conversation.SenderHuman, 1, "hello"),
		msg("B", "A", conversation.SenderAssistant, 2, ""),
		msg("C", "B", conversation.SenderHuman, 3, "still here"),
		msg("D", "A", conversation.SenderAssistant, 4, "last"),
	}
	got := LinearizeIn(msgs, time.UTC)

	for _, want := range []string{"[1] User", "[2] User", "[3] Claude"} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "[4]") {
		t.Errorf("empty message consumed a number:\n%s", got)
	}
	if !strings.Contains(got, "    still here") {
		t.Errorf("reply to an empty message lost its nesting:\n%s", got)
	}
}

func TestLinearizeSkipsUnknownSenderAndBlankText(t *testing.T) {
	blank := msg("B", "A", conversation.SenderAssistant, 2, "")
	blank.Content = conversation.Content{conversation.TextBlock{Text: "   "}}
	msgs := []conversation.Message{
		msg("A", root, conversation.SenderHuman, 1, "q"),
		blank,
		msg("C", "A", conversation.Sender("system"), 3, "hidden"),
		msg("D", "A", conversation.SenderAssistant, 4, "answer"),
	}
	got := LinearizeIn(msgs, time.UTC)
	if strings.Contains(got, "hidden") {
		t.Errorf("message with unknown sender rendered:\n%s", got)
	}
	if !strings.Contains(got, "[2] Claude") || strings.Contains(got, "[3]") {
		t.Errorf("unexpected numbering:\n%s", got)
	}
}

func TestLinearizeDropsOrphans(t *testing.T) {
	msgs := []conversation.Message{
		msg("A", root, conversation.SenderHuman, 1, "kept"),
		msg("X", "missing-parent", conversation.SenderAssistant, 2, "orphan"),
		msg("Y", "X", conversation.SenderHuman, 3, "orphan child"),
	}
	got := LinearizeIn(msgs, time.UTC)
	if strings.Contains(got, "orphan") {
		t.Errorf("orphans rendered:\n%s", got)
	}
	if !strings.Contains(got, "[1] User") {
		t.Errorf("root missing:\n%s", got)
	}
}

func TestLinearizeTerminatesOnCycles(t *testing.T) {
	// The second "A" replies to B, so B is a child of its own descendant.
	msgs := []conversation.Message{
		msg("A", root, conversation.SenderHuman, 1, "a"),
		msg("B", "A", conversation.SenderAssistant, 2, "b"),
		msg("C", "B", conversation.SenderHuman, 3, "c"),
		msg("A", "B", conversation.SenderAssistant, 4, "dup-a"),
	}

	done := make(chan string, 1)
	go func() { done <- LinearizeIn(msgs, time.UTC) }()
	select {
	case got := <-done:
		if strings.Count(got, "b\n\n") != 1 {
			t.Errorf("message B rendered %d times, want once:\n%s", strings.Count(got, "b\n\n"), got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("LinearizeIn did not terminate on cyclic input")
	}
}

func TestLinearizeMultipleRootsAndIndentedLines(t *testing.T) {
	msgs := []conversation.Message{
		msg("R2", root, conversation.SenderHuman, 5, "second root"),
		msg("R1", root, conversation.SenderHuman, 1, "first root"),
		msg("A", "R1", conversation.SenderAssistant, 2, "line one\nline two"),
	}
	got := LinearizeIn(msgs, time.UTC)
	if strings.Index(got, "first root") > strings.Index(got, "second root") {
		t.Errorf("roots not in chronological order:\n%s", got)
	}
	if !strings.Contains(got, "  line one\n  line two\n\n") {
		t.Errorf("continuation lines not indented:\n%s", got)
	}
}

func TestLinearizeEmpty(t *testing.T) {
	if got := LinearizeIn(nil, time.UTC); got != "" {
		t.Errorf("LinearizeIn(nil) = %q, want empty", got)
	}
}
