// Package transcript renders a threaded conversation as plain text.
package transcript

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"clauder/internal/artifact"
	"clauder/internal/conversation"
)

const indentUnit = "  "

// Linearize renders msgs depth-first in local time. See LinearizeIn.
func Linearize(msgs []conversation.Message) string {
	return LinearizeIn(msgs, time.Local)
}

// LinearizeIn renders the message forest depth-first, starting from root
// messages and visiting children in ascending creation order. Each nesting
// level indents two spaces. Messages without a known sender or content, or
// whose narrative text is empty, are not numbered but their replies are
// still visited. Orphans never reached from a root are dropped, and each
// message is rendered at most once so cyclic parent links terminate.
func LinearizeIn(msgs []conversation.Message, loc *time.Location) string {
	w := &writer{
		msgs:     msgs,
		children: make(map[string][]int, len(msgs)),
		visited:  make([]bool, len(msgs)),
		loc:      loc,
		next:     1,
	}

	var roots []int
	for i, m := range msgs {
		if m.IsRoot() {
			roots = append(roots, i)
			continue
		}
		w.children[m.ParentID] = append(w.children[m.ParentID], i)
	}
	w.sortByTime(roots)
	for _, idx := range w.children {
		w.sortByTime(idx)
	}

	for _, r := range roots {
		w.visit(r, 0)
	}
	return w.sb.String()
}

type writer struct {
	msgs     []conversation.Message
	children map[string][]int
	visited  []bool
	loc      *time.Location
	next     int
	sb       strings.Builder
}

func (w *writer) sortByTime(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return w.msgs[idx[a]].CreatedAt.Before(w.msgs[idx[b]].CreatedAt)
	})
}

func (w *writer) visit(i, depth int) {
	if w.visited[i] {
		return
	}
	w.visited[i] = true

	m := w.msgs[i]
	w.render(m, depth)
	for _, c := range w.children[m.ID] {
		w.visit(c, depth+1)
	}
}

func (w *writer) render(m conversation.Message, depth int) {
	if len(m.Content) == 0 || !m.Sender.Valid() {
		return
	}
	text := artifact.NarrativeText(m.Content)
	if text == "" {
		return
	}

	indent := strings.Repeat(indentUnit, depth)
	fmt.Fprintf(&w.sb, "%s[%d] %s (%s):\n", indent, w.next, m.Sender.Label(), conversation.FormatTime(m.CreatedAt, w.loc))
	for n, line := range strings.Split(text, "\n") {
		if n > 0 {
			w.sb.WriteString("\n")
		}
		w.sb.WriteString(indent)
		w.sb.WriteString(line)
	}
	w.sb.WriteString("\n\n")
	w.next++
}
