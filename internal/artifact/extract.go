// Package artifact extracts named artifacts from message content and
// classifies them by declared type.
package artifact

import (
	"fmt"

	"clauder/internal/conversation"
)

// SyntheticPrefix prefixes ids assigned to artifacts that carry none.
const SyntheticPrefix = "artifact_"

// UntitledTitle is used when an artifact has no title.
const UntitledTitle = "untitled"

// Artifact is one extracted artifact version.
type Artifact struct {
	ID       string
	Title    string
	Type     string
	Language string
	Ext      string
	Content  string
}

// Set is an insertion-ordered collection of artifacts keyed by id.
// Replacing an existing id keeps its original position.
type Set struct {
	order []string
	byID  map[string]Artifact
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byID: make(map[string]Artifact)}
}

// Put inserts or replaces the artifact under its id.
func (s *Set) Put(a Artifact) {
	if _, ok := s.byID[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.byID[a.ID] = a
}

// Merge puts every artifact of other into s, in other's order.
func (s *Set) Merge(other *Set) {
	for _, a := range other.All() {
		s.Put(a)
	}
}

// Get returns the artifact stored under id.
func (s *Set) Get(id string) (Artifact, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Len returns the number of distinct artifacts.
func (s *Set) Len() int {
	return len(s.order)
}

// All returns the artifacts in insertion order.
func (s *Set) All() []Artifact {
	out := make([]Artifact, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Extract collects the artifacts emitted by blocks. Later blocks with the
// same id replace earlier ones. Id-less artifacts get SyntheticPrefix plus
// a counter local to this call.
func Extract(blocks conversation.Content) *Set {
	return ExtractWithPrefix(blocks, SyntheticPrefix)
}

// ExtractWithPrefix is Extract with a caller-chosen prefix for synthetic ids.
func ExtractWithPrefix(blocks conversation.Content, prefix string) *Set {
	set := NewSet()
	counter := 0
	for _, b := range blocks {
		tool, ok := b.(conversation.ToolUseBlock)
		if !ok {
			continue
		}
		in, ok := tool.Artifact()
		if !ok || !in.Command.EmitsContent() || in.Content == "" {
			continue
		}

		id := in.ID
		if id == "" {
			id = fmt.Sprintf("%s%d", prefix, counter)
			counter++
		}
		title := in.Title
		if title == "" {
			title = UntitledTitle
		}
		declared := in.Type
		if declared == "" {
			declared = TypePlain
		}
		kind := Classify(in.Type, in.Language)

		set.Put(Artifact{
			ID:       id,
			Title:    title,
			Type:     declared,
			Language: kind.Language,
			Ext:      kind.Extension,
			Content:  in.Content,
		})
	}
	return set
}
