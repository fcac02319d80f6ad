package history

import (
	"strings"

	"github.com/gobwas/glob"

	"clauder/internal/conversation"
)

// Filter selects conversations by display name.
type Filter func(*conversation.Conversation) bool

// MatchName builds a case-insensitive glob filter over display names. An
// empty pattern matches everything; a pattern that is not a valid glob
// falls back to exact matching.
func MatchName(pattern string) Filter {
	if pattern == "" {
		return func(*conversation.Conversation) bool { return true }
	}
	pattern = strings.ToLower(pattern)
	g, err := glob.Compile(pattern)
	if err != nil {
		return func(c *conversation.Conversation) bool {
			return strings.ToLower(c.DisplayName()) == pattern
		}
	}
	return func(c *conversation.Conversation) bool {
		return g.Match(strings.ToLower(c.DisplayName()))
	}
}

// Select returns the conversations accepted by keep, preserving order.
func Select(convs []*conversation.Conversation, keep Filter) []*conversation.Conversation {
	var out []*conversation.Conversation
	for _, c := range convs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
