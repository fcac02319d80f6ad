package history

import (
	"testing"

	"clauder/internal/conversation"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{"*python*", "Learning Python basics", true},
		{"*python*", "Go concurrency", false},
		{"go ?oncurrency", "Go Concurrency", true},
		{"untitled*", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			c := &conversation.Conversation{Name: tt.name}
			if got := MatchName(tt.pattern)(c); got != tt.want {
				t.Errorf("MatchName(%q)(%q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	convs := []*conversation.Conversation{
		{ID: "1", Name: "alpha report"},
		{ID: "2", Name: "beta"},
		{ID: "3", Name: "gamma report"},
	}
	got := Select(convs, MatchName("*report"))
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Select() = %v", got)
	}
}
