package artifact

import (
	"strings"

	"clauder/internal/conversation"
)

// NarrativeText returns the readable text of a message. Artifact bodies are
// replaced by a reference line naming the artifact.
func NarrativeText(blocks conversation.Content) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch block := b.(type) {
		case conversation.TextBlock:
			if block.Text == "" {
				continue
			}
			sb.WriteString(block.Text)
			sb.WriteString("\n")
		case conversation.ToolUseBlock:
			if !block.IsArtifact() {
				continue
			}
			in, ok := block.Artifact()
			if !ok || in.Title == "" {
				continue
			}
			sb.WriteString("\n[Artifact: ")
			sb.WriteString(in.Title)
			sb.WriteString("]\n")
		case conversation.UnknownBlock:
			// not part of the narrative
		}
	}
	return strings.TrimSpace(sb.String())
}
