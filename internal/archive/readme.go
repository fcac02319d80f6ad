package archive

import (
	"fmt"
	"strings"
	"time"

	"clauder/internal/conversation"
)

func renderReadme(meta Metadata, conv *conversation.Conversation, exportedAt time.Time, loc *time.Location) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", meta.ChatName)

	sb.WriteString("## Chat Information\n")
	fmt.Fprintf(&sb, "- ID: %s\n", meta.ChatID)
	fmt.Fprintf(&sb, "- Created: %s\n", conversation.FormatTime(conv.CreatedAt, loc))
	fmt.Fprintf(&sb, "- Updated: %s\n", conversation.FormatTime(conv.UpdatedAt, loc))
	fmt.Fprintf(&sb, "- Exported: %s\n\n", conversation.FormatTime(exportedAt, loc))

	sb.WriteString("## Contents\n")
	fmt.Fprintf(&sb, "- Messages: %d\n", meta.MessageCount)
	fmt.Fprintf(&sb, "- Artifacts: %d\n\n", meta.ArtifactCount)

	sb.WriteString("## Structure\n")
	sb.WriteString("- /messages/ - Contains the full conversation history\n")
	sb.WriteString("- /artifacts/ - Contains all code artifacts (if any)\n")
	fmt.Fprintf(&sb, "- %s - Metadata about this chat\n", InfoPath)
	fmt.Fprintf(&sb, "- %s - This file\n\n", ReadmePath)

	fmt.Fprintf(&sb, "Exported using %s v%s\n", Source, meta.ExportVersion)
	return sb.String()
}
