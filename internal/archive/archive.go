// Package archive assembles the downloadable export of a conversation:
// metadata, README, linearized transcript and one file per artifact.
package archive

import (
	"fmt"
)

// Logical paths inside an archive.
const (
	InfoPath               = "chat-info.json"
	ReadmePath             = "README.md"
	TranscriptPath         = "messages/conversation.txt"
	TranscriptMetadataPath = "messages/metadata.json"
	ArtifactsDir           = "artifacts/"
	ArtifactIndexPath      = ArtifactsDir + "metadata.json"
)

// Export format constants recorded in chat-info.json.
const (
	FormatVersion = "1.0"
	Source        = "Clauder"
)

// Metadata is the chat-info.json record.
type Metadata struct {
	ExportID      string `json:"export_id"`
	ChatID        string `json:"chat_id"`
	ChatName      string `json:"chat_name"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	ExportedAt    string `json:"exported_at"`
	MessageCount  int    `json:"message_count"`
	ArtifactCount int    `json:"artifact_count"`
	ExportVersion string `json:"export_version"`
	Source        string `json:"source"`
}

// TranscriptMetadata is the messages/metadata.json record.
type TranscriptMetadata struct {
	TotalMessages  int      `json:"total_messages"`
	Participants   []string `json:"participants"`
	ExportedFormat string   `json:"exported_format"`
	Encoding       string   `json:"encoding"`
}

// IndexEntry maps an artifact file back to its origin.
type IndexEntry struct {
	Filename      string `json:"filename"`
	ID            string `json:"id"`
	OriginalTitle string `json:"original_title"`
	Type          string `json:"type"`
	Language      string `json:"language"`
	SizeBytes     int    `json:"size_bytes"`
	Preview       string `json:"preview,omitempty"`
}

// ArtifactIndex is the artifacts/metadata.json record.
type ArtifactIndex struct {
	TotalArtifacts int          `json:"total_artifacts"`
	Artifacts      []IndexEntry `json:"artifacts"`
}

// File is one entry of the archive.
type File struct {
	Path string
	Data []byte
}

// Archive is an assembled export, ready to be packaged.
type Archive struct {
	Filename string
	Metadata Metadata
	Index    []IndexEntry
	Files    []File
}

// Lookup returns the contents stored at path.
func (a *Archive) Lookup(path string) ([]byte, bool) {
	for _, f := range a.Files {
		if f.Path == path {
			return f.Data, true
		}
	}
	return nil, false
}

// Paths lists the archive entries in layout order.
func (a *Archive) Paths() []string {
	paths := make([]string, len(a.Files))
	for i, f := range a.Files {
		paths[i] = f.Path
	}
	return paths
}

// AssemblyError reports why an archive could not be built. No partial
// archive accompanies it.
type AssemblyError struct {
	ConversationID string
	Step           string
	Err            error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble archive for %s: %s: %v", e.ConversationID, e.Step, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
