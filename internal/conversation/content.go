package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BlockType is the tag of a content block.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockToolUse BlockType = "tool_use"
)

// ArtifactsTool is the tool name the host uses to emit artifacts.
const ArtifactsTool = "artifacts"

// Block is one element of a message's content. Concrete types are
// TextBlock, ToolUseBlock and UnknownBlock.
type Block interface {
	Type() BlockType
}

// TextBlock is plain narrative text.
type TextBlock struct {
	Text string
}

func (TextBlock) Type() BlockType { return BlockText }

func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		Text string    `json:"text"`
	}{BlockText, b.Text})
}

// ToolUseBlock is a tool invocation. Input is kept verbatim so that
// malformed inputs survive a store round trip and are only skipped at
// extraction time.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input json.RawMessage
}

func (ToolUseBlock) Type() BlockType { return BlockToolUse }

func (b ToolUseBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  BlockType       `json:"type"`
		ID    string          `json:"id,omitempty"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input,omitempty"`
	}{BlockToolUse, b.ID, b.Name, b.Input})
}

// IsArtifact reports whether the block targets the artifacts tool.
func (b ToolUseBlock) IsArtifact() bool {
	return b.Name == ArtifactsTool
}

// Artifact decodes the artifacts tool input. ok is false for other tools
// and for inputs that are missing or not an object.
func (b ToolUseBlock) Artifact() (in ArtifactInput, ok bool) {
	if !b.IsArtifact() || len(b.Input) == 0 {
		return ArtifactInput{}, false
	}
	if err := json.Unmarshal(b.Input, &in); err != nil {
		return ArtifactInput{}, false
	}
	return in, true
}

// UnknownBlock holds a block with an unrecognized tag. It is preserved for
// storage and ignored everywhere else.
type UnknownBlock struct {
	Kind string
	Raw  json.RawMessage
}

func (b UnknownBlock) Type() BlockType { return BlockType(b.Kind) }

func (b UnknownBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

// ArtifactCommand is the operation requested of the artifacts tool.
type ArtifactCommand string

const (
	CommandCreate  ArtifactCommand = "create"
	CommandUpdate  ArtifactCommand = "update"
	CommandRewrite ArtifactCommand = "rewrite"
)

// EmitsContent reports whether the command produces an artifact version.
func (c ArtifactCommand) EmitsContent() bool {
	return c == CommandCreate || c == CommandUpdate
}

// ArtifactInput is the input object of an artifacts tool invocation.
type ArtifactInput struct {
	Command  ArtifactCommand `json:"command"`
	ID       string          `json:"id,omitempty"`
	Title    string          `json:"title,omitempty"`
	Type     string          `json:"type,omitempty"`
	Language string          `json:"language,omitempty"`
	Content  string          `json:"content,omitempty"`
}

// Content is the ordered block list of a message.
type Content []Block

// UnmarshalJSON decodes each element by its "type" tag. Elements that are
// not objects or carry an unknown tag become UnknownBlock.
func (c *Content) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("content is not an array: %w", err)
	}
	blocks := make(Content, 0, len(raws))
	for _, raw := range raws {
		blocks = append(blocks, decodeBlock(raw))
	}
	*c = blocks
	return nil
}

func decodeBlock(raw json.RawMessage) Block {
	var head struct {
		Type  string          `json:"type"`
		Text  string          `json:"text"`
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return UnknownBlock{Raw: raw}
	}
	switch BlockType(head.Type) {
	case BlockText:
		return TextBlock{Text: head.Text}
	case BlockToolUse:
		input := head.Input
		if bytes.Equal(bytes.TrimSpace(input), []byte("null")) {
			input = nil
		}
		return ToolUseBlock{ID: head.ID, Name: head.Name, Input: input}
	default:
		return UnknownBlock{Kind: head.Type, Raw: raw}
	}
}
