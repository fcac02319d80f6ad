package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clauder/internal/artifact"
	"clauder/internal/conversation"
	"clauder/internal/transcript"
)

// isoLayout matches the millisecond ISO-8601 form browsers emit.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Assembler builds archives. The zero value is not usable; use NewAssembler.
type Assembler struct {
	now      func() time.Time
	newID    func() string
	location *time.Location
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the export time source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator sets the export id source.
func WithIDGenerator(newID func() string) Option {
	return func(a *Assembler) { a.newID = newID }
}

// WithLocation sets the zone used for human-readable timestamps.
func WithLocation(loc *time.Location) Option {
	return func(a *Assembler) { a.location = loc }
}

// NewAssembler creates an Assembler using wall-clock time, random uuids
// and the local zone unless overridden.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		location: time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the archive of conv with default options.
func Assemble(conv *conversation.Conversation) (*Archive, error) {
	return NewAssembler().Assemble(conv)
}

// Assemble builds the complete archive of conv. It either returns every
// file of the layout or an *AssemblyError; invalid input is rejected
// before any work is done.
func (a *Assembler) Assemble(conv *conversation.Conversation) (arc *Archive, err error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}

	b := &build{conv: conv, asm: a}
	defer func() {
		if r := recover(); r != nil {
			arc, err = nil, &AssemblyError{ConversationID: conv.ID, Step: b.step, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := b.run(); err != nil {
		return nil, &AssemblyError{ConversationID: conv.ID, Step: b.step, Err: err}
	}
	return b.archive, nil
}

// CollectArtifacts merges the artifacts of every assistant message into one
// conversation-wide set. Explicit ids merge across messages; id-less
// artifacts are scoped to the message that emitted them.
func CollectArtifacts(msgs []conversation.Message) *artifact.Set {
	set := artifact.NewSet()
	for i, m := range msgs {
		if m.Sender != conversation.SenderAssistant || len(m.Content) == 0 {
			continue
		}
		prefix := fmt.Sprintf("%s%d_", artifact.SyntheticPrefix, i)
		set.Merge(artifact.ExtractWithPrefix(m.Content, prefix))
	}
	return set
}

type build struct {
	conv    *conversation.Conversation
	asm     *Assembler
	step    string
	archive *Archive
}

func (b *build) run() error {
	conv := b.conv
	b.archive = &Archive{Filename: conv.ID + ".zip"}

	b.step = "extract artifacts"
	artifacts := CollectArtifacts(conv.Messages)

	b.step = "build metadata"
	meta := Metadata{
		ExportID:      b.asm.newID(),
		ChatID:        conv.ID,
		ChatName:      conv.DisplayName(),
		CreatedAt:     isoTime(conv.CreatedAt),
		UpdatedAt:     isoTime(conv.UpdatedAt),
		ExportedAt:    isoTime(b.asm.now()),
		MessageCount:  len(conv.Messages),
		ArtifactCount: artifacts.Len(),
		ExportVersion: FormatVersion,
		Source:        Source,
	}
	b.archive.Metadata = meta
	if err := b.addJSON(InfoPath, meta); err != nil {
		return err
	}

	b.step = "render readme"
	b.add(ReadmePath, []byte(renderReadme(meta, conv, b.asm.now(), b.asm.location)))

	b.step = "linearize messages"
	b.add(TranscriptPath, []byte(transcript.LinearizeIn(conv.Messages, b.asm.location)))
	if err := b.addJSON(TranscriptMetadataPath, TranscriptMetadata{
		TotalMessages:  len(conv.Messages),
		Participants:   conversation.Participants(),
		ExportedFormat: "plain_text",
		Encoding:       "utf-8",
	}); err != nil {
		return err
	}

	if artifacts.Len() == 0 {
		return nil
	}

	b.step = "write artifacts"
	namer := NewNamer()
	index := make([]IndexEntry, 0, artifacts.Len())
	for i, art := range artifacts.All() {
		name := namer.Name(i+1, art.Title, art.Ext)
		b.add(ArtifactsDir+name, []byte(art.Content))
		index = append(index, IndexEntry{
			Filename:      name,
			ID:            art.ID,
			OriginalTitle: art.Title,
			Type:          art.Type,
			Language:      art.Language,
			SizeBytes:     len(art.Content),
			Preview:       artifact.Preview(art),
		})
	}
	b.archive.Index = index
	return b.addJSON(ArtifactIndexPath, ArtifactIndex{
		TotalArtifacts: len(index),
		Artifacts:      index,
	})
}

func (b *build) add(path string, data []byte) {
	b.archive.Files = append(b.archive.Files, File{Path: path, Data: data})
}

func (b *build) addJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	b.add(path, data)
	return nil
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}
