package exporter

import (
	"context"
	"errors"
	"sync"
	"time"

	"clauder/internal/archive"
	"clauder/internal/conversation"
	"clauder/internal/history"
)

// Source looks up retained conversations.
type Source interface {
	Get(id string) (*conversation.Conversation, error)
}

// Downloader saves a packaged archive under filename and returns where.
type Downloader interface {
	Download(filename string, data []byte) (string, error)
}

// Reporter receives status outcomes. It may be called concurrently.
type Reporter interface {
	Report(Outcome)
}

// Exporter turns retained conversations into saved archives.
type Exporter struct {
	source     Source
	downloader Downloader
	reporter   Reporter
	assembler  *archive.Assembler
	now        func() time.Time
	maxWorkers int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithAssembler replaces the default archive assembler.
func WithAssembler(a *archive.Assembler) Option {
	return func(e *Exporter) { e.assembler = a }
}

// WithClock sets the timestamp recorded on archive entries.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithWorkers bounds the concurrency of ExportAll.
func WithWorkers(n int) Option {
	return func(e *Exporter) { e.maxWorkers = n }
}

// New creates an Exporter.
func New(source Source, downloader Downloader, reporter Reporter, opts ...Option) *Exporter {
	e := &Exporter{
		source:     source,
		downloader: downloader,
		reporter:   reporter,
		assembler:  archive.NewAssembler(),
		now:        time.Now,
		maxWorkers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxWorkers < 1 {
		e.maxWorkers = 1
	}
	return e
}

// Export assembles, packages and saves the conversation retained under id.
// Every step reports to the Reporter; the final outcome is also returned.
func (e *Exporter) Export(ctx context.Context, id string) Outcome {
	e.report(info(id, MsgCreating))
	out := e.export(ctx, id)
	e.report(out)
	return out
}

func (e *Exporter) export(ctx context.Context, id string) Outcome {
	conv, err := e.source.Get(id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return noData(id, err)
		}
		return assemblyFailed(id, err)
	}

	arc, err := e.assembler.Assemble(conv)
	if err != nil {
		return assemblyFailed(id, err)
	}

	data, err := arc.Zip(e.now())
	if err != nil {
		return downloadFailed(id, err)
	}

	// Nothing has been written yet, so a cancelled export leaves no trace.
	if err := ctx.Err(); err != nil {
		return downloadFailed(id, err)
	}

	path, err := e.downloader.Download(arc.Filename, data)
	if err != nil {
		return downloadFailed(id, err)
	}
	return success(id, path, arc.Metadata.MessageCount, arc.Metadata.ArtifactCount)
}

// ExportAll exports every id with a pool of workers and returns the
// outcomes in the order of ids.
func (e *Exporter) ExportAll(ctx context.Context, ids []string) []Outcome {
	if len(ids) == 0 {
		return []Outcome{}
	}

	type job struct {
		index int
		id    string
	}
	jobs := make(chan job, len(ids))
	outcomes := make([]Outcome, len(ids))

	numWorkers := e.maxWorkers
	if len(ids) < numWorkers {
		numWorkers = len(ids)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes[j.index] = e.Export(ctx, j.id)
			}
		}()
	}

	for i, id := range ids {
		jobs <- job{index: i, id: id}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (e *Exporter) report(o Outcome) {
	if e.reporter != nil {
		e.reporter.Report(o)
	}
}
