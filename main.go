package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"clauder/internal/archive"
	"clauder/internal/capture"
	"clauder/internal/config"
	"clauder/internal/conversation"
	"clauder/internal/exporter"
	"clauder/internal/history"
	"clauder/internal/terminal"
	"clauder/internal/ui"
)

// errReported marks failures the display has already shown.
var errReported = errors.New("failure already reported")

// options are the actions requested on the command line.
type options struct {
	configPath string
	importPath string
	fetchURL   string
	headers    headerList
	exportRef  string
	exportAll  bool
	match      string
	list       bool
	deleteRef  string
}

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	// Parse command-line flags
	cfg, opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	color := terminal.IsTerminal(os.Stdout)
	width, _ := terminal.Size(os.Stdout)
	display := ui.NewDisplay(os.Stdout, color, cfg.Verbose, width)

	store, err := history.Open(cfg.StoreBackend, cfg.StorePath, cfg.MaxConversations)
	if err != nil {
		display.PrintError(err)
		os.Exit(1)
	}
	display.PrintVerbose(fmt.Sprintf("Loaded %d conversations from %s", store.Len(), cfg.StorePath))

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, store, display, color); err != nil {
		if !errors.Is(err, errReported) {
			display.PrintError(err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options, store *history.Manager, display *ui.Display, interactive bool) error {
	switch {
	case opts.importPath != "":
		return importConversation(opts.importPath, store, display)
	case opts.fetchURL != "":
		return fetchConversation(ctx, cfg, opts, store, display)
	case opts.list:
		display.PrintConversations(history.Select(store.List(), history.MatchName(opts.match)))
		return nil
	case opts.deleteRef != "":
		id, err := capture.ResolveID(opts.deleteRef)
		if err != nil {
			return err
		}
		if err := store.Delete(id); err != nil {
			return err
		}
		display.PrintSuccess(fmt.Sprintf("Removed conversation %s", id))
		return nil
	case opts.exportRef != "":
		return exportOne(ctx, cfg, opts.exportRef, store, display, interactive)
	case opts.exportAll:
		return exportAll(ctx, cfg, opts.match, store, display)
	default:
		flag.Usage()
		return errors.New("no action given")
	}
}

// importConversation stores a conversation document read from a file or stdin.
func importConversation(path string, store *history.Manager, display *ui.Display) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	conv, err := conversation.Decode(r)
	if err != nil {
		return err
	}
	stored, err := store.Put(conv)
	if err != nil {
		return err
	}
	display.PrintSuccess(fmt.Sprintf("Stored %q (%d messages)", stored.Name, len(stored.Messages)))
	return nil
}

// fetchConversation replays a host conversation request and stores the result.
func fetchConversation(ctx context.Context, cfg *config.Config, opts *options, store *history.Manager, display *ui.Display) error {
	capturer := capture.NewCapturer(capture.NewClient(cfg.FetchTimeout, cfg.UserAgent), store)
	req := capture.Request{
		Method: http.MethodGet,
		URL:    opts.fetchURL,
		Header: opts.headers.Header(),
	}

	display.PrintVerbose("Fetching " + opts.fetchURL)
	conv, err := capturer.Observe(ctx, req)
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("not a conversation tree request: %s", opts.fetchURL)
	}
	display.PrintSuccess(fmt.Sprintf("Captured %q (%d messages)", conv.Name, len(conv.Messages)))
	return nil
}

func newExporter(cfg *config.Config, store *history.Manager, reporter exporter.Reporter) *exporter.Exporter {
	return exporter.New(
		store,
		exporter.DirDownloader{Dir: cfg.OutputDir},
		reporter,
		exporter.WithWorkers(cfg.MaxWorkers),
	)
}

func exportOne(ctx context.Context, cfg *config.Config, ref string, store *history.Manager, display *ui.Display, interactive bool) error {
	id, err := capture.ResolveID(ref)
	if err != nil {
		return err
	}

	out := newExporter(cfg, store, ui.NewProgress(display, interactive)).Export(ctx, id)
	if !out.OK() {
		return errReported
	}

	if cfg.Preview {
		readme, err := archive.ReadEntry(out.Path, archive.ReadmePath)
		if err != nil {
			display.PrintWarning(fmt.Sprintf("Preview unavailable: %v", err))
			return nil
		}
		display.PrintSeparator()
		display.RenderMarkdown(string(readme))
	}
	return nil
}

func exportAll(ctx context.Context, cfg *config.Config, match string, store *history.Manager, display *ui.Display) error {
	convs := history.Select(store.List(), history.MatchName(match))
	if len(convs) == 0 {
		display.PrintInfo("No conversations to export.")
		return nil
	}

	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}

	display.PrintInfo(fmt.Sprintf("Exporting %d conversations with %d workers", len(ids), cfg.MaxWorkers))
	outcomes := newExporter(cfg, store, display).ExportAll(ctx, ids)

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(outcomes))
	}
	display.PrintSuccess(fmt.Sprintf("Exported %d conversations to %s", len(outcomes), cfg.OutputDir))
	return nil
}

// headerList collects repeated -header "Name: value" flags.
type headerList []string

func (h *headerList) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerList) Set(value string) error {
	name, _, ok := strings.Cut(value, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header must look like \"Name: value\", got %q", value)
	}
	*h = append(*h, value)
	return nil
}

// Header converts the collected flags into an http.Header.
func (h headerList) Header() http.Header {
	out := http.Header{}
	for _, line := range h {
		name, value, _ := strings.Cut(line, ":")
		out.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return out
}

// parseFlags parses command-line flags. Values from the config file are
// applied first; flags given explicitly win over the file.
func parseFlags() (*config.Config, *options, error) {
	cfg := config.NewConfig()
	opts := &options{}

	flag.StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultConfigPath+" if present)")
	flag.StringVar(&opts.importPath, "import", "", "Store a conversation JSON document from a file (- for stdin)")
	flag.StringVar(&opts.fetchURL, "fetch", "", "Capture a conversation from its chat_conversations tree URL")
	flag.Var(&opts.headers, "header", "Request header for -fetch, as \"Name: value\" (repeatable)")
	flag.StringVar(&opts.exportRef, "export", "", "Export a conversation by id or chat page URL")
	flag.BoolVar(&opts.exportAll, "export-all", false, "Export every retained conversation")
	flag.StringVar(&opts.match, "match", "", "Glob filter on conversation names for -list and -export-all")
	flag.BoolVar(&opts.list, "list", false, "List retained conversations, newest first")
	flag.StringVar(&opts.deleteRef, "delete", "", "Remove a retained conversation by id or chat page URL")

	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory archives are saved to")
	flag.StringVar(&cfg.StorePath, "store", cfg.StorePath, "Conversation store path")
	flag.StringVar(&cfg.StoreBackend, "backend", cfg.StoreBackend, "Store backend: json or bolt")
	flag.IntVar(&cfg.MaxConversations, "max", cfg.MaxConversations, "Number of conversations retained")
	flag.IntVar(&cfg.MaxWorkers, "workers", cfg.MaxWorkers, "Concurrent exports for -export-all")
	flag.DurationVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout, "Request timeout for -fetch")
	flag.BoolVar(&cfg.Preview, "preview", cfg.Preview, "Render the archive README after -export")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")

	flag.Parse()

	// Remember explicit flags so they can be re-applied over the file.
	explicit := map[string]string{}
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	path, required := opts.configPath, true
	if path == "" {
		path, required = config.DefaultConfigPath, false
	}
	if err := cfg.LoadFile(path); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}
	}

	for name, value := range explicit {
		if name == "header" {
			continue
		}
		if err := flag.Set(name, value); err != nil {
			return nil, nil, err
		}
	}
	return cfg, opts, nil
}
