package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"clauder/internal/conversation"
	"clauder/internal/exporter"
)

// Display writes status and listings to the terminal.
type Display struct {
	out      io.Writer
	color    bool
	verbose  bool
	width    int
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewDisplay creates a display writing to out. Colours are used only when
// color is set, which callers derive from terminal detection.
func NewDisplay(out io.Writer, color, verbose bool, width int) *Display {
	if width <= 0 {
		width = 80
	}

	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	renderer, _ := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(min(width, 100)-4),
	)

	return &Display{
		out:      out,
		color:    color,
		verbose:  verbose,
		width:    width,
		renderer: renderer,
	}
}

// Color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func (d *Display) printf(color, format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.color {
		fmt.Fprintf(d.out, color+format+colorReset+"\n", args...)
		return
	}
	fmt.Fprintf(d.out, format+"\n", args...)
}

// PrintInfo displays info message
func (d *Display) PrintInfo(msg string) {
	d.printf(colorCyan, "ℹ %s", msg)
}

// PrintVerbose displays an info message only in verbose mode
func (d *Display) PrintVerbose(msg string) {
	if d.verbose {
		d.printf(colorDim, "· %s", msg)
	}
}

// PrintWarning displays warning message
func (d *Display) PrintWarning(msg string) {
	d.printf(colorYellow, "⚠ %s", msg)
}

// PrintError displays error message
func (d *Display) PrintError(err error) {
	d.printf(colorRed, "✗ Error: %v", err)
}

// PrintSuccess displays success message
func (d *Display) PrintSuccess(msg string) {
	d.printf(colorGreen, "✓ %s", msg)
}

// Report shows an export outcome. Info outcomes are progress and appear
// only in verbose mode.
func (d *Display) Report(o exporter.Outcome) {
	msg := o.Message
	if d.verbose && o.ConversationID != "" {
		msg = fmt.Sprintf("[%s] %s", shortID(o.ConversationID), msg)
	}

	switch o.Kind {
	case exporter.KindSuccess:
		if o.Path != "" {
			msg += " → " + o.Path
		}
		d.printf(colorGreen, "✓ %s", msg)
	case exporter.KindError:
		d.printf(colorRed, "✗ %s", msg)
	default:
		d.PrintVerbose(msg)
	}
}

// PrintSeparator prints a visual separator
func (d *Display) PrintSeparator() {
	d.printf(colorDim, "%s", strings.Repeat("─", min(d.width, 80)))
}

// PrintConversations lists retained conversations in the order given.
func (d *Display) PrintConversations(convs []*conversation.Conversation) {
	if len(convs) == 0 {
		d.PrintInfo("No conversations retained yet.")
		return
	}

	nameWidth := max(d.width-60, 20)
	for i, c := range convs {
		d.mu.Lock()
		if d.color {
			fmt.Fprintf(d.out, "%s%2d.%s %s%s%s  %s%s · %d messages%s\n",
				colorGray, i+1, colorReset,
				colorBold, truncate(c.DisplayName(), nameWidth), colorReset,
				colorGray, c.ID, len(c.Messages), colorReset)
		} else {
			fmt.Fprintf(d.out, "%2d. %s  %s · %d messages\n",
				i+1, truncate(c.DisplayName(), nameWidth), c.ID, len(c.Messages))
		}
		d.mu.Unlock()
		d.PrintVerbose("updated " + formatAge(time.Since(c.RankTime())) + " ago")
	}
}

// RenderMarkdown prints markdown rendered for the terminal, falling back to
// the raw text when rendering fails.
func (d *Display) RenderMarkdown(md string) {
	out := md
	if d.renderer != nil {
		if rendered, err := d.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, strings.TrimRight(out, "\n"))
}

// Helper functions

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
