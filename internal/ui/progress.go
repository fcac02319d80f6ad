package ui

import (
	"clauder/internal/exporter"
	"clauder/internal/terminal"
)

// Write lets other writers, such as a spinner, share the display's lock.
func (d *Display) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.Write(p)
}

// Progress reports export outcomes and animates a spinner while an
// export is running.
type Progress struct {
	display *Display
	spinner *terminal.Spinner
}

// NewProgress creates a Progress on d. The spinner only draws when
// animate is set.
func NewProgress(d *Display, animate bool) *Progress {
	return &Progress{
		display: d,
		spinner: terminal.NewSpinner(d, animate),
	}
}

// Report prints o. An info outcome is printed before the spinner starts,
// any other outcome after it has been cleared.
func (p *Progress) Report(o exporter.Outcome) {
	if o.Kind == exporter.KindInfo {
		p.display.Report(o)
		p.spinner.Start(o.Message)
		return
	}
	p.spinner.Stop()
	p.display.Report(o)
}
