package ui

import (
	"fyne.io/fyne/v2/data/binding"

	"github.com/esoquery/esoquery/internal/logging"
)

// Console collects log lines and the current status message. It is the
// logging.Sink of the application and may be written from any goroutine.
type Console struct {
	lines  binding.StringList
	status binding.String
}

var _ logging.Sink = (*Console)(nil)

// NewConsole creates an empty console
func NewConsole() *Console {
	return &Console{
		lines:  binding.NewStringList(),
		status: binding.NewString(),
	}
}

// Log appends a line to the log pane
func (c *Console) Log(line string) {
	_ = c.lines.Append(line)
}

// Status replaces the status line
func (c *Console) Status(line string) {
	_ = c.status.Set(line)
}

// Clear empties the log pane
func (c *Console) Clear() {
	_ = c.lines.Set(nil)
}

// Lines returns a snapshot of the log
func (c *Console) Lines() []string {
	lines, _ := c.lines.Get()
	return lines
}

// StatusText returns the current status line
func (c *Console) StatusText() string {
	s, _ := c.status.Get()
	return s
}
