// Package sysclip connects a table's copy buffer to the operating system
// clipboard.
package sysclip

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available, for
// example on a headless Linux host without xclip, xsel or wl-clipboard.
var ErrUnsupported = errors.New("system clipboard not available")

// System implements datagrid.Clipboard on the OS clipboard.
type System struct{}

// Available reports whether the system clipboard can be used.
func Available() bool { return !clipboard.Unsupported }

func (System) ReadText() (string, error) {
	if !Available() {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

func (System) WriteText(text string) error {
	if !Available() {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard for tests and headless runs.
type Memory struct {
	Text string
}

func (m *Memory) ReadText() (string, error) { return m.Text, nil }

func (m *Memory) WriteText(text string) error {
	m.Text = text
	return nil
}
