// Package browser opens reports and attachments in the user's default
// browser or document viewer.
package browser

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/browser"
)

// Opener launches an external viewer. Implementations return once the
// viewer has been started; they do not wait for it to exit.
type Opener interface {
	OpenFile(path string) error
}

// System opens files with the platform launcher (xdg-open, open, start).
type System struct{}

func NewSystem(out io.Writer) System {
	// pkg/browser forwards the launcher's output to these writers.
	browser.Stdout = out
	browser.Stderr = out
	return System{}
}

func (System) OpenFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return browser.OpenFile(abs)
}

// Noop satisfies Opener without launching anything. Used when opening is
// disabled by configuration or in headless runs.
type Noop struct{}

func (Noop) OpenFile(string) error { return nil }
