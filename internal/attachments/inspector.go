// Package attachments reads facts about documents attached to catalog
// records. The catalog itself never looks at attachment files; this is
// used by the report and the shell to show what a path points at.
package attachments

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNotPDF = errors.New("not a PDF document")

// Info describes an attachment on disk.
type Info struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
}

// Inspector opens attachments with pdfcpu in relaxed validation mode.
type Inspector struct {
	conf *model.Configuration
}

func NewInspector() *Inspector {
	// Keep pdfcpu from creating its config directory under the user's home.
	model.ConfigPath = "disable"

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// PageCount returns the number of pages of the PDF at path.
func (i *Inspector) PageCount(path string) (int, error) {
	info, err := i.Inspect(path)
	if err != nil {
		return 0, err
	}
	return info.Pages, nil
}

// Inspect stats the file and counts its pages.
func (i *Inspector) Inspect(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%w: %s is a directory", ErrNotPDF, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	header := make([]byte, 5)
	if _, err := f.Read(header); err != nil || !strings.HasPrefix(string(header), "%PDF-") {
		return Info{}, fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return Info{}, fmt.Errorf("failed to rewind attachment: %w", err)
	}

	pages, err := api.PageCount(f, i.conf)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	return Info{Path: path, Size: st.Size(), Pages: pages}, nil
}
