// Package report renders the catalog as a single static HTML page with a
// client-side ISBN filter and links to attached documents.
package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/mrlokans/librarian/internal/entities"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// ErrEmptyCatalog is returned when there is nothing to render. No file is
// written in that case.
var ErrEmptyCatalog = errors.New("no books found")

// BookLister supplies the records to render.
type BookLister interface {
	ListAll(ctx context.Context) ([]entities.Book, error)
}

// PageCounter is optional; when set, linked attachments show a page count.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Result describes a finished render.
type Result struct {
	Path          string `json:"path,omitempty"`
	BooksRendered int    `json:"books_rendered"`
	PDFsLinked    int    `json:"pdfs_linked"`
}

type row struct {
	Title   string
	Author  string
	ISBN    string
	PDFHref template.URL
	Pages   int
}

type page struct {
	Rows        []row
	Count       int
	GeneratedAt time.Time
}

type Generator struct {
	lister BookLister
	pages  PageCounter
	tmpl   *template.Template
	now    func() time.Time
}

func NewGenerator(lister BookLister, pages PageCounter) *Generator {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))
	return &Generator{
		lister: lister,
		pages:  pages,
		tmpl:   tmpl,
		now:    time.Now,
	}
}

// Render writes the report to w.
func (g *Generator) Render(ctx context.Context, w io.Writer) (Result, error) {
	books, err := g.lister.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load books: %w", err)
	}
	if len(books) == 0 {
		return Result{}, ErrEmptyCatalog
	}

	data := page{Count: len(books), GeneratedAt: g.now()}
	var result Result
	for _, b := range books {
		r := row{Title: b.Title, Author: b.Author, ISBN: b.ISBN}
		if b.HasPDF() {
			r.PDFHref = fileURL(*b.PDFPath)
			if g.pages != nil {
				if n, err := g.pages.PageCount(*b.PDFPath); err == nil {
					r.Pages = n
				}
			}
			result.PDFsLinked++
		}
		data.Rows = append(data.Rows, r)
	}
	result.BooksRendered = len(books)

	if err := g.tmpl.Execute(w, data); err != nil {
		return Result{}, fmt.Errorf("failed to render report: %w", err)
	}
	return result, nil
}

// WriteFile renders the report and replaces path with it in one step, so a
// reader never sees a half-written page.
func (g *Generator) WriteFile(ctx context.Context, path string) (Result, error) {
	var buf bytes.Buffer
	result, err := g.Render(ctx, &buf)
	if err != nil {
		return Result{}, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return Result{}, fmt.Errorf("failed to write report %s: %w", path, err)
	}

	result.Path = path
	return result, nil
}

// fileURL builds an absolute file:// link. html/template would otherwise
// replace the non-http scheme with a placeholder.
func fileURL(path string) template.URL {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return template.URL(u.String())
}
