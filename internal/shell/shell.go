// Package shell is the interactive front end of the catalog. Each command
// collects the strings it needs, calls exactly one catalog operation and
// prints either a confirmation or the error message.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/peterh/liner"

	"github.com/mrlokans/librarian/internal/attachments"
	"github.com/mrlokans/librarian/internal/browser"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/report"
)

// errCancelled is returned by prompts when the user aborts input with
// Ctrl-C or Ctrl-D. The current command is dropped, the shell keeps running.
var errCancelled = errors.New("cancelled")

// Prompter reads a line of input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

// Catalog is the subset of catalog.Service the shell drives.
type Catalog interface {
	Add(ctx context.Context, title, author, isbn string) error
	Delete(ctx context.Context, isbn string) error
	Update(ctx context.Context, isbn, newTitle, newAuthor, newISBN string) error
	UpdatePDFPath(ctx context.Context, isbn, path string) error
	GetPDFPath(ctx context.Context, isbn string) (string, bool, error)
	FindByISBN(ctx context.Context, isbn string) (*catalog.BookSummary, error)
	ListAll(ctx context.Context) ([]entities.Book, error)
	Undo(ctx context.Context) (catalog.UndoEntry, error)
	History() []catalog.UndoEntry
}

// ReportWriter regenerates the HTML report on disk.
type ReportWriter interface {
	WriteFile(ctx context.Context, path string) (report.Result, error)
}

// DocumentInspector reads facts about an attachment file.
type DocumentInspector interface {
	Inspect(path string) (attachments.Info, error)
}

type Config struct {
	ReportPath  string
	HistoryPath string
}

type Shell struct {
	catalog   Catalog
	reports   ReportWriter
	inspector DocumentInspector
	opener    browser.Opener
	out       io.Writer
	config    Config
}

func New(cat Catalog, reports ReportWriter, inspector DocumentInspector, opener browser.Opener, out io.Writer, config Config) *Shell {
	if opener == nil {
		opener = browser.Noop{}
	}
	return &Shell{
		catalog:   cat,
		reports:   reports,
		inspector: inspector,
		opener:    opener,
		out:       out,
		config:    config,
	}
}

// Run starts the read-eval loop on the terminal and returns when the user
// exits or the context is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)

	if s.config.HistoryPath != "" {
		if f, err := os.Open(s.config.HistoryPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer s.saveHistory(line)

	fmt.Fprintln(s.out, "Library catalog. Type 'help' for available commands.")

	for ctx.Err() == nil {
		input, err := line.Prompt("library> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nBye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := s.Execute(ctx, line, input); quit {
			return nil
		}
	}
	return ctx.Err()
}

func (s *Shell) saveHistory(line *liner.State) {
	path := s.config.HistoryPath
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("Failed to create history directory: %v", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Printf("Failed to save shell history: %v", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		log.Printf("Failed to save shell history: %v", err)
	}
}

// Execute runs a single command line. Prompts for missing values go through
// p. It reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, p Prompter, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(s.out, "Bye!")
		return true
	case "help", "?":
		s.printHelp()
	case "add":
		err = s.cmdAdd(ctx, p)
	case "delete", "del", "rm":
		err = s.cmdDelete(ctx, p, args)
	case "update", "edit":
		err = s.cmdUpdate(ctx, p, args)
	case "upload-pdf", "attach":
		err = s.cmdUploadPDF(ctx, p, args)
	case "view-pdf", "open":
		err = s.cmdViewPDF(ctx, p, args)
	case "pdf-info":
		err = s.cmdPDFInfo(ctx, p, args)
	case "find", "get":
		err = s.cmdFind(ctx, p, args)
	case "list", "ls":
		err = s.cmdList(ctx)
	case "report":
		err = s.cmdReport(ctx)
	case "undo":
		err = s.cmdUndo(ctx)
	case "history":
		s.cmdHistory()
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(s.out, "Cancelled.")
		} else {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return false
}

func (s *Shell) cmdAdd(ctx context.Context, p Prompter) error {
	title, err := ask(p, "Title: ", "")
	if err != nil {
		return err
	}
	author, err := ask(p, "Author: ", "")
	if err != nil {
		return err
	}
	isbn, err := s.askISBN(p, "ISBN: ", "")
	if err != nil {
		return err
	}

	if err := s.catalog.Add(ctx, title, author, isbn); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Book %q added.\n", title)
	return nil
}

func (s *Shell) cmdDelete(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}
	if err := s.catalog.Delete(ctx, isbn); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Book %s deleted.\n", isbn)
	return nil
}

// cmdUpdate prefills each prompt with the current value so the user only
// edits what changes.
func (s *Shell) cmdUpdate(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}

	current, err := s.catalog.FindByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, isbn)
	}

	title, err := ask(p, "Title: ", current.Title)
	if err != nil {
		return err
	}
	author, err := ask(p, "Author: ", current.Author)
	if err != nil {
		return err
	}
	newISBN, err := s.askISBN(p, "ISBN: ", current.ISBN)
	if err != nil {
		return err
	}

	if err := s.catalog.Update(ctx, isbn, title, author, newISBN); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Book updated successfully.")
	return nil
}

func (s *Shell) cmdUploadPDF(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 1 {
		path = strings.Join(args[1:], " ")
	} else {
		path, err = ask(p, "PDF path: ", "")
		if err != nil {
			return err
		}
	}

	if s.inspector != nil {
		if _, err := s.inspector.Inspect(path); err != nil {
			return err
		}
	}

	if err := s.catalog.UpdatePDFPath(ctx, isbn, path); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "PDF attached to book %s.\n", isbn)
	return nil
}

func (s *Shell) cmdViewPDF(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}
	path, ok, err := s.catalog.GetPDFPath(ctx, isbn)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "No PDF found for this book.")
		return nil
	}
	if err := s.opener.OpenFile(path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	fmt.Fprintf(s.out, "Opening %s\n", path)
	return nil
}

func (s *Shell) cmdPDFInfo(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}
	path, ok, err := s.catalog.GetPDFPath(ctx, isbn)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "No PDF found for this book.")
		return nil
	}
	if s.inspector == nil {
		fmt.Fprintf(s.out, "Path:  %s\n", path)
		return nil
	}
	info, err := s.inspector.Inspect(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Path:  %s\nSize:  %d bytes\nPages: %d\n", info.Path, info.Size, info.Pages)
	return nil
}

func (s *Shell) cmdFind(ctx context.Context, p Prompter, args []string) error {
	isbn, err := s.isbnArg(p, args)
	if err != nil {
		return err
	}
	book, err := s.catalog.FindByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if book == nil {
		fmt.Fprintf(s.out, "No book with ISBN %s.\n", isbn)
		return nil
	}
	fmt.Fprintf(s.out, "Title:  %s\nAuthor: %s\nISBN:   %s\n", book.Title, book.Author, book.ISBN)
	return nil
}

func (s *Shell) cmdList(ctx context.Context) error {
	books, err := s.catalog.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(s.out, "No books found.")
		return nil
	}
	return WriteTable(s.out, books)
}

func (s *Shell) cmdReport(ctx context.Context) error {
	if s.reports == nil {
		return errors.New("report generation is not configured")
	}
	result, err := s.reports.WriteFile(ctx, s.config.ReportPath)
	if errors.Is(err, report.ErrEmptyCatalog) {
		fmt.Fprintln(s.out, "No books found.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Report written to %s (%d books).\n", result.Path, result.BooksRendered)
	if err := s.opener.OpenFile(result.Path); err != nil {
		log.Printf("Failed to open report in browser: %v", err)
	}
	return nil
}

func (s *Shell) cmdUndo(ctx context.Context) error {
	entry, err := s.catalog.Undo(ctx)
	if errors.Is(err, catalog.ErrEmptyHistory) {
		fmt.Fprintln(s.out, "No operations to undo.")
		return nil
	}
	if err != nil {
		return err
	}
	switch entry.Op {
	case catalog.OpAdd:
		fmt.Fprintf(s.out, "Undid add of %q (%s).\n", entry.Book.Title, entry.Book.ISBN)
	case catalog.OpDelete:
		fmt.Fprintf(s.out, "Undid delete of %q (%s).\n", entry.Book.Title, entry.Book.ISBN)
	}
	return nil
}

func (s *Shell) cmdHistory() {
	history := s.catalog.History()
	if len(history) == 0 {
		fmt.Fprintln(s.out, "No operations to undo.")
		return
	}
	// Most recent first: that is what the next undo will reverse.
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		fmt.Fprintf(s.out, "%2d. %-6s %s  %q\n", len(history)-i, e.Op, e.Book.ISBN, e.Book.Title)
	}
}

func (s *Shell) isbnArg(p Prompter, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return s.askISBN(p, "ISBN: ", "")
}

// askISBN re-prompts until the input is a non-empty run of digits.
func (s *Shell) askISBN(p Prompter, prompt, current string) (string, error) {
	for {
		value, err := ask(p, prompt, current)
		if err != nil {
			return "", err
		}
		if catalog.ValidISBN(value) {
			return value, nil
		}
		fmt.Fprintln(s.out, "ISBN must contain digits only.")
		current = ""
	}
}

// ask re-prompts until the input is non-blank. A non-empty current value is
// offered as an editable suggestion.
func ask(p Prompter, prompt, current string) (string, error) {
	for {
		var (
			value string
			err   error
		)
		if current != "" {
			value, err = p.PromptWithSuggestion(prompt, current, -1)
		} else {
			value, err = p.Prompt(prompt)
		}
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return "", errCancelled
			}
			return "", err
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}
	}
}

// WriteTable prints books as aligned columns.
func WriteTable(w io.Writer, books []entities.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ISBN\tTITLE\tAUTHOR\tPDF")
	for _, b := range books {
		pdf := "-"
		if b.HasPDF() {
			pdf = *b.PDFPath
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ISBN, b.Title, b.Author, pdf)
	}
	return tw.Flush()
}

var commands = []string{
	"add", "delete", "update", "upload-pdf", "view-pdf", "pdf-info",
	"find", "list", "report", "undo", "history", "help", "exit",
}

func completer(line string) []string {
	lower := strings.ToLower(line)
	var completions []string
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	sort.Strings(completions)
	return completions
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  add                       Add a book (prompts for title, author, ISBN)")
	fmt.Fprintln(s.out, "  delete <isbn>             Delete a book")
	fmt.Fprintln(s.out, "  update <isbn>             Edit title, author and ISBN of a book")
	fmt.Fprintln(s.out, "  upload-pdf <isbn> <path>  Attach a PDF to a book")
	fmt.Fprintln(s.out, "  view-pdf <isbn>           Open the attached PDF")
	fmt.Fprintln(s.out, "  pdf-info <isbn>           Show size and page count of the attached PDF")
	fmt.Fprintln(s.out, "  find <isbn>               Show a book")
	fmt.Fprintln(s.out, "  list                      List all books")
	fmt.Fprintln(s.out, "  report                    Write the HTML report and open it")
	fmt.Fprintln(s.out, "  undo                      Undo the last add or delete")
	fmt.Fprintln(s.out, "  history                   Show what undo would reverse")
	fmt.Fprintln(s.out, "  help                      Show this help")
	fmt.Fprintln(s.out, "  exit                      Leave the shell")
}
