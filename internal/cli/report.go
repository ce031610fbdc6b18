package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/mrlokans/librarian/internal/attachments"
	"github.com/mrlokans/librarian/internal/browser"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/report"
)

// ReportCommand writes the HTML report and opens it in the browser.
type ReportCommand struct {
	DatabasePath string
	OutputPath   string
	NoOpen       bool

	cfg    *config.Config
	out    io.Writer
	opener browser.Opener
}

func NewReportCommand(cfg *config.Config) *ReportCommand {
	return &ReportCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *ReportCommand) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the catalog database")
	fs.StringVarP(&cmd.OutputPath, "output", "o", cmd.cfg.Report.Path, "Where to write the HTML report")
	fs.BoolVar(&cmd.NoOpen, "no-open", !cmd.cfg.Report.OpenBrowser, "Do not open the report in the browser")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s report [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write the catalog as a searchable HTML page.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.OutputPath == "" {
		return errors.New("--output must not be empty")
	}
	return nil
}

func (cmd *ReportCommand) Run(ctx context.Context) error {
	a, err := openApp(cmd.DatabasePath, cmd.cfg.Database.LogSQL, cmd.cfg.Audit.Enabled)
	if err != nil {
		return err
	}
	defer a.Close()

	generator := report.NewGenerator(a.catalog, attachments.NewInspector())
	result, err := generator.WriteFile(ctx, cmd.OutputPath)
	if errors.Is(err, report.ErrEmptyCatalog) {
		fmt.Fprintln(cmd.out, "No books found.")
		return nil
	}
	a.logReport(cmd.OutputPath, result.BooksRendered, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Report written to %s (%d books, %d PDFs linked)\n", result.Path, result.BooksRendered, result.PDFsLinked)

	if cmd.NoOpen {
		return nil
	}
	opener := cmd.opener
	if opener == nil {
		opener = browser.NewSystem(os.Stderr)
	}
	if err := opener.OpenFile(result.Path); err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	return nil
}
