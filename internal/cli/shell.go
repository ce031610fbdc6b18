package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mrlokans/librarian/internal/attachments"
	"github.com/mrlokans/librarian/internal/browser"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/report"
	"github.com/mrlokans/librarian/internal/shell"
)

// ShellCommand starts the interactive catalog shell.
type ShellCommand struct {
	DatabasePath string
	ReportPath   string
	HistoryPath  string
	NoOpen       bool

	cfg *config.Config
}

func NewShellCommand(cfg *config.Config) *ShellCommand {
	return &ShellCommand{cfg: cfg}
}

func (cmd *ShellCommand) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("shell", pflag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the catalog database")
	fs.StringVar(&cmd.ReportPath, "report", cmd.cfg.Report.Path, "Where the report command writes the HTML report")
	fs.StringVar(&cmd.HistoryPath, "history", cmd.cfg.Shell.HistoryPath, "Command history file (empty disables history)")
	fs.BoolVar(&cmd.NoOpen, "no-open", !cmd.cfg.Report.OpenBrowser, "Do not open reports and PDFs in the browser")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s shell [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage the catalog interactively. Type 'help' inside the shell for commands.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ShellCommand) Run(ctx context.Context) error {
	a, err := openApp(cmd.DatabasePath, cmd.cfg.Database.LogSQL, cmd.cfg.Audit.Enabled)
	if err != nil {
		return err
	}
	defer a.Close()

	var opener browser.Opener = browser.Noop{}
	if !cmd.NoOpen {
		opener = browser.NewSystem(os.Stderr)
	}

	inspector := attachments.NewInspector()
	var reports shell.ReportWriter = report.NewGenerator(a.catalog, inspector)
	if a.audit != nil {
		reports = auditedReports{generator: reports, audit: a}
	}

	sh := shell.New(a.catalog, reports, inspector, opener, os.Stdout, shell.Config{
		ReportPath:  cmd.ReportPath,
		HistoryPath: cmd.HistoryPath,
	})
	return sh.Run(ctx)
}

// auditedReports records each report write in the audit trail.
type auditedReports struct {
	generator shell.ReportWriter
	audit     *app
}

func (r auditedReports) WriteFile(ctx context.Context, path string) (report.Result, error) {
	result, err := r.generator.WriteFile(ctx, path)
	if !errors.Is(err, report.ErrEmptyCatalog) {
		r.audit.logReport(path, result.BooksRendered, err)
	}
	return result, err
}
