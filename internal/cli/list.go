package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/shell"
)

// ListCommand prints every book in the catalog.
type ListCommand struct {
	DatabasePath string
	JSON         bool

	cfg *config.Config
	out io.Writer
}

func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the catalog database")
	fs.BoolVar(&cmd.JSON, "json", false, "Print books as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List all books in the catalog.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListCommand) Run(ctx context.Context) error {
	a, err := openApp(cmd.DatabasePath, cmd.cfg.Database.LogSQL, false)
	if err != nil {
		return err
	}
	defer a.Close()

	books, err := a.catalog.ListAll(ctx)
	if err != nil {
		return err
	}

	if cmd.JSON {
		if books == nil {
			books = []entities.Book{}
		}
		return writeJSON(cmd.out, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(cmd.out, "No books found.")
		return nil
	}
	if err := shell.WriteTable(cmd.out, books); err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "\n%d books\n", len(books))
	return nil
}
