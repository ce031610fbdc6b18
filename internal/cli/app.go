package cli

import (
	"fmt"
	"log"

	"github.com/mrlokans/librarian/internal/audit"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	auditrepo "github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/database/books"
)

// app is the catalog wired for a one-shot command.
type app struct {
	db      *database.Database
	catalog *catalog.Service
	audit   *audit.Service // nil when auditing is disabled
}

func openApp(dbPath string, logSQL, auditEnabled bool) (*app, error) {
	db, err := database.NewDatabase(dbPath, logSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &app{db: db}
	var opts []catalog.Option
	if auditEnabled {
		a.audit = audit.NewService(auditrepo.NewRepository(db.DB))
		opts = append(opts, catalog.WithListener(a.audit.CatalogListener()))
	}
	a.catalog = catalog.NewService(books.NewRepository(db.DB), opts...)
	return a, nil
}

func (a *app) logReport(path string, books int, err error) {
	if a.audit != nil {
		a.audit.LogReport(path, books, err)
	}
}

// Close waits for pending audit writes, then closes the database.
func (a *app) Close() {
	if a.audit != nil {
		a.audit.Flush()
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
