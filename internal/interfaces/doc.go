// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.Store: Persistent catalog records keyed by ISBN (internal/catalog/store.go)
//   - http.Pinger: Database liveness for /health (internal/http/health.go)
//
// ## Catalog Consumers
//
// Each front end declares the slice of *catalog.Service it needs:
//
//   - http.CatalogService (internal/http/catalog.go)
//   - shell.Catalog (internal/shell/shell.go)
//   - report.BookLister (internal/report/generator.go)
//
// ## Report Interfaces
//
//   - report.PageCounter: Optional page counts for linked PDFs
//   - http.ReportRenderer, shell.ReportWriter, tasks.ReportFileWriter,
//     scheduler.ReportWriter: Implemented by *report.Generator
//   - browser.Opener: Launch the report or an attachment in a viewer
//
// ## Background Work Interfaces
//
//   - http.ReportQueue, http.TaskStatusReader, tasks.ReportEnqueuer,
//     scheduler.ReportEnqueuer:
//     Implemented by *tasks.Client
//   - tasks.AuditEventCleaner, scheduler.AuditCleaner: Implemented by *audit.Service
//
// # Observing Catalog Changes
//
// The catalog notifies listeners after each committed mutation. Listeners
// run synchronously and must not call back into the service:
//
//	svc := catalog.NewService(store,
//	    catalog.WithListener(auditService.CatalogListener()),
//	    catalog.WithListener(tasks.RefreshOnMutation(taskClient)),
//	)
//
// # Adding a New Front End
//
//  1. Declare the catalog methods it needs as an interface in its package.
//
//  2. Add a compile-time check here:
//
//     var _ mypkg.Catalog = (*catalog.Service)(nil)
//
//  3. Map catalog errors with errors.Is; ErrDuplicateKey, ErrNotFound,
//     ErrEmptyHistory and ErrInvalidInput are the expected failures.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
