package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/librarian/internal/attachments"
	"github.com/mrlokans/librarian/internal/audit"
	"github.com/mrlokans/librarian/internal/browser"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/report"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/shell"
	"github.com/mrlokans/librarian/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Catalog Store implementations
var _ catalog.Store = (*books.Repository)(nil)

// Health check
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Catalog Consumers
// =============================================================================

var _ http.CatalogService = (*catalog.Service)(nil)
var _ shell.Catalog = (*catalog.Service)(nil)
var _ report.BookLister = (*catalog.Service)(nil)

// =============================================================================
// Reports and Attachments
// =============================================================================

var _ report.PageCounter = (*attachments.Inspector)(nil)
var _ shell.DocumentInspector = (*attachments.Inspector)(nil)

var _ http.ReportRenderer = (*report.Generator)(nil)
var _ shell.ReportWriter = (*report.Generator)(nil)
var _ tasks.ReportFileWriter = (*report.Generator)(nil)
var _ scheduler.ReportWriter = (*report.Generator)(nil)

var _ browser.Opener = browser.System{}
var _ browser.Opener = browser.Noop{}

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.AuditReader = (*audit.Service)(nil)
var _ http.ReportAuditor = (*audit.Service)(nil)
var _ tasks.ReportAuditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.AuditCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.ReportQueue = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ tasks.ReportEnqueuer = (*tasks.Client)(nil)
var _ scheduler.ReportEnqueuer = (*tasks.Client)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)
