package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogService
	Database Pinger

	// Report generation
	Reports    ReportRenderer
	ReportPath string

	// Optional: nil disables the matching feature
	ReportQueue ReportQueue
	TaskStatus  TaskStatusReader
	Auditor     ReportAuditor
	AuditReader AuditReader

	// Application info
	Version string
}
