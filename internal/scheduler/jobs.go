package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mrlokans/librarian/internal/report"
)

const (
	ReportJobName       = "report_refresh"
	AuditCleanupJobName = "audit_cleanup"

	// DefaultAuditCleanupSchedule runs the cleanup nightly at 03:00.
	DefaultAuditCleanupSchedule = "0 3 * * *"
)

// ReportWriter regenerates the report file.
type ReportWriter interface {
	WriteFile(ctx context.Context, path string) (report.Result, error)
}

// ReportAuditor records report generations.
type ReportAuditor interface {
	LogReport(path string, books int, err error)
}

// ReportEnqueuer hands a report refresh to the task queue.
type ReportEnqueuer interface {
	EnqueueReportRefresh(reason string) (string, error)
}

// AuditCleaner deletes audit events past retention.
type AuditCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// AuditCleanupEnqueuer hands an audit cleanup to the task queue.
type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(retentionDays int) (string, error)
}

// WriteReportJob regenerates the report in-process. An empty catalog is
// logged and skipped.
func WriteReportJob(writer ReportWriter, path string, auditor ReportAuditor) JobFunc {
	return func(ctx context.Context) error {
		result, err := writer.WriteFile(ctx, path)
		if errors.Is(err, report.ErrEmptyCatalog) {
			log.Printf("Scheduler: report skipped, catalog is empty")
			return nil
		}
		if auditor != nil {
			auditor.LogReport(path, result.BooksRendered, err)
		}
		return err
	}
}

// EnqueueReportJob queues the refresh instead of running it.
func EnqueueReportJob(q ReportEnqueuer) JobFunc {
	return func(context.Context) error {
		_, err := q.EnqueueReportRefresh("schedule")
		return err
	}
}

// CleanupAuditJob trims the audit trail in-process.
func CleanupAuditJob(cleaner AuditCleaner, retentionDays int) JobFunc {
	return func(context.Context) error {
		deleted, err := cleaner.DeleteOldEvents(time.Duration(retentionDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		log.Printf("Scheduler: removed %d audit events older than %d days", deleted, retentionDays)
		return nil
	}
}

// EnqueueAuditCleanupJob queues the cleanup instead of running it.
func EnqueueAuditCleanupJob(q AuditCleanupEnqueuer, retentionDays int) JobFunc {
	return func(context.Context) error {
		_, err := q.EnqueueAuditCleanup(retentionDays)
		return err
	}
}
