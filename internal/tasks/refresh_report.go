package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/report"
)

// ReportFileWriter regenerates the report file.
type ReportFileWriter interface {
	WriteFile(ctx context.Context, path string) (report.Result, error)
}

// ReportAuditor records report generations. Optional.
type ReportAuditor interface {
	LogReport(path string, books int, err error)
}

// RefreshReportTask rewrites the HTML report from the current catalog.
// Reason names what triggered it ("add", "delete", "schedule", "api", ...).
type RefreshReportTask struct {
	Reason string `json:"reason"`
}

func (t RefreshReportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_report",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   6 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// RefreshReportProcessor writes the report to path. An empty catalog is
// not a failure: there is simply nothing to write, so the task succeeds
// without retrying.
func RefreshReportProcessor(writer ReportFileWriter, path string, auditor ReportAuditor) backlite.QueueProcessor[RefreshReportTask] {
	return func(ctx context.Context, task RefreshReportTask) error {
		if writer == nil {
			return errors.New("report writer not configured")
		}

		result, err := writer.WriteFile(ctx, path)
		if errors.Is(err, report.ErrEmptyCatalog) {
			log.Printf("[TASK] Report refresh (%s) skipped: catalog is empty", task.Reason)
			return nil
		}
		if auditor != nil {
			auditor.LogReport(path, result.BooksRendered, err)
		}
		if err != nil {
			return err
		}

		log.Printf("[TASK] Report refreshed (%s): %d books written to %s", task.Reason, result.BooksRendered, result.Path)
		return nil
	}
}

func NewRefreshReportQueue(writer ReportFileWriter, path string, auditor ReportAuditor) backlite.Queue {
	return backlite.NewQueue(RefreshReportProcessor(writer, path, auditor))
}

// ReportEnqueuer is satisfied by *Client.
type ReportEnqueuer interface {
	EnqueueReportRefresh(reason string) (string, error)
}

// RefreshOnMutation returns a catalog listener that queues a report
// refresh after every committed change.
func RefreshOnMutation(q ReportEnqueuer) catalog.Listener {
	return func(m catalog.Mutation) {
		reason := string(m.Op)
		if m.Undo {
			reason = "undo_" + reason
		}
		if _, err := q.EnqueueReportRefresh(reason); err != nil {
			log.Printf("Failed to queue report refresh after %s of %s: %v", m.Op, m.Book.ISBN, err)
		}
	}
}
