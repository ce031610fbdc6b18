package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultAuditRetentionDays applies when a trim task carries no retention.
const DefaultAuditRetentionDays = 90

// AuditEventCleaner deletes audit events older than a retention window.
// Satisfied by *audit.Service.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// TrimAuditTrailTask drops catalog audit events that fell out of the
// retention window.
type TrimAuditTrailTask struct {
	RetentionDays int `json:"retention_days"`
}

// Days is the effective retention in days.
func (t TrimAuditTrailTask) Days() int {
	if t.RetentionDays <= 0 {
		return DefaultAuditRetentionDays
	}
	return t.RetentionDays
}

func (t TrimAuditTrailTask) Retention() time.Duration {
	return time.Duration(t.Days()) * 24 * time.Hour
}

func (t TrimAuditTrailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "trim_audit_trail",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func TrimAuditTrailProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[TrimAuditTrailTask] {
	return func(ctx context.Context, task TrimAuditTrailTask) error {
		if cleaner == nil {
			return errors.New("audit trail is disabled, nothing to trim")
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		deleted, err := cleaner.DeleteOldEvents(task.Retention())
		if err != nil {
			return fmt.Errorf("failed to trim audit trail to %d days: %w", task.Days(), err)
		}

		if deleted == 0 {
			return nil
		}
		cutoff := time.Now().Add(-task.Retention()).Format(time.DateOnly)
		log.Printf("[TASK] Audit trail trimmed: %d catalog events recorded before %s", deleted, cutoff)
		return nil
	}
}

func NewTrimAuditTrailQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(TrimAuditTrailProcessor(cleaner))
}
