package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
	calls     int
}

func (c *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	c.calls++
	c.retention = retention
	return c.deleted, c.err
}

func TestTrimAuditTrailTaskConfig(t *testing.T) {
	cfg := TrimAuditTrailTask{RetentionDays: 30}.Config()

	assert.Equal(t, "trim_audit_trail", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)
}

func TestTrimAuditTrailTask_Days(t *testing.T) {
	assert.Equal(t, 7, TrimAuditTrailTask{RetentionDays: 7}.Days())
	assert.Equal(t, DefaultAuditRetentionDays, TrimAuditTrailTask{}.Days())
	assert.Equal(t, DefaultAuditRetentionDays, TrimAuditTrailTask{RetentionDays: -1}.Days())
	assert.Equal(t, 48*time.Hour, TrimAuditTrailTask{RetentionDays: 2}.Retention())
}

func TestTrimAuditTrailProcessor(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 3}
	process := TrimAuditTrailProcessor(cleaner)

	assert.NoError(t, process(context.Background(), TrimAuditTrailTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)
}

func TestTrimAuditTrailProcessor_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	process := TrimAuditTrailProcessor(cleaner)

	assert.NoError(t, process(context.Background(), TrimAuditTrailTask{}))
	assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, cleaner.retention)
}

func TestTrimAuditTrailProcessor_CancelledContext(t *testing.T) {
	cleaner := &fakeCleaner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := TrimAuditTrailProcessor(cleaner)(ctx, TrimAuditTrailTask{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, cleaner.calls)
}

func TestTrimAuditTrailProcessor_Errors(t *testing.T) {
	assert.Error(t, TrimAuditTrailProcessor(nil)(context.Background(), TrimAuditTrailTask{}))

	boom := errors.New("locked")
	err := TrimAuditTrailProcessor(&fakeCleaner{err: boom})(context.Background(), TrimAuditTrailTask{RetentionDays: 30})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "30 days")
}
