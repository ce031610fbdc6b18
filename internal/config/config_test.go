package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 5, cfg.Global.ShutdownTimeoutInSeconds)

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.False(t, cfg.Database.LogSQL)

	assert.Equal(t, DefaultReportPath, cfg.Report.Path)
	assert.True(t, cfg.Report.OpenBrowser)
	assert.False(t, cfg.Report.ScheduleEnabled)
	assert.Equal(t, DefaultReportSchedule, cfg.Report.Schedule)

	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)

	assert.NotEmpty(t, cfg.Shell.HistoryPath)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/catalog.db")
	t.Setenv("DATABASE_LOG_SQL", "true")
	t.Setenv("REPORT_PATH", "/tmp/report.html")
	t.Setenv("REPORT_OPEN_BROWSER", "false")
	t.Setenv("REPORT_SCHEDULE_ENABLED", "true")
	t.Setenv("REPORT_SCHEDULE", "*/15 * * * *")
	t.Setenv("AUDIT_ENABLED", "false")
	t.Setenv("TASKS_ENABLED", "false")
	t.Setenv("TASK_WORKERS", "3")
	t.Setenv("TASK_RELEASE_AFTER", "30s")
	t.Setenv("SHELL_HISTORY_PATH", "/tmp/history")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.Path)
	assert.True(t, cfg.Database.LogSQL)
	assert.Equal(t, "/tmp/report.html", cfg.Report.Path)
	assert.False(t, cfg.Report.OpenBrowser)
	assert.True(t, cfg.Report.ScheduleEnabled)
	assert.Equal(t, "*/15 * * * *", cfg.Report.Schedule)
	assert.False(t, cfg.Audit.Enabled)
	assert.False(t, cfg.Tasks.Enabled)
	assert.Equal(t, 3, cfg.Tasks.Workers)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, "/tmp/history", cfg.Shell.HistoryPath)
}
