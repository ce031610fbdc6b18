package entrypoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/audit"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	auditrepo "github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/report"
)

func newAuditService(t *testing.T) (*audit.Service, *report.Generator) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "library.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := catalog.NewService(books.NewRepository(db.DB))
	return audit.NewService(auditrepo.NewRepository(db.DB)), report.NewGenerator(svc, nil)
}

func TestBuildScheduler_NothingEnabled(t *testing.T) {
	cfg := &config.Config{}

	sched, err := buildScheduler(cfg, nil, nil, nil)
	require.NoError(t, err)

	assert.Error(t, sched.RunNow("report_refresh"))
	assert.Error(t, sched.RunNow("audit_cleanup"))
}

func TestBuildScheduler_InProcessJobs(t *testing.T) {
	auditService, generator := newAuditService(t)
	cfg := &config.Config{
		Report: config.Report{
			Path:            filepath.Join(t.TempDir(), "books_list.html"),
			ScheduleEnabled: true,
			Schedule:        "0 * * * *",
		},
		Audit: config.Audit{Enabled: true, RetentionDays: 30},
	}

	sched, err := buildScheduler(cfg, generator, auditService, nil)
	require.NoError(t, err)

	// Empty catalog: the report job succeeds without writing.
	assert.NoError(t, sched.RunNow("report_refresh"))
	assert.NoError(t, sched.RunNow("audit_cleanup"))
}

func TestBuildScheduler_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{
		Report: config.Report{ScheduleEnabled: true, Schedule: "whenever"},
	}

	_, err := buildScheduler(cfg, nil, nil, nil)
	assert.Error(t, err)
}
