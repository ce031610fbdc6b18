package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/report"
)

type fakeWriter struct {
	paths []string
	err   error
}

func (w *fakeWriter) WriteFile(_ context.Context, path string) (report.Result, error) {
	w.paths = append(w.paths, path)
	if w.err != nil {
		return report.Result{}, w.err
	}
	return report.Result{Path: path, BooksRendered: 4}, nil
}

type fakeAuditor struct {
	books []int
	errs  []error
}

func (a *fakeAuditor) LogReport(_ string, books int, err error) {
	a.books = append(a.books, books)
	a.errs = append(a.errs, err)
}

type fakeEnqueuer struct {
	reasons []string
	err     error
}

func (q *fakeEnqueuer) EnqueueReportRefresh(reason string) (string, error) {
	q.reasons = append(q.reasons, reason)
	return "id", q.err
}

func TestRefreshReportTaskConfig(t *testing.T) {
	cfg := RefreshReportTask{Reason: "add"}.Config()

	assert.Equal(t, "refresh_report", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
	assert.True(t, cfg.Retention.OnlyFailed)
}

func TestRefreshReportProcessor(t *testing.T) {
	writer := &fakeWriter{}
	auditor := &fakeAuditor{}
	process := RefreshReportProcessor(writer, "books_list.html", auditor)

	require.NoError(t, process(context.Background(), RefreshReportTask{Reason: "add"}))

	assert.Equal(t, []string{"books_list.html"}, writer.paths)
	assert.Equal(t, []int{4}, auditor.books)
	assert.Equal(t, []error{nil}, auditor.errs)
}

func TestRefreshReportProcessor_EmptyCatalogSucceeds(t *testing.T) {
	auditor := &fakeAuditor{}
	process := RefreshReportProcessor(&fakeWriter{err: report.ErrEmptyCatalog}, "books_list.html", auditor)

	assert.NoError(t, process(context.Background(), RefreshReportTask{Reason: "delete"}))
	assert.Empty(t, auditor.books)
}

func TestRefreshReportProcessor_FailureIsRetried(t *testing.T) {
	boom := errors.New("read-only file system")
	auditor := &fakeAuditor{}
	process := RefreshReportProcessor(&fakeWriter{err: boom}, "books_list.html", auditor)

	err := process(context.Background(), RefreshReportTask{Reason: "add"})
	assert.ErrorIs(t, err, boom)
	require.Len(t, auditor.errs, 1)
	assert.ErrorIs(t, auditor.errs[0], boom)
}

func TestRefreshReportProcessor_NoWriter(t *testing.T) {
	process := RefreshReportProcessor(nil, "books_list.html", nil)
	assert.Error(t, process(context.Background(), RefreshReportTask{}))
}

func TestRefreshOnMutation(t *testing.T) {
	q := &fakeEnqueuer{}
	listener := RefreshOnMutation(q)

	listener(catalog.Mutation{Op: catalog.OpAdd, Book: entities.Book{ISBN: "1"}})
	listener(catalog.Mutation{Op: catalog.OpDelete, Book: entities.Book{ISBN: "1"}, Undo: true})
	listener(catalog.Mutation{Op: catalog.OpAttachPDF, Book: entities.Book{ISBN: "1"}})

	assert.Equal(t, []string{"add", "undo_delete", "attach_pdf"}, q.reasons)
}

func TestRefreshOnMutation_EnqueueErrorDoesNotPanic(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("queue closed")}
	listener := RefreshOnMutation(q)

	assert.NotPanics(t, func() {
		listener(catalog.Mutation{Op: catalog.OpUpdate, Book: entities.Book{ISBN: "2"}})
	})
}
