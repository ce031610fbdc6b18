package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/report"
)

// ReportRenderer renders the catalog report.
type ReportRenderer interface {
	Render(ctx context.Context, w io.Writer) (report.Result, error)
	WriteFile(ctx context.Context, path string) (report.Result, error)
}

// ReportQueue schedules a background report refresh.
type ReportQueue interface {
	EnqueueReportRefresh(reason string) (string, error)
}

// ReportAuditor records report generations.
type ReportAuditor interface {
	LogReport(path string, books int, err error)
}

type ReportController struct {
	renderer ReportRenderer
	path     string
	queue    ReportQueue
	auditor  ReportAuditor
}

func NewReportController(renderer ReportRenderer, path string, queue ReportQueue, auditor ReportAuditor) *ReportController {
	return &ReportController{
		renderer: renderer,
		path:     path,
		queue:    queue,
		auditor:  auditor,
	}
}

// Generate handles POST /api/report
// With ?async=true and a task queue configured the write is queued and the
// task ID returned; otherwise the file is written before responding.
func (rc *ReportController) Generate(c *gin.Context) {
	if c.Query("async") == "true" && rc.queue != nil {
		id, err := rc.queue.EnqueueReportRefresh("api")
		if err != nil {
			respondInternalError(c, err, "enqueue report")
			return
		}
		respondAccepted(c, "report refresh queued", gin.H{"task_id": id})
		return
	}

	result, err := rc.renderer.WriteFile(c.Request.Context(), rc.path)
	if rc.auditor != nil && !errors.Is(err, report.ErrEmptyCatalog) {
		rc.auditor.LogReport(rc.path, result.BooksRendered, err)
	}
	if errors.Is(err, report.ErrEmptyCatalog) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No books found.", Code: CodeEmptyCatalog})
		return
	}
	if err != nil {
		respondInternalError(c, err, "write report")
		return
	}
	c.JSON(http.StatusOK, result)
}

// View handles GET /report
// The page is rendered from the current catalog on every request.
func (rc *ReportController) View(c *gin.Context) {
	var buf bytes.Buffer
	_, err := rc.renderer.Render(c.Request.Context(), &buf)
	if errors.Is(err, report.ErrEmptyCatalog) {
		c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte("No books found."))
		return
	}
	if err != nil {
		respondInternalError(c, err, "render report")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
