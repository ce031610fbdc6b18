package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
)

// AuditReader reads the audit trail.
type AuditReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForISBN(isbn string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// GET /api/audit?isbn=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset := parsePagination(c, 25, 100)

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if isbn := c.Query("isbn"); isbn != "" {
		events, total, err = ac.reader.GetEventsForISBN(isbn, limit, offset)
	} else {
		events, total, err = ac.reader.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, paginated(events, total, limit, offset))
}
