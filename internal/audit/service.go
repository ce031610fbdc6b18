package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	if event.CorrelationID == "" {
		event.CorrelationID = uuid.NewString()
	}
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.Log(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until every event handed to LogAsync has been written.
func (s *Service) Flush() {
	s.pending.Wait()
}

// CatalogListener returns a catalog.Listener that records each mutation.
func (s *Service) CatalogListener() catalog.Listener {
	return func(m catalog.Mutation) {
		s.LogAsync(mutationEvent(m))
	}
}

func mutationEvent(m catalog.Mutation) *entities.AuditEvent {
	action := "book_" + string(m.Op)
	if m.Undo {
		action = "book_undo_" + string(m.Op)
	}

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCatalog,
		Action:      action,
		Description: describe(m),
		EntityType:  "book",
		EntityKey:   m.Book.ISBN,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"book": m.Book}
	if m.PreviousISBN != "" {
		metadata["previous_isbn"] = m.PreviousISBN
	}
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}
	return event
}

func describe(m catalog.Mutation) string {
	var d string
	switch m.Op {
	case catalog.OpAdd:
		d = fmt.Sprintf("Added book %q (ISBN %s)", m.Book.Title, m.Book.ISBN)
	case catalog.OpDelete:
		d = fmt.Sprintf("Deleted book %q (ISBN %s)", m.Book.Title, m.Book.ISBN)
	case catalog.OpUpdate:
		d = fmt.Sprintf("Updated book %q (ISBN %s -> %s)", m.Book.Title, m.PreviousISBN, m.Book.ISBN)
	case catalog.OpAttachPDF:
		d = fmt.Sprintf("Attached PDF to book %q (ISBN %s)", m.Book.Title, m.Book.ISBN)
	default:
		d = fmt.Sprintf("%s on ISBN %s", m.Op, m.Book.ISBN)
	}
	if m.Undo {
		d += " via undo"
	}
	return truncate(d, 500)
}

// LogReport records a report generation.
func (s *Service) LogReport(path string, books int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReport,
		Action:      "report_generate",
		Description: truncate(fmt.Sprintf("Rendered %d books to %s", books, path), 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsForISBN retrieves the audit trail of one catalog key.
func (s *Service) GetEventsForISBN(isbn string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsForKey(isbn, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
