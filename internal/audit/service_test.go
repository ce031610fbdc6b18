package audit

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/catalog"
	auditRepo "github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCatalog,
		Action:      "book_add",
		Description: "Test event",
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, svc.Log(event))
	assert.Len(t, event.CorrelationID, 36)

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "book_add", saved.Action)
	assert.Equal(t, event.CorrelationID, saved.CorrelationID)
}

func TestService_CatalogListener(t *testing.T) {
	svc, db := setupTestService(t)
	listener := svc.CatalogListener()

	pdf := "/a.pdf"
	listener(catalog.Mutation{Op: catalog.OpAdd, Book: entities.Book{Title: "Dune", Author: "Herbert", ISBN: "111"}})
	listener(catalog.Mutation{Op: catalog.OpUpdate, Book: entities.Book{Title: "Dune", Author: "Herbert", ISBN: "222", PDFPath: &pdf}, PreviousISBN: "111"})
	listener(catalog.Mutation{Op: catalog.OpAdd, Book: entities.Book{Title: "Dune", Author: "Herbert", ISBN: "333"}, Undo: true})
	svc.Flush()

	var events []entities.AuditEvent
	require.NoError(t, db.Order("entity_key ASC").Find(&events).Error)
	require.Len(t, events, 3)

	assert.Equal(t, "book_add", events[0].Action)
	assert.Equal(t, "111", events[0].EntityKey)
	assert.Equal(t, entities.AuditEventCatalog, events[0].EventType)
	assert.Contains(t, events[0].Description, `"Dune"`)

	assert.Equal(t, "book_update", events[1].Action)
	assert.Contains(t, events[1].Description, "111 -> 222")
	assert.Contains(t, events[1].Metadata, `"previous_isbn":"111"`)
	assert.Contains(t, events[1].Metadata, `"pdf_path":"/a.pdf"`)

	assert.Equal(t, "book_undo_add", events[2].Action)
	assert.True(t, strings.HasSuffix(events[2].Description, "via undo"))
}

func TestService_LogReport(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful report", func(t *testing.T) {
		svc.LogReport("books_list.html", 3, nil)
		svc.Flush()

		var event entities.AuditEvent
		require.NoError(t, db.Where("status = ?", entities.AuditStatusSuccess).First(&event).Error)
		assert.Equal(t, entities.AuditEventReport, event.EventType)
		assert.Equal(t, "Rendered 3 books to books_list.html", event.Description)
	})

	t.Run("failed report", func(t *testing.T) {
		svc.LogReport("books_list.html", 0, errors.New("permission denied"))
		svc.Flush()

		var event entities.AuditEvent
		require.NoError(t, db.Where("status = ?", entities.AuditStatusFailed).First(&event).Error)
		assert.Contains(t, event.ErrorMsg, "permission denied")
	})
}

func TestService_GetEventsForISBN(t *testing.T) {
	svc, _ := setupTestService(t)
	listener := svc.CatalogListener()

	listener(catalog.Mutation{Op: catalog.OpAdd, Book: entities.Book{Title: "A", Author: "B", ISBN: "1"}})
	listener(catalog.Mutation{Op: catalog.OpDelete, Book: entities.Book{Title: "A", Author: "B", ISBN: "1"}})
	listener(catalog.Mutation{Op: catalog.OpAdd, Book: entities.Book{Title: "C", Author: "D", ISBN: "2"}})
	svc.Flush()

	events, total, err := svc.GetEventsForISBN("1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventCatalog,
		Action:    "old_event",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventCatalog,
		Action:    "new_event",
	}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Model(&entities.AuditEvent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "this is...", truncate("this is a long string", 10))
}
