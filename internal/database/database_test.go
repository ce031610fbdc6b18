package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
)

func TestNewDatabase_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	db, err := NewDatabase(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.AuditEvent{}))
	assert.True(t, db.DB.Migrator().HasColumn(&entities.Book{}, "pdf_path"))
	assert.True(t, db.DB.Migrator().HasIndex(&entities.Book{}, "ISBN"))
}

func TestNewDatabase_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	first, err := NewDatabase(dbPath, false)
	require.NoError(t, err)
	require.NoError(t, first.DB.Create(&entities.Book{Title: "Dune", Author: "Herbert", ISBN: "111"}).Error)
	require.NoError(t, first.Close())

	second, err := NewDatabase(dbPath, false)
	require.NoError(t, err)
	defer second.Close()

	var count int64
	require.NoError(t, second.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDatabase_Ping(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "library.db"), false)
	require.NoError(t, err)

	assert.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}
