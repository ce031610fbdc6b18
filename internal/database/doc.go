// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go   # Connection setup and schema creation
//	├── books/        # Catalog record operations (the Catalog Store)
//	└── audit/        # Audit trail of catalog mutations
//
// # Usage
//
//	db, err := database.NewDatabase("./library_management.db", false)
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// The books table is created on first run and left alone afterwards; there
// is no migration path beyond that.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in NewDatabase's AutoMigrate list
//  5. Add compile-time interface check in internal/interfaces
package database
