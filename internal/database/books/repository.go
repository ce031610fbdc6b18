// Package books provides database operations for catalog records.
//
// This package implements the catalog.Store interface defined in
// internal/catalog/store.go.
//
// # Interface Implementation
//
//	var _ catalog.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByISBN(ctx, "9780441013593")
//
// Lookups that match nothing return a nil book and a nil error; callers
// decide whether absence is an error.
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all catalog record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new record. The surrogate ID is assigned by the store.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	book.ID = 0
	return r.db.WithContext(ctx).Create(book).Error
}

// FindByISBN retrieves a record by its ISBN.
func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ExistsByISBN reports whether a record with the given ISBN is stored.
func (r *Repository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count > 0, err
}

// Remove deletes the record with the given ISBN and returns it as it was
// just before deletion. Read and delete run in one transaction.
func (r *Repository) Remove(ctx context.Context, isbn string) (*entities.Book, error) {
	var removed *entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		err := tx.Where("isbn = ?", isbn).Take(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&entities.Book{}, book.ID).Error; err != nil {
			return err
		}
		removed = &book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// UpdateDetails rewrites title, author and ISBN of the record keyed by isbn
// in a single statement. pdf_path is left untouched.
func (r *Repository) UpdateDetails(ctx context.Context, isbn, title, author, newISBN string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("isbn = ?", isbn).
		Updates(map[string]any{
			"title":  title,
			"author": author,
			"isbn":   newISBN,
		})
	return result.RowsAffected, result.Error
}

// SetPDFPath stores the attachment path for the record keyed by isbn.
func (r *Repository) SetPDFPath(ctx context.Context, isbn, path string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("isbn = ?", isbn).
		Update("pdf_path", path)
	return result.RowsAffected, result.Error
}

// GetAll returns every record in insertion order.
func (r *Repository) GetAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error
	return books, err
}
