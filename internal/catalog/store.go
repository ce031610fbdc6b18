package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/entities"
)

// Store is the durable side of the catalog. Lookups that match nothing
// return a nil book and a nil error. Methods that change rows report how
// many rows they touched.
type Store interface {
	Create(ctx context.Context, book *entities.Book) error
	FindByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Remove(ctx context.Context, isbn string) (*entities.Book, error)
	UpdateDetails(ctx context.Context, isbn, title, author, newISBN string) (int64, error)
	SetPDFPath(ctx context.Context, isbn, path string) (int64, error)
	GetAll(ctx context.Context) ([]entities.Book, error)
}
