package catalog

import "errors"

// Errors reported back to the presentation layer. All of them describe an
// expected condition the user can act on; wrap with %w and test with errors.Is.
var (
	ErrDuplicateKey = errors.New("a book with this ISBN already exists")
	ErrNotFound     = errors.New("book not found")
	ErrEmptyHistory = errors.New("no operations to undo")
	ErrInvalidInput = errors.New("invalid input")
)
