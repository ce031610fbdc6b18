// Package catalog implements the library catalog: uniqueness of ISBNs,
// the mutations allowed on a record, and the undo history.
//
// The Store is the single source of truth. The service keeps no copy of
// the records; the only in-memory state is the undo history, which lives
// as long as the Service value does.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrlokans/librarian/internal/entities"
)

// Operation names a catalog mutation.
type Operation string

const (
	OpAdd       Operation = "add"
	OpDelete    Operation = "delete"
	OpUpdate    Operation = "update"
	OpAttachPDF Operation = "attach_pdf"
)

// UndoEntry records an Add or Delete together with the record as it was
// at the time of the mutation.
type UndoEntry struct {
	Op   Operation     `json:"op"`
	Book entities.Book `json:"book"`
}

// BookSummary is what FindByISBN returns.
type BookSummary struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// Mutation describes a successful change, delivered to listeners after the
// store has committed it. PreviousISBN is only set for OpUpdate.
type Mutation struct {
	Op           Operation
	Book         entities.Book
	PreviousISBN string
	Undo         bool
}

// Listener is notified of every successful mutation, in order.
type Listener func(Mutation)

type Option func(*Service)

// WithListener registers a mutation listener. Listeners run synchronously
// on the caller's goroutine and must not call back into the service.
func WithListener(l Listener) Option {
	return func(s *Service) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Service drives the Store and owns the undo history. Operations are
// serialised; each one completes against the store before the next starts.
type Service struct {
	store     Store
	listeners []Listener

	mu      sync.Mutex
	history []UndoEntry
	undoing bool
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts a new record and records an OpAdd undo entry.
func (s *Service) Add(ctx context.Context, title, author, isbn string) error {
	if err := validateDetails(title, author, isbn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(ctx, entities.Book{Title: title, Author: author, ISBN: isbn})
}

// Delete removes the record keyed by isbn and records an OpDelete undo
// entry holding the removed fields.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	if err := requireText("isbn", isbn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, isbn)
}

// UpdatePDFPath attaches a document path to a record. The path is stored as
// given. This change is not undoable.
func (s *Service) UpdatePDFPath(ctx context.Context, isbn, path string) error {
	if err := requireText("isbn", isbn); err != nil {
		return err
	}
	if err := requireText("pdf path", path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	affected, err := s.store.SetPDFPath(ctx, isbn, path)
	if err != nil {
		return fmt.Errorf("failed to set pdf path for %s: %w", isbn, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	book, err := s.store.FindByISBN(ctx, isbn)
	if err != nil {
		return fmt.Errorf("failed to reload book %s: %w", isbn, err)
	}
	if book != nil {
		s.notify(Mutation{Op: OpAttachPDF, Book: *book})
	}
	return nil
}

// GetPDFPath returns the attached document path and whether one is set.
func (s *Service) GetPDFPath(ctx context.Context, isbn string) (string, bool, error) {
	if err := requireText("isbn", isbn); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.lookup(ctx, isbn)
	if err != nil {
		return "", false, err
	}
	if !book.HasPDF() {
		return "", false, nil
	}
	return *book.PDFPath, true, nil
}

// Update rewrites title, author and ISBN of an existing record. Changing
// the ISBN to one held by a different record fails with ErrDuplicateKey.
// The attachment path is kept. This change is not undoable.
func (s *Service) Update(ctx context.Context, isbn, newTitle, newAuthor, newISBN string) error {
	if err := requireText("isbn", isbn); err != nil {
		return err
	}
	if err := validateDetails(newTitle, newAuthor, newISBN); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(ctx, isbn); err != nil {
		return err
	}

	if newISBN != isbn {
		taken, err := s.store.ExistsByISBN(ctx, newISBN)
		if err != nil {
			return fmt.Errorf("failed to check isbn %s: %w", newISBN, err)
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, newISBN)
		}
	}

	affected, err := s.store.UpdateDetails(ctx, isbn, newTitle, newAuthor, newISBN)
	if err != nil {
		return fmt.Errorf("failed to update book %s: %w", isbn, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	updated, err := s.store.FindByISBN(ctx, newISBN)
	if err != nil {
		return fmt.Errorf("failed to reload book %s: %w", newISBN, err)
	}
	if updated != nil {
		s.notify(Mutation{Op: OpUpdate, Book: *updated, PreviousISBN: isbn})
	}
	return nil
}

// Undo pops the most recent entry and replays its inverse through the
// regular Add/Delete paths. Those paths record their own undo entries, so
// undoing a Delete leaves an OpAdd on the history and undoing an Add
// leaves an OpDelete. The popped entry is returned even when the replay
// fails; it is not pushed back.
func (s *Service) Undo(ctx context.Context) (UndoEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return UndoEntry{}, ErrEmptyHistory
	}

	last := len(s.history) - 1
	entry := s.history[last]
	s.history = s.history[:last]

	s.undoing = true
	defer func() { s.undoing = false }()

	var err error
	switch entry.Op {
	case OpAdd:
		err = s.remove(ctx, entry.Book.ISBN)
	case OpDelete:
		err = s.add(ctx, entry.Book.Snapshot())
	default:
		err = fmt.Errorf("unsupported undo operation %q", entry.Op)
	}
	return entry, err
}

// FindByISBN returns the title, author and ISBN of a record, or nil when
// no record has that ISBN.
func (s *Service) FindByISBN(ctx context.Context, isbn string) (*BookSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.store.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to find book %s: %w", isbn, err)
	}
	if book == nil {
		return nil, nil
	}
	return &BookSummary{Title: book.Title, Author: book.Author, ISBN: book.ISBN}, nil
}

// ListAll returns every record exactly once, in store order.
func (s *Service) ListAll(ctx context.Context) ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// History returns a copy of the undo history, oldest first.
func (s *Service) History() []UndoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UndoEntry, len(s.history))
	for i, e := range s.history {
		out[i] = UndoEntry{Op: e.Op, Book: e.Book.Snapshot()}
	}
	return out
}

// add and remove assume s.mu is held.

func (s *Service) add(ctx context.Context, book entities.Book) error {
	exists, err := s.store.ExistsByISBN(ctx, book.ISBN)
	if err != nil {
		return fmt.Errorf("failed to check isbn %s: %w", book.ISBN, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, book.ISBN)
	}

	if err := s.store.Create(ctx, &book); err != nil {
		return fmt.Errorf("failed to add book %s: %w", book.ISBN, err)
	}

	s.history = append(s.history, UndoEntry{Op: OpAdd, Book: book.Snapshot()})
	s.notify(Mutation{Op: OpAdd, Book: book.Snapshot(), Undo: s.undoing})
	return nil
}

func (s *Service) remove(ctx context.Context, isbn string) error {
	removed, err := s.store.Remove(ctx, isbn)
	if err != nil {
		return fmt.Errorf("failed to delete book %s: %w", isbn, err)
	}
	if removed == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	s.history = append(s.history, UndoEntry{Op: OpDelete, Book: removed.Snapshot()})
	s.notify(Mutation{Op: OpDelete, Book: removed.Snapshot(), Undo: s.undoing})
	return nil
}

func (s *Service) lookup(ctx context.Context, isbn string) (*entities.Book, error) {
	book, err := s.store.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to find book %s: %w", isbn, err)
	}
	if book == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}
	return book, nil
}

func (s *Service) notify(m Mutation) {
	for _, l := range s.listeners {
		l(m)
	}
}
