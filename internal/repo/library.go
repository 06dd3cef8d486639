// Package repo contains all persistence logic for the BookNest API.
// The catalog is an in-memory aggregate mirrored to a single JSON file.
// No business logic lives here, only storage, type mapping, and the
// circulation bookkeeping that must stay atomic with a save.
package repo

import (
	"context"

	"booknest/internal/domain"
)

// LibraryRepo defines the persistence operations for the book catalog and
// its borrowing history. The service layer depends on this interface, not
// the concrete file-backed implementation, which allows the services to be
// unit-tested with a mock.
type LibraryRepo interface {
	// List returns a snapshot of all books in insertion order.
	List(ctx context.Context) ([]domain.Book, error)

	// GetByID retrieves a single book by its ID.
	// Returns domain.ErrNotFound if no book with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Book, error)

	// Create appends a new book and persists.
	// Returns domain.ErrConflict if the ID is already taken.
	Create(ctx context.Context, book domain.Book) (domain.Book, error)

	// Update replaces the stored book with the same ID in place, preserving
	// its position in the collection, and persists.
	// Returns domain.ErrNotFound if no book with that ID exists.
	Update(ctx context.Context, book domain.Book) (domain.Book, error)

	// Delete removes a book by ID and persists. History entries referencing
	// the book are retained: they are snapshots, not foreign keys.
	// Returns domain.ErrNotFound if no book with that ID exists.
	Delete(ctx context.Context, id string) error

	// CheckOut marks the book as borrowed, appends the matching checkout
	// history entry, and persists once.
	// Returns domain.ErrNotFound if the book does not exist and
	// domain.ErrConflict if it is already borrowed.
	CheckOut(ctx context.Context, id, borrower string, checkoutDate, dueDate domain.Date) (domain.Book, error)

	// CheckIn clears the borrowed state, appends the matching checkin
	// history entry, and persists once. Checking in a book that is not
	// borrowed is an idempotent no-op and records no history.
	// Returns domain.ErrNotFound if the book does not exist.
	CheckIn(ctx context.Context, id string, returnDate domain.Date) (domain.Book, error)

	// History returns a snapshot of all circulation events, oldest first.
	History(ctx context.Context) ([]domain.HistoryEntry, error)
}
