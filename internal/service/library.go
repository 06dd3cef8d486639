// Package service implements the business logic of the BookNest API.
// Services validate input, enforce circulation rules, and orchestrate the
// catalog store; they never touch the data file or the HTTP layer directly.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"booknest/internal/domain"
	"booknest/internal/repo"
)

// Loan period bounds, in days. The caller may pass zero to get the default.
const (
	DefaultLoanDays = 14
	MinLoanDays     = 1
	MaxLoanDays     = 90
)

// ListFilter narrows the book listing. Zero value means no filtering.
type ListFilter struct {
	// Query is matched case-insensitively as a substring of title, author,
	// or ISBN. Plain linear scan; the catalog holds tens of records.
	Query string

	// Genre, when set, must match exactly.
	Genre string

	// Status is one of "", "available", "borrowed", "overdue".
	Status string
}

// LibraryService implements catalog and circulation operations.
type LibraryService struct {
	catalog repo.LibraryRepo

	// now is swappable in tests so due dates are deterministic.
	now func() time.Time
}

// NewLibraryService constructs a LibraryService backed by the given store.
func NewLibraryService(catalog repo.LibraryRepo) *LibraryService {
	return &LibraryService{catalog: catalog, now: time.Now}
}

// List returns the books matching filter, in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LibraryService) List(ctx context.Context, filter ListFilter) ([]domain.Book, error) {
	switch filter.Status {
	case "", "available", "borrowed", "overdue":
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}

	books, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LibraryService.List: %w", err)
	}

	today := domain.NewDate(s.now())
	out := []domain.Book{}
	for _, b := range books {
		if matchesFilter(b, filter, today) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Get returns a single book by ID.
// Returns domain.ErrNotFound if no book with that ID exists.
func (s *LibraryService) Get(ctx context.Context, id string) (domain.Book, error) {
	book, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.Get: %w", err)
	}
	return book, nil
}

// Create validates the book and adds it to the catalog. When book.ID is
// empty an ID is assigned: a zero-padded running counter, falling back to a
// random UUID if deletions have made the counter value collide.
// Returns domain.ErrValidation if input violates business rules.
func (s *LibraryService) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	if err := validateBook(book); err != nil {
		return domain.Book{}, err
	}

	if book.ID == "" {
		id, err := s.nextID(ctx)
		if err != nil {
			return domain.Book{}, fmt.Errorf("service.LibraryService.Create: %w", err)
		}
		book.ID = id
	}

	created, err := s.catalog.Create(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.Create: %w", err)
	}
	return created, nil
}

// Update validates and replaces an existing book, preserving its position.
// Circulation fields are carried over from the stored record: editing a
// book never silently changes who borrowed it.
// Returns domain.ErrNotFound if the book does not exist.
func (s *LibraryService) Update(ctx context.Context, id string, book domain.Book) (domain.Book, error) {
	current, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.Update: %w", err)
	}

	book.ID = id
	book.Borrowed = current.Borrowed
	book.Borrower = current.Borrower
	book.DueDate = current.DueDate

	if err := validateBook(book); err != nil {
		return domain.Book{}, err
	}

	updated, err := s.catalog.Update(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.Update: %w", err)
	}
	return updated, nil
}

// SetSummary stores summary text on an existing book, leaving every other
// field untouched. Used by the AI summary endpoint after a successful
// generation. Returns domain.ErrNotFound if the book does not exist.
func (s *LibraryService) SetSummary(ctx context.Context, id, summary string) (domain.Book, error) {
	book, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.SetSummary: %w", err)
	}
	book.Summary = summary
	updated, err := s.catalog.Update(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.SetSummary: %w", err)
	}
	return updated, nil
}

// Delete removes a book by ID. Borrowing history referencing it is kept.
// Returns domain.ErrNotFound if the book does not exist.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LibraryService.Delete: %w", err)
	}
	return nil
}

// CheckOut lends the book to borrower for the given number of days
// (zero means DefaultLoanDays). Returns domain.ErrValidation for an empty
// borrower or a loan period outside [MinLoanDays, MaxLoanDays],
// domain.ErrNotFound for an unknown ID, and domain.ErrConflict when the
// book is already borrowed.
func (s *LibraryService) CheckOut(ctx context.Context, id, borrower string, days int) (domain.Book, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return domain.Book{}, fmt.Errorf("%w: borrower name is required", domain.ErrValidation)
	}
	if days == 0 {
		days = DefaultLoanDays
	}
	if days < MinLoanDays || days > MaxLoanDays {
		return domain.Book{}, fmt.Errorf("%w: loan period must be between %d and %d days", domain.ErrValidation, MinLoanDays, MaxLoanDays)
	}

	today := domain.NewDate(s.now())
	book, err := s.catalog.CheckOut(ctx, id, borrower, today, today.AddDays(days))
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.CheckOut: %w", err)
	}
	return book, nil
}

// CheckIn returns a borrowed book. Checking in a book that is already
// available is an idempotent no-op.
// Returns domain.ErrNotFound if the book does not exist.
func (s *LibraryService) CheckIn(ctx context.Context, id string) (domain.Book, error) {
	book, err := s.catalog.CheckIn(ctx, id, domain.NewDate(s.now()))
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.LibraryService.CheckIn: %w", err)
	}
	return book, nil
}

// History returns all circulation events, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LibraryService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.catalog.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LibraryService.History: %w", err)
	}
	if entries == nil {
		return []domain.HistoryEntry{}, nil
	}
	return entries, nil
}

// nextID produces a zero-padded counter ID derived from the collection
// size ("0001", "0002", ...). After deletions the counter can point at a
// taken ID; a random UUID keeps the uniqueness contract in that case.
func (s *LibraryService) nextID(ctx context.Context) (string, error) {
	books, err := s.catalog.List(ctx)
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("%04d", len(books)+1)
	for _, b := range books {
		if b.ID == id {
			return uuid.NewString(), nil
		}
	}
	return id, nil
}

// validateBook enforces business rules common to Create and Update.
//   - Title, author, and genre must be non-empty (whitespace-only rejected).
//   - Circulation fields must be consistent: a borrowed book carries a
//     borrower and a due date, an available one carries neither.
func validateBook(book domain.Book) error {
	if strings.TrimSpace(book.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(book.Author) == "" {
		return fmt.Errorf("%w: author is required", domain.ErrValidation)
	}
	if strings.TrimSpace(book.Genre) == "" {
		return fmt.Errorf("%w: genre is required", domain.ErrValidation)
	}
	if book.Borrowed && (strings.TrimSpace(book.Borrower) == "" || book.DueDate == nil) {
		return fmt.Errorf("%w: a borrowed book needs a borrower and a due date", domain.ErrValidation)
	}
	if !book.Borrowed && (book.Borrower != "" || book.DueDate != nil) {
		return fmt.Errorf("%w: an available book cannot carry borrower details", domain.ErrValidation)
	}
	return nil
}

// matchesFilter applies ListFilter to one book.
func matchesFilter(b domain.Book, f ListFilter, today domain.Date) bool {
	if f.Genre != "" && b.Genre != f.Genre {
		return false
	}
	switch f.Status {
	case "available":
		if b.Borrowed {
			return false
		}
	case "borrowed":
		if !b.Borrowed {
			return false
		}
	case "overdue":
		if !b.Overdue(today) {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) &&
			!strings.Contains(strings.ToLower(b.ISBN), q) {
			return false
		}
	}
	return true
}
