package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"

	"booknest/internal/domain"
)

// FileRepo is the JSON-file implementation of LibraryRepo. The in-memory
// aggregate is the source of truth; every mutation rewrites the whole file.
// A failed write is logged but never rolls back the in-memory change, so a
// session keeps working even when the disk does not.
//
// The mutex serializes access within one process. Two processes writing the
// same file race last-write-wins; guarding against that is out of scope for
// the data sizes this store is built for.
type FileRepo struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	books   []domain.Book
	history []domain.HistoryEntry
}

// NewFileRepo constructs a FileRepo persisting to path. Call Load before
// serving traffic to populate the aggregate from an existing file.
func NewFileRepo(path string, logger *slog.Logger) *FileRepo {
	return &FileRepo{path: path, logger: logger}
}

var _ LibraryRepo = (*FileRepo)(nil)

// libraryFile is the on-disk document shape. Books are kept as raw messages
// on read so one malformed entry can be skipped without abandoning the rest.
type libraryFile struct {
	Books   []json.RawMessage `json:"books"`
	History []json.RawMessage `json:"borrowing_history"`
}

// bookRecord is the wire form of a domain.Book.
type bookRecord struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Author   string       `json:"author"`
	Genre    string       `json:"genre"`
	Year     int          `json:"year"`
	ISBN     string       `json:"isbn"`
	Tags     []string     `json:"tags"`
	Borrowed bool         `json:"is_borrowed"`
	Borrower string       `json:"borrower_name"`
	DueDate  *domain.Date `json:"due_date"`
	Summary  string       `json:"summary"`
}

// historyRecord is the wire form of a domain.HistoryEntry.
type historyRecord struct {
	BookID       string       `json:"book_id"`
	BookTitle    string       `json:"book_title"`
	Borrower     string       `json:"borrower_name"`
	Action       string       `json:"action"`
	CheckoutDate *domain.Date `json:"checkout_date,omitempty"`
	DueDate      *domain.Date `json:"due_date,omitempty"`
	ReturnDate   *domain.Date `json:"return_date,omitempty"`
}

// Load reads the data file into the aggregate. A missing file is not an
// error: the catalog starts empty. A malformed document or malformed
// individual records are recovered best-effort: offending records are
// skipped with a warning and the rest of the file is kept.
func (r *FileRepo) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.InfoContext(ctx, "no data file found, starting with empty catalog", "path", r.path)
			return nil
		}
		return fmt.Errorf("repo.FileRepo.Load: read %s: %w", r.path, err)
	}

	var doc libraryFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.logger.WarnContext(ctx, "data file is not valid JSON, starting with empty catalog",
			"path", r.path, "error", err)
		return nil
	}

	seen := make(map[string]bool, len(doc.Books))
	for i, msg := range doc.Books {
		var rec bookRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			r.logger.WarnContext(ctx, "skipping malformed book record", "index", i, "error", err)
			continue
		}
		if err := validateRecord(rec); err != nil {
			r.logger.WarnContext(ctx, "skipping incomplete book record", "index", i, "title", rec.Title, "error", err)
			continue
		}
		if seen[rec.ID] {
			r.logger.WarnContext(ctx, "skipping book with duplicate id", "index", i, "id", rec.ID)
			continue
		}
		seen[rec.ID] = true
		r.books = append(r.books, recordToBook(rec))
	}

	for i, msg := range doc.History {
		var rec historyRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			r.logger.WarnContext(ctx, "skipping malformed history record", "index", i, "error", err)
			continue
		}
		r.history = append(r.history, recordToHistory(rec))
	}

	r.logger.InfoContext(ctx, "catalog loaded",
		"path", r.path, "books", len(r.books), "history_entries", len(r.history))
	return nil
}

// List returns a copy of all books in insertion order.
func (r *FileRepo) List(ctx context.Context) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Book, len(r.books))
	for i, b := range r.books {
		out[i] = cloneBook(b)
	}
	return out, nil
}

// GetByID returns the book with the given ID.
func (r *FileRepo) GetByID(ctx context.Context, id string) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneBook(r.books[i]), nil
}

// Create appends a new book and rewrites the data file.
func (r *FileRepo) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(book.ID) >= 0 {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.Create: %w: id %q already exists", domain.ErrConflict, book.ID)
	}
	r.books = append(r.books, cloneBook(book))
	r.persist(ctx)
	return book, nil
}

// Update replaces the stored book in place, keeping its collection position.
func (r *FileRepo) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(book.ID)
	if i < 0 {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.Update: %w", domain.ErrNotFound)
	}
	r.books[i] = cloneBook(book)
	r.persist(ctx)
	return book, nil
}

// Delete removes the book with the given ID. History referencing it stays.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("repo.FileRepo.Delete: %w", domain.ErrNotFound)
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	r.persist(ctx)
	return nil
}

// CheckOut marks the book borrowed and appends the checkout history entry.
// The mutation and the history append happen under one lock and one save.
func (r *FileRepo) CheckOut(ctx context.Context, id, borrower string, checkoutDate, dueDate domain.Date) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.CheckOut: %w", domain.ErrNotFound)
	}
	if r.books[i].Borrowed {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.CheckOut: %w: book %q is already borrowed", domain.ErrConflict, id)
	}

	due := dueDate
	r.books[i].Borrowed = true
	r.books[i].Borrower = borrower
	r.books[i].DueDate = &due

	co := checkoutDate
	r.history = append(r.history, domain.HistoryEntry{
		BookID:       id,
		BookTitle:    r.books[i].Title,
		Borrower:     borrower,
		Action:       domain.ActionCheckout,
		CheckoutDate: &co,
		DueDate:      &due,
	})

	r.persist(ctx)
	return cloneBook(r.books[i]), nil
}

// CheckIn clears the borrowed state and appends the checkin history entry.
// Checking in an available book is an idempotent no-op.
func (r *FileRepo) CheckIn(ctx context.Context, id string, returnDate domain.Date) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Book{}, fmt.Errorf("repo.FileRepo.CheckIn: %w", domain.ErrNotFound)
	}
	if !r.books[i].Borrowed {
		return cloneBook(r.books[i]), nil
	}

	borrower := r.books[i].Borrower
	r.books[i].Borrowed = false
	r.books[i].Borrower = ""
	r.books[i].DueDate = nil

	ret := returnDate
	r.history = append(r.history, domain.HistoryEntry{
		BookID:     id,
		BookTitle:  r.books[i].Title,
		Borrower:   borrower,
		Action:     domain.ActionCheckin,
		ReturnDate: &ret,
	})

	r.persist(ctx)
	return cloneBook(r.books[i]), nil
}

// History returns a copy of all circulation events, oldest first.
func (r *FileRepo) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.HistoryEntry, len(r.history))
	copy(out, r.history)
	return out, nil
}

// indexOf returns the collection index of the book with the given ID, or -1.
// Callers must hold r.mu.
func (r *FileRepo) indexOf(id string) int {
	for i, b := range r.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// persist rewrites the whole data file from the current aggregate.
// Callers must hold r.mu. Write failures are logged, not returned: the
// in-memory state remains the source of truth for the rest of the session.
func (r *FileRepo) persist(ctx context.Context) {
	if err := r.writeFile(); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist catalog, in-memory state retained",
			"path", r.path, "error", err)
	}
}

// writeFile marshals the aggregate and replaces the data file via a
// temp-file rename, so a crash mid-write never truncates existing data.
func (r *FileRepo) writeFile() (err error) {
	books := make([]bookRecord, len(r.books))
	for i, b := range r.books {
		books[i] = bookToRecord(b)
	}
	history := make([]historyRecord, len(r.history))
	for i, h := range r.history {
		history[i] = historyToRecord(h)
	}

	doc := struct {
		Books   []bookRecord    `json:"books"`
		History []historyRecord `json:"borrowing_history"`
	}{Books: books, History: history}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	err = enc.Encode(doc)
	err = multierr.Append(err, tmp.Close())
	if err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// validateRecord enforces the fields a book record cannot live without and
// the circulation invariant: borrowed exactly when borrower and due date
// are both set.
func validateRecord(rec bookRecord) error {
	switch {
	case rec.ID == "":
		return errors.New("missing id")
	case rec.Title == "":
		return errors.New("missing title")
	case rec.Author == "":
		return errors.New("missing author")
	case rec.Genre == "":
		return errors.New("missing genre")
	case rec.Borrowed && (rec.Borrower == "" || rec.DueDate == nil):
		return errors.New("borrowed without borrower or due date")
	case !rec.Borrowed && (rec.Borrower != "" || rec.DueDate != nil):
		return errors.New("borrower or due date set on available book")
	}
	return nil
}

func recordToBook(rec bookRecord) domain.Book {
	return domain.Book{
		ID:       rec.ID,
		Title:    rec.Title,
		Author:   rec.Author,
		Genre:    rec.Genre,
		Year:     rec.Year,
		ISBN:     rec.ISBN,
		Tags:     rec.Tags,
		Borrowed: rec.Borrowed,
		Borrower: rec.Borrower,
		DueDate:  rec.DueDate,
		Summary:  rec.Summary,
	}
}

func bookToRecord(b domain.Book) bookRecord {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return bookRecord{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Genre:    b.Genre,
		Year:     b.Year,
		ISBN:     b.ISBN,
		Tags:     tags,
		Borrowed: b.Borrowed,
		Borrower: b.Borrower,
		DueDate:  b.DueDate,
		Summary:  b.Summary,
	}
}

func recordToHistory(rec historyRecord) domain.HistoryEntry {
	return domain.HistoryEntry{
		BookID:       rec.BookID,
		BookTitle:    rec.BookTitle,
		Borrower:     rec.Borrower,
		Action:       domain.Action(rec.Action),
		CheckoutDate: rec.CheckoutDate,
		DueDate:      rec.DueDate,
		ReturnDate:   rec.ReturnDate,
	}
}

func historyToRecord(h domain.HistoryEntry) historyRecord {
	return historyRecord{
		BookID:       h.BookID,
		BookTitle:    h.BookTitle,
		Borrower:     h.Borrower,
		Action:       string(h.Action),
		CheckoutDate: h.CheckoutDate,
		DueDate:      h.DueDate,
		ReturnDate:   h.ReturnDate,
	}
}

// cloneBook copies a book including its tags slice and due-date pointer so
// callers can never mutate the aggregate through a returned value.
func cloneBook(b domain.Book) domain.Book {
	out := b
	if b.Tags != nil {
		out.Tags = append([]string(nil), b.Tags...)
	}
	if b.DueDate != nil {
		d := *b.DueDate
		out.DueDate = &d
	}
	return out
}
