package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"booknest/internal/domain"
	"booknest/internal/handler"
	"booknest/internal/service"
)

// ---- mock services ---------------------------------------------------------

// mockLibraryServicer is a hand-written test double for handler.LibraryServicer.
type mockLibraryServicer struct {
	list       func(ctx context.Context, filter service.ListFilter) ([]domain.Book, error)
	get        func(ctx context.Context, id string) (domain.Book, error)
	create     func(ctx context.Context, book domain.Book) (domain.Book, error)
	update     func(ctx context.Context, id string, book domain.Book) (domain.Book, error)
	setSummary func(ctx context.Context, id, summary string) (domain.Book, error)
	delete     func(ctx context.Context, id string) error
	checkOut   func(ctx context.Context, id, borrower string, days int) (domain.Book, error)
	checkIn    func(ctx context.Context, id string) (domain.Book, error)
	history    func(ctx context.Context) ([]domain.HistoryEntry, error)
}

func (m *mockLibraryServicer) List(ctx context.Context, filter service.ListFilter) ([]domain.Book, error) {
	return m.list(ctx, filter)
}
func (m *mockLibraryServicer) Get(ctx context.Context, id string) (domain.Book, error) {
	return m.get(ctx, id)
}
func (m *mockLibraryServicer) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	return m.create(ctx, book)
}
func (m *mockLibraryServicer) Update(ctx context.Context, id string, book domain.Book) (domain.Book, error) {
	return m.update(ctx, id, book)
}
func (m *mockLibraryServicer) SetSummary(ctx context.Context, id, summary string) (domain.Book, error) {
	return m.setSummary(ctx, id, summary)
}
func (m *mockLibraryServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockLibraryServicer) CheckOut(ctx context.Context, id, borrower string, days int) (domain.Book, error) {
	return m.checkOut(ctx, id, borrower, days)
}
func (m *mockLibraryServicer) CheckIn(ctx context.Context, id string) (domain.Book, error) {
	return m.checkIn(ctx, id)
}
func (m *mockLibraryServicer) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return m.history(ctx)
}

var _ handler.LibraryServicer = (*mockLibraryServicer)(nil)

// mockStatsServicer is a hand-written test double for handler.StatsServicer.
type mockStatsServicer struct {
	stats func(ctx context.Context) (domain.Stats, error)
}

func (m *mockStatsServicer) Stats(ctx context.Context) (domain.Stats, error) {
	return m.stats(ctx)
}

var _ handler.StatsServicer = (*mockStatsServicer)(nil)

// mockImportServicer is a hand-written test double for handler.ImportServicer.
type mockImportServicer struct {
	search func(ctx context.Context, query string, limit int) ([]domain.Book, error)
	imp    func(ctx context.Context, book domain.Book) (domain.Book, error)
}

func (m *mockImportServicer) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	return m.search(ctx, query, limit)
}
func (m *mockImportServicer) Import(ctx context.Context, book domain.Book) (domain.Book, error) {
	return m.imp(ctx, book)
}

var _ handler.ImportServicer = (*mockImportServicer)(nil)

// mockAssistant is a hand-written test double for handler.Assistant.
type mockAssistant struct {
	summary            func(ctx context.Context, book domain.Book) (string, bool)
	recommendationText func(ctx context.Context, books []domain.Book, ref domain.Book) (string, bool)
	insights           func(ctx context.Context, stats domain.Stats) (string, bool)
}

func (m *mockAssistant) Summary(ctx context.Context, book domain.Book) (string, bool) {
	return m.summary(ctx, book)
}
func (m *mockAssistant) RecommendationText(ctx context.Context, books []domain.Book, ref domain.Book) (string, bool) {
	return m.recommendationText(ctx, books, ref)
}
func (m *mockAssistant) Insights(ctx context.Context, stats domain.Stats) (string, bool) {
	return m.insights(ctx, stats)
}

var _ handler.Assistant = (*mockAssistant)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks; nil collaborators are
// allowed, matching production wiring.
func newHTTPHandler(library handler.LibraryServicer, stats handler.StatsServicer, importer handler.ImportServicer, assist handler.Assistant) http.Handler {
	return handler.NewServer(library, stats, importer, assist).Handler()
}

// bookFixture returns a fully-populated available book.
func bookFixture(id, title string) domain.Book {
	return domain.Book{
		ID:     id,
		Title:  title,
		Author: "Frank Herbert",
		Genre:  "Sci-Fi",
		Year:   1965,
		ISBN:   "978-0-441-17271-9",
		Tags:   []string{"space-opera", "politics"},
	}
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}
