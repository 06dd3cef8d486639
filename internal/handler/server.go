// Package handler implements the HTTP handlers for the BookNest API.
// All handlers are methods on Server; they are split into domain-specific
// files (book.go, circulation.go, etc.) but share the same struct so they
// can access its dependencies. Routes wires them onto a chi router.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"booknest/internal/domain"
	"booknest/internal/service"
	"booknest/internal/validation"
)

// LibraryServicer defines the catalog operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the store or service layer.
type LibraryServicer interface {
	List(ctx context.Context, filter service.ListFilter) ([]domain.Book, error)
	Get(ctx context.Context, id string) (domain.Book, error)
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	Update(ctx context.Context, id string, book domain.Book) (domain.Book, error)
	SetSummary(ctx context.Context, id, summary string) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	CheckOut(ctx context.Context, id, borrower string, days int) (domain.Book, error)
	CheckIn(ctx context.Context, id string) (domain.Book, error)
	History(ctx context.Context) ([]domain.HistoryEntry, error)
}

// StatsServicer provides the collection summary.
type StatsServicer interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// ImportServicer bridges to the external open catalog.
type ImportServicer interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
	Import(ctx context.Context, book domain.Book) (domain.Book, error)
}

// Assistant produces best-effort AI text. The bool on each method reports
// success; on failure the string is a user-visible substituted message.
type Assistant interface {
	Summary(ctx context.Context, book domain.Book) (string, bool)
	RecommendationText(ctx context.Context, books []domain.Book, ref domain.Book) (string, bool)
	Insights(ctx context.Context, stats domain.Stats) (string, bool)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	library  LibraryServicer
	stats    StatsServicer
	importer ImportServicer
	assist   Assistant
	validate *validation.Validator
}

// NewServer constructs the Server with all its dependencies.
// importer and assist may be nil when the corresponding collaborator is
// not configured; their routes then answer with a clear error.
func NewServer(library LibraryServicer, stats StatsServicer, importer ImportServicer, assist Assistant) *Server {
	return &Server{
		library:  library,
		stats:    stats,
		importer: importer,
		assist:   assist,
		validate: validation.New(),
	}
}

// Routes registers every endpoint on r. main.go and the handler tests use
// the same wiring so tests exercise the real routing table.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)

	r.Route("/books", func(r chi.Router) {
		r.Get("/", s.ListBooks)
		r.Post("/", s.CreateBook)
		r.Route("/{bookID}", func(r chi.Router) {
			r.Get("/", s.GetBook)
			r.Put("/", s.UpdateBook)
			r.Delete("/", s.DeleteBook)
			r.Post("/checkout", s.CheckOutBook)
			r.Post("/checkin", s.CheckInBook)
			r.Post("/summary", s.GenerateSummary)
			r.Get("/recommendations", s.Recommendations)
		})
	})

	r.Get("/history", s.History)
	r.Get("/stats", s.Stats)
	r.Get("/stats/insights", s.Insights)

	r.Route("/openlibrary", func(r chi.Router) {
		r.Get("/search", s.OpenLibrarySearch)
		r.Post("/import", s.OpenLibraryImport)
	})
}

// Handler returns a standalone http.Handler with all routes registered,
// for tests and embedding.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
