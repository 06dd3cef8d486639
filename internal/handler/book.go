package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"booknest/internal/domain"
	"booknest/internal/service"
)

// Book is the wire representation of a catalog book.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Genre    string   `json:"genre"`
	Year     int      `json:"year"`
	ISBN     string   `json:"isbn"`
	Tags     []string `json:"tags"`
	Borrowed bool     `json:"is_borrowed"`
	Borrower string   `json:"borrower_name,omitempty"`
	DueDate  *string  `json:"due_date,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

// bookPayload is the request body for creating and updating books.
type bookPayload struct {
	Title   string   `json:"title" validate:"required"`
	Author  string   `json:"author" validate:"required"`
	Genre   string   `json:"genre" validate:"required"`
	Year    int      `json:"year" validate:"omitempty,gte=0,lte=2100"`
	ISBN    string   `json:"isbn"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// ListBooks handles GET /books.
// Supports ?q= (substring over title/author/isbn), ?genre=, and
// ?status=available|borrowed|overdue.
func (s *Server) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ListFilter{
		Query:  q.Get("q"),
		Genre:  q.Get("genre"),
		Status: q.Get("status"),
	}

	books, err := s.library.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data  []Book `json:"data"`
		Total int    `json:"total"`
	}{Data: booksToResponse(books), Total: len(books)})
}

// CreateBook handles POST /books.
// An ?ai_summary=true query asks the assistant to fill in the summary when
// the caller left it empty; assistant failures never fail the create.
func (s *Server) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := s.validate.Validate(req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.library.Create(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("ai_summary") == "true" && created.Summary == "" && s.assist != nil {
		if text, ok := s.assist.Summary(r.Context(), created); ok {
			if withSummary, err := s.library.SetSummary(r.Context(), created.ID, text); err == nil {
				created = withSummary
			}
		}
	}

	writeJSON(w, http.StatusCreated, bookToResponse(created))
}

// GetBook handles GET /books/{bookID}.
func (s *Server) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.library.Get(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(book))
}

// UpdateBook handles PUT /books/{bookID}. Circulation state is managed by
// the checkout/checkin endpoints and cannot be edited here.
func (s *Server) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := s.validate.Validate(req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.library.Update(r.Context(), chi.URLParam(r, "bookID"), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(updated))
}

// DeleteBook handles DELETE /books/{bookID}.
func (s *Server) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), chi.URLParam(r, "bookID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toDomain maps a request payload onto a domain book with no circulation
// state; the service fills in the ID on create and preserves circulation
// fields on update.
func (p bookPayload) toDomain() domain.Book {
	return domain.Book{
		Title:   p.Title,
		Author:  p.Author,
		Genre:   p.Genre,
		Year:    p.Year,
		ISBN:    p.ISBN,
		Tags:    p.Tags,
		Summary: p.Summary,
	}
}

// bookToResponse converts a domain book to its wire form. The due date
// becomes a YYYY-MM-DD string, omitted while the book is available.
func bookToResponse(b domain.Book) Book {
	out := Book{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Genre:    b.Genre,
		Year:     b.Year,
		ISBN:     b.ISBN,
		Tags:     b.Tags,
		Borrowed: b.Borrowed,
		Borrower: b.Borrower,
		Summary:  b.Summary,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if b.DueDate != nil {
		due := b.DueDate.String()
		out.DueDate = &due
	}
	return out
}

func booksToResponse(books []domain.Book) []Book {
	out := make([]Book, len(books))
	for i, b := range books {
		out[i] = bookToResponse(b)
	}
	return out
}

// parseIntParam parses an optional integer query parameter, returning def
// when absent or unparsable.
func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
