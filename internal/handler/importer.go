package handler

import (
	"encoding/json"
	"net/http"

	"booknest/internal/service"
)

// importRequest is the body for POST /openlibrary/import: a Book-shaped
// preview as returned by the search endpoint. The ID is assigned on import.
type importRequest struct {
	Title   string   `json:"title" validate:"required"`
	Author  string   `json:"author" validate:"required"`
	Genre   string   `json:"genre" validate:"required"`
	Year    int      `json:"year"`
	ISBN    string   `json:"isbn"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// OpenLibrarySearch handles GET /openlibrary/search?q=&limit=.
// Results are Book-shaped previews with inferred genres and no ID.
func (s *Server) OpenLibrarySearch(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "open catalog search is not configured")
		return
	}

	limit := parseIntParam(r, "limit", service.DefaultSearchLimit)
	books, err := s.importer.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data  []Book `json:"data"`
		Total int    `json:"total"`
	}{Data: booksToResponse(books), Total: len(books)})
}

// OpenLibraryImport handles POST /openlibrary/import, adding one converted
// external record to the catalog.
func (s *Server) OpenLibraryImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "open catalog search is not configured")
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := s.validate.Validate(req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.importer.Import(r.Context(), bookPayload{
		Title:   req.Title,
		Author:  req.Author,
		Genre:   req.Genre,
		Year:    req.Year,
		ISBN:    req.ISBN,
		Tags:    req.Tags,
		Summary: req.Summary,
	}.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookToResponse(created))
}
