package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"booknest/internal/domain"
)

// checkOutRequest is the body for POST /books/{bookID}/checkout.
// Days defaults to the service's standard loan period when omitted.
type checkOutRequest struct {
	Borrower string `json:"borrower_name" validate:"required"`
	Days     int    `json:"days" validate:"omitempty,gte=1,lte=90"`
}

// HistoryEntry is the wire representation of one circulation event.
type HistoryEntry struct {
	BookID       string  `json:"book_id"`
	BookTitle    string  `json:"book_title"`
	Borrower     string  `json:"borrower_name"`
	Action       string  `json:"action"`
	CheckoutDate *string `json:"checkout_date,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	ReturnDate   *string `json:"return_date,omitempty"`
}

// CheckOutBook handles POST /books/{bookID}/checkout.
func (s *Server) CheckOutBook(w http.ResponseWriter, r *http.Request) {
	var req checkOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if err := s.validate.Validate(req); err != nil {
		respondError(w, r, err)
		return
	}

	book, err := s.library.CheckOut(r.Context(), chi.URLParam(r, "bookID"), req.Borrower, req.Days)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(book))
}

// CheckInBook handles POST /books/{bookID}/checkin. Checking in a book
// that is already available succeeds without effect.
func (s *Server) CheckInBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.library.CheckIn(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(book))
}

// History handles GET /history, returning all circulation events oldest
// first.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	entries, err := s.library.History(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	data := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		data[i] = historyToResponse(e)
	}
	writeJSON(w, http.StatusOK, struct {
		Data  []HistoryEntry `json:"data"`
		Total int            `json:"total"`
	}{Data: data, Total: len(data)})
}

func historyToResponse(e domain.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		BookID:       e.BookID,
		BookTitle:    e.BookTitle,
		Borrower:     e.Borrower,
		Action:       string(e.Action),
		CheckoutDate: dateString(e.CheckoutDate),
		DueDate:      dateString(e.DueDate),
		ReturnDate:   dateString(e.ReturnDate),
	}
}

// dateString renders an optional date as an optional YYYY-MM-DD string.
func dateString(d *domain.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
