package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domain"
	"booknest/internal/handler"
)

// ---- POST /books/{bookID}/checkout -----------------------------------------

func TestCheckOutBook(t *testing.T) {
	due := mustDate(t, "2025-06-15")
	library := &mockLibraryServicer{
		checkOut: func(_ context.Context, id, borrower string, days int) (domain.Book, error) {
			assert.Equal(t, "0001", id)
			assert.Equal(t, "Alice", borrower)
			assert.Equal(t, 14, days)

			b := bookFixture(id, "Dune")
			b.Borrowed = true
			b.Borrower = borrower
			b.DueDate = &due
			return b, nil
		},
	}

	body := `{"borrower_name": "Alice", "days": 14}`
	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got handler.Book
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Borrowed)
	assert.Equal(t, "Alice", got.Borrower)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-06-15", *got.DueDate)
}

func TestCheckOutBook_OmittedDaysPassThroughAsZero(t *testing.T) {
	var gotDays int
	library := &mockLibraryServicer{
		checkOut: func(_ context.Context, _, _ string, days int) (domain.Book, error) {
			gotDays = days
			return domain.Book{}, nil
		},
	}

	body := `{"borrower_name": "Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// The service maps zero onto the default loan period.
	assert.Equal(t, 0, gotDays)
}

func TestCheckOutBook_MissingBorrowerIs422(t *testing.T) {
	library := &mockLibraryServicer{
		checkOut: func(_ context.Context, _, _ string, _ int) (domain.Book, error) {
			t.Fatal("checkout must not be called for an invalid payload")
			return domain.Book{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkout", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Contains(t, body.Error.Message, "borrower_name")
}

func TestCheckOutBook_DaysOutOfRangeIs422(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkout",
		strings.NewReader(`{"borrower_name": "Alice", "days": 365}`))
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockLibraryServicer{}, nil, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckOutBook_AlreadyBorrowedIs409(t *testing.T) {
	library := &mockLibraryServicer{
		checkOut: func(_ context.Context, _, _ string, _ int) (domain.Book, error) {
			return domain.Book{}, domain.ErrConflict
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkout",
		strings.NewReader(`{"borrower_name": "Bob"}`))
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "conflict", body.Error.Code)
}

// ---- POST /books/{bookID}/checkin ------------------------------------------

func TestCheckInBook(t *testing.T) {
	library := &mockLibraryServicer{
		checkIn: func(_ context.Context, id string) (domain.Book, error) {
			assert.Equal(t, "0001", id)
			return bookFixture(id, "Dune"), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/books/0001/checkin", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got handler.Book
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.False(t, got.Borrowed)
	assert.Empty(t, got.Borrower)
	assert.Nil(t, got.DueDate)
}

func TestCheckInBook_NotFound(t *testing.T) {
	library := &mockLibraryServicer{
		checkIn: func(_ context.Context, _ string) (domain.Book, error) {
			return domain.Book{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/books/missing/checkin", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- GET /history ----------------------------------------------------------

func TestHistory(t *testing.T) {
	checkout := mustDate(t, "2025-06-01")
	due := mustDate(t, "2025-06-15")
	ret := mustDate(t, "2025-06-10")

	library := &mockLibraryServicer{
		history: func(_ context.Context) ([]domain.HistoryEntry, error) {
			return []domain.HistoryEntry{
				{
					BookID:       "0001",
					BookTitle:    "Dune",
					Borrower:     "Alice",
					Action:       domain.ActionCheckout,
					CheckoutDate: &checkout,
					DueDate:      &due,
				},
				{
					BookID:     "0001",
					BookTitle:  "Dune",
					Borrower:   "Alice",
					Action:     domain.ActionCheckin,
					ReturnDate: &ret,
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data  []handler.HistoryEntry `json:"data"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 2, body.Total)

	assert.Equal(t, "checkout", body.Data[0].Action)
	require.NotNil(t, body.Data[0].CheckoutDate)
	assert.Equal(t, "2025-06-01", *body.Data[0].CheckoutDate)
	assert.Nil(t, body.Data[0].ReturnDate)

	assert.Equal(t, "checkin", body.Data[1].Action)
	require.NotNil(t, body.Data[1].ReturnDate)
	assert.Equal(t, "2025-06-10", *body.Data[1].ReturnDate)
}

func TestHistory_Empty(t *testing.T) {
	library := &mockLibraryServicer{
		history: func(_ context.Context) ([]domain.HistoryEntry, error) {
			return []domain.HistoryEntry{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(library, nil, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
