package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domain"
	"booknest/internal/service"
)

func TestComputeStats_Counts(t *testing.T) {
	today := domain.NewDate(fixedNow()) // 2025-06-01
	pastDue, err := domain.ParseDate("2025-05-20")
	require.NoError(t, err)
	futureDue, err := domain.ParseDate("2025-06-20")
	require.NoError(t, err)

	overdueLoan := bookFixture("0001", "Overdue", "Fiction")
	overdueLoan.Borrowed = true
	overdueLoan.Borrower = "Alice"
	overdueLoan.DueDate = &pastDue

	currentLoan := bookFixture("0002", "Current", "Mystery")
	currentLoan.Borrowed = true
	currentLoan.Borrower = "Bob"
	currentLoan.DueDate = &futureDue

	books := []domain.Book{
		overdueLoan,
		currentLoan,
		bookFixture("0003", "Shelf A", "Fiction"),
		bookFixture("0004", "Shelf B", "Sci-Fi"),
	}

	stats := service.ComputeStats(books, today)

	assert.Equal(t, 4, stats.TotalBooks)
	assert.Equal(t, 2, stats.Borrowed)
	assert.Equal(t, 2, stats.Available)
	assert.Equal(t, 1, stats.Overdue)
}

func TestComputeStats_GenresOrderedByCountThenName(t *testing.T) {
	books := []domain.Book{
		bookFixture("0001", "A", "Mystery"),
		bookFixture("0002", "B", "Fiction"),
		bookFixture("0003", "C", "Fiction"),
		bookFixture("0004", "D", "Sci-Fi"),
	}

	stats := service.ComputeStats(books, domain.NewDate(fixedNow()))

	assert.Equal(t, []domain.GenreCount{
		{Genre: "Fiction", Count: 2},
		{Genre: "Mystery", Count: 1},
		{Genre: "Sci-Fi", Count: 1},
	}, stats.Genres)
}

func TestComputeStats_DueTodayIsNotOverdue(t *testing.T) {
	today := domain.NewDate(fixedNow())

	loan := bookFixture("0001", "Due Today", "Fiction")
	loan.Borrowed = true
	loan.Borrower = "Alice"
	loan.DueDate = &today

	stats := service.ComputeStats([]domain.Book{loan}, today)
	assert.Equal(t, 0, stats.Overdue)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := service.ComputeStats(nil, domain.NewDate(fixedNow()))

	assert.Equal(t, 0, stats.TotalBooks)
	assert.Equal(t, 0, stats.Available)
	assert.Empty(t, stats.Genres)
}

func TestStatsService_Stats(t *testing.T) {
	svc := service.NewStatsService(&mockLibraryRepo{
		list: func(_ context.Context) ([]domain.Book, error) {
			return []domain.Book{bookFixture("0001", "Only", "History")}, nil
		},
	})
	svc.SetNow(fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBooks)
	assert.Equal(t, []domain.GenreCount{{Genre: "History", Count: 1}}, stats.Genres)
}
