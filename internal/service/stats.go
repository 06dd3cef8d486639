package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"booknest/internal/domain"
	"booknest/internal/repo"
)

// StatsService computes point-in-time catalog summaries.
type StatsService struct {
	catalog repo.LibraryRepo
	now     func() time.Time
}

// NewStatsService constructs a StatsService backed by the given store.
func NewStatsService(catalog repo.LibraryRepo) *StatsService {
	return &StatsService{catalog: catalog, now: time.Now}
}

// Stats summarizes the current collection snapshot.
func (s *StatsService) Stats(ctx context.Context) (domain.Stats, error) {
	books, err := s.catalog.List(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.StatsService.Stats: %w", err)
	}
	return ComputeStats(books, domain.NewDate(s.now())), nil
}

// ComputeStats derives a Stats view from a collection snapshot.
// Genres are ordered by count descending, ties alphabetically, so the
// output is deterministic.
func ComputeStats(books []domain.Book, today domain.Date) domain.Stats {
	stats := domain.Stats{TotalBooks: len(books)}
	counts := map[string]int{}

	for _, b := range books {
		counts[b.Genre]++
		if b.Borrowed {
			stats.Borrowed++
			if b.Overdue(today) {
				stats.Overdue++
			}
		}
	}
	stats.Available = stats.TotalBooks - stats.Borrowed

	for genre, n := range counts {
		stats.Genres = append(stats.Genres, domain.GenreCount{Genre: genre, Count: n})
	}
	sort.Slice(stats.Genres, func(i, j int) bool {
		if stats.Genres[i].Count != stats.Genres[j].Count {
			return stats.Genres[i].Count > stats.Genres[j].Count
		}
		return stats.Genres[i].Genre < stats.Genres[j].Genre
	})

	return stats
}
