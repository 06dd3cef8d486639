package domain

// GenreCount pairs a genre with the number of books carrying it.
// Stats.Genres is sorted by count descending so the most common genres
// come first in API responses and in the insights prompt.
type GenreCount struct {
	Genre string
	Count int
}

// Stats is a point-in-time summary of the catalog, computed from a
// collection snapshot. It is a derived view and is never persisted.
type Stats struct {
	TotalBooks int
	Borrowed   int
	Available  int
	Overdue    int
	Genres     []GenreCount
}
