package service

import (
	"context"
	"fmt"
	"strings"

	"booknest/internal/domain"
	"booknest/internal/openlibrary"
)

// Import limits. The external catalog is paged by the caller-supplied limit;
// anything above MaxSearchLimit is clamped rather than rejected.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// CatalogSearcher is the outbound open-catalog collaborator.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]openlibrary.Doc, error)
}

// ImportService searches the external open catalog and converts its raw
// records into Book-shaped previews that can be added to the library.
type ImportService struct {
	search  CatalogSearcher
	library *LibraryService
}

// NewImportService constructs an ImportService.
func NewImportService(search CatalogSearcher, library *LibraryService) *ImportService {
	return &ImportService{search: search, library: library}
}

// Search queries the external catalog and returns Book previews. The
// previews carry no ID; one is assigned when the book is imported.
// Returns domain.ErrValidation for an empty query.
func (s *ImportService) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	docs, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ImportService.Search: %w", err)
	}

	books := make([]domain.Book, len(docs))
	for i, doc := range docs {
		books[i] = ConvertDoc(doc)
	}
	return books, nil
}

// Import adds a converted external record to the library. Validation and ID
// assignment run through the same path as a manually created book.
func (s *ImportService) Import(ctx context.Context, book domain.Book) (domain.Book, error) {
	created, err := s.library.Create(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}
	return created, nil
}

// ConvertDoc maps a raw external record onto the catalog's Book shape:
// first two authors joined, first ISBN (or an OL- key fallback), first five
// subjects as tags, and a genre inferred from the subject list.
func ConvertDoc(doc openlibrary.Doc) domain.Book {
	title := doc.Title
	if title == "" {
		title = "Unknown Title"
	}

	authors := doc.AuthorNames
	if len(authors) == 0 {
		authors = []string{"Unknown Author"}
	} else if len(authors) > 2 {
		authors = authors[:2]
	}

	year := doc.FirstPublishYear
	if year == 0 {
		year = 2000
	}

	isbn := ""
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	} else {
		isbn = "OL-" + strings.TrimPrefix(doc.Key, "/works/")
	}

	tags := doc.Subjects
	if len(tags) > 5 {
		tags = tags[:5]
	}

	return domain.Book{
		Title:  title,
		Author: strings.Join(authors, ", "),
		Genre:  InferGenre(doc.Subjects),
		Year:   year,
		ISBN:   isbn,
		Tags:   tags,
	}
}

// genreKeywords maps subject keywords to catalog genres. Order matters:
// the first genre with any matching keyword wins, so the table is a slice,
// not a map.
var genreKeywords = []struct {
	genre    string
	keywords []string
}{
	{"Fiction", []string{"fiction", "novel", "literature"}},
	{"Mystery", []string{"mystery", "detective", "crime", "thriller"}},
	{"Sci-Fi", []string{"science fiction", "sci-fi", "fantasy", "dystopian"}},
	{"Romance", []string{"romance", "love story"}},
	{"Biography", []string{"biography", "memoir", "autobiography"}},
	{"History", []string{"history", "historical"}},
	{"Science", []string{"science", "technology", "physics", "biology"}},
	{"Self-Help", []string{"self-help", "psychology", "philosophy"}},
}

// defaultGenre is used when no subject keyword matches.
const defaultGenre = "Fiction"

// InferGenre maps a subject list to one of the fixed catalog genres by
// keyword containment over the joined, lowercased subjects.
func InferGenre(subjects []string) string {
	joined := strings.ToLower(strings.Join(subjects, " "))
	for _, g := range genreKeywords {
		for _, kw := range g.keywords {
			if strings.Contains(joined, kw) {
				return g.genre
			}
		}
	}
	return defaultGenre
}
