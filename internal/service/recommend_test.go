package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domain"
	"booknest/internal/service"
)

func recBook(id, genre string, tags ...string) domain.Book {
	return domain.Book{
		ID:     id,
		Title:  "Book " + id,
		Author: "Author " + id,
		Genre:  genre,
		Tags:   tags,
	}
}

func recIDs(recs []service.Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.Book.ID
	}
	return ids
}

func TestRecommend_GenreThenTagsThenFill(t *testing.T) {
	ref := recBook("A", "Fiction", "x", "y")
	books := []domain.Book{
		ref,
		recBook("B", "Fiction"),
		recBook("C", "Mystery", "x"),
		recBook("D", "Sci-Fi"),
	}

	recs := service.Recommend(books, ref)

	// B by genre, C by tag overlap, D as fill.
	assert.Equal(t, []string{"B", "C", "D"}, recIDs(recs))

	assert.Equal(t, []string{"same genre"}, recs[0].Reasons)
	assert.Equal(t, []string{"shared tags: x"}, recs[1].Reasons)
	assert.Empty(t, recs[2].Reasons)
}

func TestRecommend_GenrePassCapsAtTwo(t *testing.T) {
	ref := recBook("A", "Fiction")
	books := []domain.Book{
		ref,
		recBook("B", "Fiction"),
		recBook("C", "Fiction"),
		recBook("D", "Fiction"),
		recBook("E", "Mystery"),
	}

	recs := service.Recommend(books, ref)

	// Only two genre picks; the third slot goes to the fill pass, which
	// runs in collection order, so D beats E.
	assert.Equal(t, []string{"B", "C", "D"}, recIDs(recs))
}

func TestRecommend_TagOverlapRankedBySharedCount(t *testing.T) {
	ref := recBook("A", "Fiction", "x", "y", "z")
	books := []domain.Book{
		ref,
		recBook("B", "Mystery", "x"),
		recBook("C", "Sci-Fi", "x", "y", "z"),
		recBook("D", "Romance", "y", "z"),
	}

	recs := service.Recommend(books, ref)

	// No genre matches, so ranking is by shared tags descending.
	assert.Equal(t, []string{"C", "D", "B"}, recIDs(recs))
	assert.Equal(t, []string{"shared tags: x, y, z"}, recs[0].Reasons)
}

func TestRecommend_TagTiesKeepCollectionOrder(t *testing.T) {
	ref := recBook("A", "Fiction", "x", "y")
	books := []domain.Book{
		ref,
		recBook("B", "Mystery", "x"),
		recBook("C", "Sci-Fi", "y"),
		recBook("D", "Romance", "x"),
	}

	recs := service.Recommend(books, ref)
	assert.Equal(t, []string{"B", "C", "D"}, recIDs(recs))
}

func TestRecommend_NeverIncludesReference(t *testing.T) {
	ref := recBook("A", "Fiction", "x")
	books := []domain.Book{ref, recBook("B", "Fiction", "x")}

	recs := service.Recommend(books, ref)
	require.Len(t, recs, 1)
	assert.Equal(t, "B", recs[0].Book.ID)
}

func TestRecommend_NoDuplicates(t *testing.T) {
	// B qualifies for both the genre pass and the tag pass; it must
	// appear once.
	ref := recBook("A", "Fiction", "x")
	books := []domain.Book{
		ref,
		recBook("B", "Fiction", "x"),
		recBook("C", "Mystery"),
	}

	recs := service.Recommend(books, ref)

	assert.Equal(t, []string{"B", "C"}, recIDs(recs))
	assert.Equal(t, []string{"same genre", "shared tags: x"}, recs[0].Reasons)
}

func TestRecommend_AtMostThree(t *testing.T) {
	ref := recBook("A", "Fiction")
	books := []domain.Book{ref}
	for _, id := range []string{"B", "C", "D", "E", "F"} {
		books = append(books, recBook(id, "Fiction"))
	}

	recs := service.Recommend(books, ref)
	assert.Len(t, recs, 3)
}

func TestRecommend_FewerCandidatesThanThree(t *testing.T) {
	ref := recBook("A", "Fiction")
	books := []domain.Book{ref, recBook("B", "Mystery")}

	recs := service.Recommend(books, ref)
	require.Len(t, recs, 1)
	assert.Equal(t, "B", recs[0].Book.ID)
}

func TestRecommend_EmptyCollection(t *testing.T) {
	ref := recBook("A", "Fiction")

	assert.Empty(t, service.Recommend(nil, ref))
	assert.Empty(t, service.Recommend([]domain.Book{ref}, ref))
}

func TestRecommend_Deterministic(t *testing.T) {
	ref := recBook("A", "Fiction", "x", "y")
	books := []domain.Book{
		ref,
		recBook("B", "Fiction", "y"),
		recBook("C", "Mystery", "x", "y"),
		recBook("D", "Sci-Fi"),
		recBook("E", "Fiction"),
	}

	first := recIDs(service.Recommend(books, ref))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, recIDs(service.Recommend(books, ref)))
	}
}
