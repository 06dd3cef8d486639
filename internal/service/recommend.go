package service

import (
	"sort"
	"strings"

	"booknest/internal/domain"
)

// maxRecommendations caps the recommendation list.
const maxRecommendations = 3

// Recommendation is one recommended book with the reasons it was picked.
// Reasons is a derived display annotation, not state; books selected only
// by the fill pass carry no reasons.
type Recommendation struct {
	Book    domain.Book
	Reasons []string
}

// Recommend ranks the books most similar to ref and returns at most three.
// It is a pure function over a collection snapshot: no I/O, no mutation,
// deterministic for identical input.
//
// Selection runs in three passes:
//  1. up to two books sharing ref's genre, in collection order;
//  2. books sharing at least one tag with ref, by shared-tag count
//     descending, ties kept in collection order;
//  3. any remaining books in collection order, until three are collected
//     or candidates run out.
//
// The reference book itself is never a candidate and no book appears twice.
func Recommend(books []domain.Book, ref domain.Book) []Recommendation {
	var candidates []domain.Book
	for _, b := range books {
		if b.ID != ref.ID {
			candidates = append(candidates, b)
		}
	}

	picked := make(map[string]bool, maxRecommendations)
	var selection []domain.Book

	// Pass 1: same genre.
	for _, b := range candidates {
		if len(selection) == 2 {
			break
		}
		if b.Genre == ref.Genre {
			selection = append(selection, b)
			picked[b.ID] = true
		}
	}

	// Pass 2: tag overlap, most shared tags first.
	if len(ref.Tags) > 0 && len(selection) < maxRecommendations {
		type tagMatch struct {
			book   domain.Book
			shared int
		}
		var matches []tagMatch
		for _, b := range candidates {
			if picked[b.ID] {
				continue
			}
			if n := len(b.SharedTags(ref)); n > 0 {
				matches = append(matches, tagMatch{book: b, shared: n})
			}
		}
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].shared > matches[j].shared
		})
		for _, m := range matches {
			if len(selection) == maxRecommendations {
				break
			}
			selection = append(selection, m.book)
			picked[m.book.ID] = true
		}
	}

	// Pass 3: fill with whatever is left.
	for _, b := range candidates {
		if len(selection) == maxRecommendations {
			break
		}
		if !picked[b.ID] {
			selection = append(selection, b)
			picked[b.ID] = true
		}
	}

	out := make([]Recommendation, len(selection))
	for i, b := range selection {
		out[i] = Recommendation{Book: b, Reasons: reasons(b, ref)}
	}
	return out
}

// reasons explains why book relates to ref: a shared genre, shared tags,
// or nothing for pure fill picks.
func reasons(book, ref domain.Book) []string {
	var out []string
	if book.Genre == ref.Genre {
		out = append(out, "same genre")
	}
	if shared := book.SharedTags(ref); len(shared) > 0 {
		out = append(out, "shared tags: "+strings.Join(shared, ", "))
	}
	return out
}
