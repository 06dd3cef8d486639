package service

import (
	"context"
	"fmt"
	"strings"

	"booknest/internal/domain"
)

// Generator is the outbound text-generation collaborator. Defining the
// interface here, in the consumer package, lets tests inject a canned
// generator and keeps the Gemini client swappable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AssistService produces AI-written summaries, recommendation blurbs, and
// collection insights. Every method is best-effort: a collaborator failure
// is substituted into the returned text, never propagated, so the
// surrounding catalog operation always completes.
type AssistService struct {
	gen Generator
}

// NewAssistService constructs an AssistService. A nil generator is valid
// and makes every method return its substituted failure text.
func NewAssistService(gen Generator) *AssistService {
	return &AssistService{gen: gen}
}

// Enabled reports whether a generator is configured.
func (s *AssistService) Enabled() bool { return s.gen != nil }

// Summary writes a short promotional summary for the book. The bool
// reports success; on failure the returned text is the substituted
// user-visible message.
func (s *AssistService) Summary(ctx context.Context, book domain.Book) (string, bool) {
	yearInfo := ""
	if book.Year != 0 {
		yearInfo = fmt.Sprintf(" published in %d", book.Year)
	}
	prompt := fmt.Sprintf(`Generate a compelling 2-3 sentence summary for the book '%s' by %s%s in the %s genre.

Focus on:
- The main plot or central theme
- What makes this book noteworthy or appealing
- The book's impact or significance if it's well-known

Keep it engaging and informative for library users deciding whether to read it.`,
		book.Title, book.Author, yearInfo, book.Genre)

	return s.generate(ctx, "summary", prompt)
}

// RecommendationText writes a free-text recommendation of three books from
// the collection for a reader who enjoyed ref. The rule-based recommender
// in recommend.go is the deterministic fallback when this fails.
func (s *AssistService) RecommendationText(ctx context.Context, books []domain.Book, ref domain.Book) (string, bool) {
	var lines []string
	for _, b := range books {
		if b.ID == ref.ID {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s by %s | Genre: %s | Tags: %s",
			b.Title, b.Author, b.Genre, tagList(b.Tags)))
		if len(lines) == 20 {
			break
		}
	}

	summary := ref.Summary
	if summary == "" {
		summary = "No summary available"
	} else if len(summary) > 100 {
		summary = summary[:100]
	}

	prompt := fmt.Sprintf(`Based on this library collection:
%s

A reader just finished and enjoyed: '%s' by %s
- Genre: %s
- Tags: %s
- Summary: %s

Please recommend exactly 3 books from the above collection that this reader would likely enjoy next. For each recommendation:
1. State the book title and author clearly
2. Explain in 1-2 sentences why it's similar or would appeal to someone who liked the reference book
3. Mention specific themes, genres, or elements that connect them`,
		strings.Join(lines, "\n"), ref.Title, ref.Author, ref.Genre, tagList(ref.Tags), summary)

	return s.generate(ctx, "recommendations", prompt)
}

// Insights comments on collection trends from a stats summary.
func (s *AssistService) Insights(ctx context.Context, stats domain.Stats) (string, bool) {
	var genres []string
	for i, g := range stats.Genres {
		if i == 5 {
			break
		}
		genres = append(genres, fmt.Sprintf("%s: %d", g.Genre, g.Count))
	}

	prompt := fmt.Sprintf(`Analyze this library data and provide 2-3 interesting insights:
Total books: %d
Genre distribution: %s
Currently borrowed: %d

Focus on trends, popular genres, or recommendations for collection development.`,
		stats.TotalBooks, strings.Join(genres, ", "), stats.Borrowed)

	return s.generate(ctx, "insights", prompt)
}

// generate runs the prompt through the collaborator. Any failure is
// substituted into a user-visible message and flagged false, never
// propagated, so callers can always complete their own operation.
func (s *AssistService) generate(ctx context.Context, kind, prompt string) (string, bool) {
	if s.gen == nil {
		return fmt.Sprintf("Could not generate %s: AI assistant is not configured", kind), false
	}
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Could not generate %s: %v", kind, err), false
	}
	return strings.TrimSpace(text), true
}

// tagList joins tags for prompt display, with a placeholder for none.
func tagList(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ", ")
}
