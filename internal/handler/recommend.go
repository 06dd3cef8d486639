package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"booknest/internal/service"
)

// Recommendation is one recommended book with its match reasons.
type Recommendation struct {
	Book    Book     `json:"book"`
	Reasons []string `json:"reasons"`
}

// recommendationsResponse is the body for GET /books/{bookID}/recommendations.
// AIText is present only when ?ai=true was passed; it may carry a
// substituted failure message since the assistant is best-effort.
type recommendationsResponse struct {
	Data   []Recommendation `json:"data"`
	AIText *string          `json:"ai_text,omitempty"`
}

// Recommendations handles GET /books/{bookID}/recommendations.
// The rule-based recommender always answers; ?ai=true additionally asks
// the assistant for a free-text blurb over the same snapshot.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	ref, err := s.library.Get(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	books, err := s.library.List(r.Context(), service.ListFilter{})
	if err != nil {
		respondError(w, r, err)
		return
	}

	recs := service.Recommend(books, ref)
	data := make([]Recommendation, len(recs))
	for i, rec := range recs {
		reasons := rec.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		data[i] = Recommendation{Book: bookToResponse(rec.Book), Reasons: reasons}
	}

	resp := recommendationsResponse{Data: data}
	if r.URL.Query().Get("ai") == "true" && s.assist != nil {
		text, _ := s.assist.RecommendationText(r.Context(), books, ref)
		resp.AIText = &text
	}

	writeJSON(w, http.StatusOK, resp)
}

// summaryResponse is the body for POST /books/{bookID}/summary.
// Stored reports whether the text was saved onto the book; it is false
// when generation failed and Summary holds the substituted message.
type summaryResponse struct {
	Summary string `json:"summary"`
	Stored  bool   `json:"stored"`
}

// GenerateSummary handles POST /books/{bookID}/summary. Generation is
// best-effort: a collaborator failure still answers 200 with the
// substituted message, and the book is left untouched.
func (s *Server) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	book, err := s.library.Get(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if s.assist == nil {
		writeJSON(w, http.StatusOK, summaryResponse{
			Summary: "Could not generate summary: AI assistant is not configured",
		})
		return
	}

	text, ok := s.assist.Summary(r.Context(), book)
	if !ok {
		writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
		return
	}

	if _, err := s.library.SetSummary(r.Context(), book.ID, text); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: text, Stored: true})
}
