package handler

import (
	"net/http"

	"booknest/internal/domain"
)

// Stats is the wire representation of the collection summary.
type Stats struct {
	TotalBooks int          `json:"total_books"`
	Borrowed   int          `json:"borrowed"`
	Available  int          `json:"available"`
	Overdue    int          `json:"overdue"`
	Genres     []GenreCount `json:"genres"`
}

// GenreCount pairs a genre with its number of books.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

// insightsResponse is the body for GET /stats/insights. Generated reports
// whether the text came from the assistant or is a substituted message.
type insightsResponse struct {
	Insights  string `json:"insights"`
	Generated bool   `json:"generated"`
}

// Insights handles GET /stats/insights: AI commentary over the current
// collection summary, best-effort.
func (s *Server) Insights(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if s.assist == nil {
		writeJSON(w, http.StatusOK, insightsResponse{
			Insights: "Could not generate insights: AI assistant is not configured",
		})
		return
	}

	text, ok := s.assist.Insights(r.Context(), stats)
	writeJSON(w, http.StatusOK, insightsResponse{Insights: text, Generated: ok})
}

func statsToResponse(st domain.Stats) Stats {
	out := Stats{
		TotalBooks: st.TotalBooks,
		Borrowed:   st.Borrowed,
		Available:  st.Available,
		Overdue:    st.Overdue,
		Genres:     []GenreCount{},
	}
	for _, g := range st.Genres {
		out.Genres = append(out.Genres, GenreCount{Genre: g.Genre, Count: g.Count})
	}
	return out
}
