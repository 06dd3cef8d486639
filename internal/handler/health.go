package handler

import "net/http"

// Health handles GET /healthz. The catalog lives in memory, so a live
// process is a healthy process; there is no downstream to probe.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
