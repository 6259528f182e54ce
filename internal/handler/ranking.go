package handler

import (
	"net/http"
)

// TopStores handles GET /top.
func (s *Server) TopStores(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalLimit(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	summaries, err := s.ranking.TopStores(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	resp := make([]storeSummaryResponse, len(summaries))
	for i, sm := range summaries {
		resp[i] = storeSummaryResponse{
			storeResponse: storeToResponse(sm.Store),
			ReviewCount:   sm.ReviewCount,
			AverageRating: sm.AverageRating,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
