package handler

import (
	"net/http"
)

// ToggleHeart handles POST /stores/{id}/heart.
func (s *Server) ToggleHeart(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	hearted, err := s.hearts.Toggle(r.Context(), accountID, id)
	if err != nil {
		s.writeError(w, r, err, storeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, heartResponse{Hearted: hearted})
}

// ListHearts handles GET /hearts: the caller's hearted stores.
func (s *Server) ListHearts(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	stores, err := s.hearts.ListHearted(r.Context(), accountID)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, storesToResponse(stores))
}
