package handler

import (
	"net/http"
)

// ListTags handles GET /tags: every tag count plus every store.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	s.writeTagListing(w, r, "")
}

// ListStoresByTag handles GET /tags/{tag}: every tag count plus the stores
// carrying tag.
func (s *Server) ListStoresByTag(w http.ResponseWriter, r *http.Request) {
	tag, err := pathString(r, "tag")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	s.writeTagListing(w, r, tag)
}

func (s *Server) writeTagListing(w http.ResponseWriter, r *http.Request, tag string) {
	listing, err := s.tags.ListByTag(r.Context(), tag)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tagListingToResponse(listing.Tag, listing.Tags, listing.Stores))
}
