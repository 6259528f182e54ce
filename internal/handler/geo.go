package handler

import (
	"net/http"

	"github.com/pkordes/store-locator/internal/domain"
)

// NearbyStores handles GET /near?lng=&lat=. maxDistance is in meters.
func (s *Server) NearbyStores(w http.ResponseWriter, r *http.Request) {
	var (
		center      domain.Point
		maxDistance *float64
	)
	if err := queryParam(r, "lng", true, &center.Lng); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := queryParam(r, "lat", true, &center.Lat); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := queryParam(r, "maxDistance", false, &maxDistance); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	limit, err := optionalLimit(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	var distance float64
	if maxDistance != nil {
		distance = *maxDistance
	}

	stores, err := s.geo.Nearby(r.Context(), center, distance, limit)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	resp := make([]projectionResponse, len(stores))
	for i, p := range stores {
		resp[i] = projectionResponse{
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			Location:    locationToResponse(p.Location),
			Photo:       p.Photo,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
