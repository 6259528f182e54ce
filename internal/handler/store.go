package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkordes/store-locator/internal/domain"
)

const storeNotFound = "store not found"

// ListStores handles GET /stores. A page past the end redirects to the last page.
func (s *Server) ListStores(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryParam(r, "page", false, &page); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := queryParam(r, "limit", false, &limit); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if limit != nil && *limit < 0 {
		s.writeError(w, r, domain.NewValidationError("limit", "must not be negative"), "")
		return
	}

	result, err := s.stores.ListPaged(r.Context(), domain.NewPaginationParams(page, limit))
	if err != nil {
		var outOfRange *domain.PageOutOfRangeError
		if errors.As(err, &outOfRange) {
			q := url.Values{}
			q.Set("page", strconv.Itoa(outOfRange.LastPage()))
			if limit != nil {
				q.Set("limit", strconv.Itoa(*limit))
			}
			http.Redirect(w, r, "/stores?"+q.Encode(), http.StatusFound)
			return
		}
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, storePageResponse{
		Data: storesToResponse(result.Stores),
		Pagination: paginationResponse{
			Page:       result.Page,
			Limit:      result.PageSize,
			Total:      result.TotalCount,
			TotalPages: result.TotalPages,
		},
	})
}

// CreateStore handles POST /stores.
func (s *Server) CreateStore(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var req storeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	in, err := req.toDomain()
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	store, err := s.stores.Create(r.Context(), accountID, in)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/stores/"+store.ID.String())
	writeJSON(w, http.StatusCreated, storeToResponse(store))
}

// GetStore handles GET /stores/{id}.
func (s *Server) GetStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	store, err := s.stores.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, storeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, storeToResponse(store))
}

// UpdateStore handles PUT /stores/{id}. Only the store's author may update it.
func (s *Server) UpdateStore(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	var req storePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	patch, err := req.toDomain()
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	store, err := s.stores.Update(r.Context(), id, patch, accountID)
	if err != nil {
		s.writeError(w, r, err, storeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, storeToResponse(store))
}

// ListStoreReviews handles GET /stores/{id}/reviews.
func (s *Server) ListStoreReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	reviews, err := s.stores.Reviews(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, storeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, reviewsToResponse(reviews))
}

// GetStoreBySlug handles GET /store/{slug}.
func (s *Server) GetStoreBySlug(w http.ResponseWriter, r *http.Request) {
	slug, err := pathString(r, "slug")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	detail, err := s.stores.GetBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err, storeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, storeDetailResponse{
		storeResponse: storeToResponse(detail.Store),
		Reviews:       reviewsToResponse(detail.Reviews),
	})
}

// SearchStores handles GET /search?q=.
func (s *Server) SearchStores(w http.ResponseWriter, r *http.Request) {
	var query string
	if err := queryParam(r, "q", true, &query); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	limit, err := optionalLimit(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	stores, err := s.stores.Search(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, storesToResponse(stores))
}
