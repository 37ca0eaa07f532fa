package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleGetCatalog returns the items owned by a user
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	items, err := s.store.FetchCatalog(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"total_count": len(items),
	})
}
