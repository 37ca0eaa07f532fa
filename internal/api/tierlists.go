package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamedex/tierboard/internal/models"
)

// handleCreateTierlist creates a new tierlist
func (s *Server) handleCreateTierlist(w http.ResponseWriter, r *http.Request) {
	var req models.TierlistCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Data == nil {
		req.Data = models.NewTierData()
	}

	rec, err := s.store.CreateRecord(req.Name, req.OwnerID, req.Data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create tierlist")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// handleGetTierlist returns a tierlist by ID
func (s *Server) handleGetTierlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.FetchRecord(id)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Tierlist not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tierlist")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// handleListTierlists returns summaries of a user's tierlists
func (s *Server) handleListTierlists(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	records, err := s.store.FetchOwnedRecords(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tierlists")
		return
	}

	summaries := make([]models.TierlistSummary, 0, len(records))
	for _, rec := range records {
		count := 0
		for _, rank := range models.Ranks() {
			count += len(rec.Data[rank])
		}
		summaries = append(summaries, models.TierlistSummary{
			ID:        rec.ID,
			Name:      rec.Name,
			ShareCode: rec.ShareCode,
			ItemCount: count,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	respondJSON(w, http.StatusOK, summaries)
}

// handleUpdateTierlist updates an existing tierlist in place. The store
// rejects the write unless the request's owner_id matches the record's.
func (s *Server) handleUpdateTierlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.store.FetchRecord(id)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Tierlist not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tierlist")
		return
	}

	var update models.TierlistUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := existing.Name
	if update.Name != nil {
		name = *update.Name
	}
	data := existing.Data
	if update.Data != nil {
		data = update.Data
	}
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.store.UpdateRecord(id, update.OwnerID, name, data); err != nil {
		if errors.Is(err, models.ErrForbidden) {
			respondError(w, http.StatusForbidden, "Not the tierlist owner")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update tierlist")
		return
	}

	// Return updated tierlist
	updated, _ := s.store.FetchRecord(id)
	respondJSON(w, http.StatusOK, updated)
}

// handleDeleteTierlist deletes a tierlist by ID. Owner only; the owner_id
// query parameter identifies the requesting user.
func (s *Server) handleDeleteTierlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ownerID, err := strconv.Atoi(r.URL.Query().Get("owner_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid owner id")
		return
	}

	if err := s.store.DeleteRecord(id, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Tierlist not found")
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			respondError(w, http.StatusForbidden, "Not the tierlist owner")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete tierlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCloneTierlist saves a copy of a tierlist under the requesting user.
// Cloning is open to everyone and never touches the original record.
func (s *Server) handleCloneTierlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	src, err := s.store.FetchRecord(id)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Tierlist not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tierlist")
		return
	}

	var req models.TierlistClone
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	rec, err := s.store.CreateRecord(req.Name, req.OwnerID, src.Data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clone tierlist")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// handleGetTierlistByCode returns a tierlist by share code
func (s *Server) handleGetTierlistByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rec, err := s.store.FetchRecordByShareCode(code)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Tierlist not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tierlist")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
