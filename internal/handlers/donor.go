package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"bloodfinder-backend/internal/repository"
)

type DonorHandler struct {
	userRepo *repository.UserRepo
}

func NewDonorHandler(userRepo *repository.UserRepo) *DonorHandler {
	return &DonorHandler{
		userRepo: userRepo,
	}
}

// --- GET /api/donor/search ---

// Search surfaces approved, available donors to a requester. A missing or
// empty city matches everything; bloodGroup "" or "ALL" disables that
// predicate.
func (h *DonorHandler) Search(w http.ResponseWriter, r *http.Request) {
	bloodGroup := r.URL.Query().Get("bloodGroup")
	city := r.URL.Query().Get("city")

	donors, err := h.userRepo.SearchDonors(r.Context(), bloodGroup, city)
	if err != nil {
		log.Printf("Error searching donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

// --- GET /api/donor/all ---

// ListAll is the administrative browse: paginated, unfiltered by approval
// or availability, with independent city/bloodGroup filters.
func (h *DonorHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}
	city := r.URL.Query().Get("city")
	bloodGroup := r.URL.Query().Get("bloodGroup")

	donors, total, err := h.userRepo.ListDonors(r.Context(), page, limit, city, bloodGroup)
	if err != nil {
		log.Printf("Error listing donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch donors")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donors":      donors,
		"totalPages":  int64(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
		"total":       total,
	})
}

// --- PUT /api/donor/availability ---

type AvailabilityRequest struct {
	IsAvailable bool `json:"isAvailable"`
}

// UpdateAvailability lets a donor opt in or out of being matched.
func (h *DonorHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AvailabilityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userRepo.UpdateAvailability(r.Context(), userID, req.IsAvailable); err != nil {
		log.Printf("Error updating availability: %v", err)
		writeError(w, http.StatusInternalServerError, "Update failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Availability updated",
	})
}
