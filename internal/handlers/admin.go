package handlers

import (
	"log"
	"net/http"
	"time"

	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"
)

// AdminHandler serves the admin dashboard: platform stats, donor and
// emergency oversight, and analytics aggregations. All routes here sit
// behind the admin role gate.
type AdminHandler struct {
	userRepo      *repository.UserRepo
	emergencyRepo *repository.EmergencyRepo
	donationRepo  *repository.DonationRepo
	inventoryRepo *repository.InventoryRepo
}

func NewAdminHandler(userRepo *repository.UserRepo, emergencyRepo *repository.EmergencyRepo, donationRepo *repository.DonationRepo, inventoryRepo *repository.InventoryRepo) *AdminHandler {
	return &AdminHandler{
		userRepo:      userRepo,
		emergencyRepo: emergencyRepo,
		donationRepo:  donationRepo,
		inventoryRepo: inventoryRepo,
	}
}

// --- GET /api/admin/stats ---

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totalDonors, err := h.userRepo.CountDonors(r.Context(), false)
	if err != nil {
		log.Printf("Error counting donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	availableDonors, err := h.userRepo.CountDonors(r.Context(), true)
	if err != nil {
		log.Printf("Error counting available donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	activeEmergencies, err := h.emergencyRepo.CountActive(r.Context())
	if err != nil {
		log.Printf("Error counting emergencies: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	totalDonations, err := h.userRepo.TotalDonationCount(r.Context())
	if err != nil {
		log.Printf("Error summing donations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalDonors":       totalDonors,
		"availableDonors":   availableDonors,
		"emergencyRequests": activeEmergencies,
		"totalDonations":    totalDonations,
	})
}

// --- GET /api/admin/donors ---

func (h *AdminHandler) Donors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.userRepo.AllDonors(r.Context())
	if err != nil {
		log.Printf("Error fetching donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donors")
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

// --- GET /api/admin/emergency-requests ---

func (h *AdminHandler) EmergencyRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.emergencyRepo.FindActive(r.Context())
	if err != nil {
		log.Printf("Error fetching emergency requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get emergency requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// --- GET /api/admin/analytics ---

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	bloodGroups, err := h.userRepo.BloodGroupDistribution(r.Context(), true)
	if err != nil {
		log.Printf("Error aggregating blood groups: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics")
		return
	}
	cities, err := h.userRepo.CityDistribution(r.Context())
	if err != nil {
		log.Printf("Error aggregating cities: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bloodGroupDistribution": bloodGroups,
		"cityDistribution":       cities,
	})
}

// --- PUT /api/admin/donors/{donorID}/status ---

func (h *AdminHandler) UpdateDonorStatus(w http.ResponseWriter, r *http.Request) {
	donorID, err := pathID(r, "donorID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid donor id")
		return
	}

	var req AvailabilityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userRepo.UpdateAvailability(r.Context(), donorID, req.IsAvailable); err != nil {
		log.Printf("Error updating donor status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update donor status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Donor status updated",
	})
}

// --- PUT /api/admin/emergency-requests/{requestID}/resolve ---

func (h *AdminHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	if err := h.emergencyRepo.UpdateStatus(r.Context(), requestID, models.EmergencyResolved); err != nil {
		log.Printf("Error resolving request: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Request marked as resolved",
	})
}

// --- GET /api/analytics/dashboard ---

// Dashboard assembles the full admin overview in one response.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalDonors, err := h.userRepo.CountDonors(ctx, false)
	if err != nil {
		log.Printf("Error counting donors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}
	totalDonations, err := h.donationRepo.Count(ctx, repository.DonationFilter{})
	if err != nil {
		log.Printf("Error counting donations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}
	activeEmergencies, err := h.emergencyRepo.CountActive(ctx)
	if err != nil {
		log.Printf("Error counting emergencies: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}

	bloodGroups, err := h.userRepo.BloodGroupDistribution(ctx, false)
	if err != nil {
		log.Printf("Error aggregating blood groups: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}
	cities, err := h.userRepo.CityDistribution(ctx)
	if err != nil {
		log.Printf("Error aggregating cities: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	timeline, err := h.donationRepo.CountByMonth(ctx, sixMonthsAgo)
	if err != nil {
		log.Printf("Error aggregating donation timeline: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}
	donationTypes, err := h.donationRepo.CountByType(ctx, repository.DonationFilter{})
	if err != nil {
		log.Printf("Error aggregating donation types: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}
	inventoryStatus, err := h.inventoryRepo.Rollup(ctx)
	if err != nil {
		log.Printf("Error aggregating inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get analytics data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats": map[string]interface{}{
			"totalDonors":       totalDonors,
			"totalDonations":    totalDonations,
			"activeEmergencies": activeEmergencies,
			// Each donation can save up to three lives.
			"livesSaved": totalDonations * 3,
		},
		"bloodGroupDist":    bloodGroups,
		"cityDist":          cities,
		"donationsOverTime": timeline,
		"donationTypes":     donationTypes,
		"inventoryStatus":   inventoryStatus,
	})
}
