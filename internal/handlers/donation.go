package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"bloodfinder-backend/internal/matching"
	"bloodfinder-backend/internal/middleware"
	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type DonationHandler struct {
	donationRepo *repository.DonationRepo
	userRepo     *repository.UserRepo

	// enforceCooldown rejects a submission dated before the donor's
	// previous nextEligibleDate. Off by default: the eligibility date is
	// advisory unless operations turn this on.
	enforceCooldown bool
}

func NewDonationHandler(donationRepo *repository.DonationRepo, userRepo *repository.UserRepo, enforceCooldown bool) *DonationHandler {
	return &DonationHandler{
		donationRepo:    donationRepo,
		userRepo:        userRepo,
		enforceCooldown: enforceCooldown,
	}
}

type RecordDonationRequest struct {
	DonorID       string `json:"donorId" validate:"required"`
	DonationDate  string `json:"donationDate" validate:"required"`
	Location      string `json:"location"`
	Hospital      string `json:"hospital" validate:"required"`
	City          string `json:"city" validate:"required"`
	Quantity      int    `json:"quantity"`
	DonationType  string `json:"donationType" validate:"omitempty,oneof=whole-blood plasma platelets red-cells"`
	RecipientName string `json:"recipientName"`
	Notes         string `json:"notes"`
}

type SubmitDonationRequest struct {
	DonationDate  string `json:"donationDate" validate:"required"`
	Hospital      string `json:"hospital" validate:"required"`
	Location      string `json:"location"`
	City          string `json:"city" validate:"required"`
	Quantity      int    `json:"quantity"`
	DonationType  string `json:"donationType" validate:"omitempty,oneof=whole-blood plasma platelets red-cells"`
	RecipientName string `json:"recipientName"`
	Certificate   string `json:"certificate"`
	Notes         string `json:"notes"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// buildDonation assembles the history entry with the donor's name and
// blood group snapshotted at recording time.
func buildDonation(donor *models.User, date time.Time, hospital, location, city string, quantity int, donationType string) *models.DonationHistory {
	if quantity <= 0 {
		quantity = matching.MillilitersPerUnit
	}
	dt := models.DonationType(donationType)
	if dt == "" {
		dt = models.DonationWholeBlood
	}
	if location == "" {
		location = hospital
	}
	return &models.DonationHistory{
		Donor:            donor.ID,
		DonorName:        donor.FullName(),
		BloodGroup:       donor.BloodGroup,
		DonationDate:     date,
		Location:         location,
		Hospital:         hospital,
		City:             city,
		Quantity:         quantity,
		DonationType:     dt,
		NextEligibleDate: matching.NextEligibleDate(date, dt),
	}
}

// latestEligibility returns the furthest nextEligibleDate across a
// donor's history. Donation types carry different cooldowns, so the most
// recent donation by date is not necessarily the binding one.
func latestEligibility(donations []models.DonationHistory) time.Time {
	var latest time.Time
	for _, d := range donations {
		if d.NextEligibleDate.After(latest) {
			latest = d.NextEligibleDate
		}
	}
	return latest
}

// --- POST /api/donation/record (admin) ---

func (h *DonationHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordDonationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: donorId, donationDate, hospital and city are required")
		return
	}

	donorID, err := bson.ObjectIDFromHex(req.DonorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid donor id")
		return
	}
	date, err := parseDate(req.DonationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid donation date")
		return
	}

	donor, err := h.userRepo.FindByID(r.Context(), donorID)
	if err != nil {
		log.Printf("Error finding donor: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record donation")
		return
	}
	if donor == nil || donor.Role != models.RoleDonor {
		writeError(w, http.StatusNotFound, "Donor not found")
		return
	}

	donation := buildDonation(donor, date, req.Hospital, req.Location, req.City, req.Quantity, req.DonationType)
	donation.RecipientName = strings.TrimSpace(req.RecipientName)
	donation.Notes = strings.TrimSpace(req.Notes)
	donation.Certificate = "CERT-" + uuid.NewString()

	if err := h.donationRepo.Create(r.Context(), donation); err != nil {
		log.Printf("Error creating donation: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record donation")
		return
	}

	if err := h.userRepo.RecordDonation(r.Context(), donorID, date); err != nil {
		log.Printf("Error updating donor counters: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record donation")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Donation recorded successfully",
		"donation": donation,
	})
}

// --- POST /api/donation/submit (donor) ---

func (h *DonationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if middleware.GetUserRole(r.Context()) != string(models.RoleDonor) {
		writeError(w, http.StatusForbidden, "Only donors can submit donations")
		return
	}

	var req SubmitDonationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: donationDate, hospital and city are required")
		return
	}
	date, err := parseDate(req.DonationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid donation date")
		return
	}

	donor, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding donor: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit donation")
		return
	}
	if donor == nil {
		writeError(w, http.StatusNotFound, "Donor not found")
		return
	}

	if h.enforceCooldown {
		donations, err := h.donationRepo.FindByDonor(r.Context(), userID)
		if err != nil {
			log.Printf("Error checking cooldown: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to submit donation")
			return
		}
		if next := latestEligibility(donations); date.Before(next) {
			writeError(w, http.StatusBadRequest, "Not yet eligible: next eligible date is "+next.Format("2006-01-02"))
			return
		}
	}

	donation := buildDonation(donor, date, req.Hospital, req.Location, req.City, req.Quantity, req.DonationType)
	donation.RecipientName = strings.TrimSpace(req.RecipientName)
	donation.Notes = strings.TrimSpace(req.Notes)
	donation.Certificate = strings.TrimSpace(req.Certificate)

	if err := h.donationRepo.Create(r.Context(), donation); err != nil {
		log.Printf("Error creating donation: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit donation")
		return
	}

	if err := h.userRepo.RecordDonation(r.Context(), userID, date); err != nil {
		log.Printf("Error updating donor counters: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit donation")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Donation submitted successfully! Thank you for saving lives! 🎉",
		"donation": donation,
	})
}

// --- GET /api/donation/history ---

// History shows a donor their own records; admins see everything, with
// optional bloodGroup/city/date-range filters.
func (h *DonationHandler) History(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetUserRole(r.Context())

	filter := repository.DonationFilter{
		BloodGroup: r.URL.Query().Get("bloodGroup"),
		City:       r.URL.Query().Get("city"),
	}
	if start := r.URL.Query().Get("startDate"); start != "" {
		if t, err := parseDate(start); err == nil {
			filter.StartDate = t
		}
	}
	if end := r.URL.Query().Get("endDate"); end != "" {
		if t, err := parseDate(end); err == nil {
			filter.EndDate = t
		}
	}

	switch role {
	case string(models.RoleDonor):
		userID, ok := authedUserID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		filter.Donor = userID
	case string(models.RoleAdmin):
	default:
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	donations, err := h.donationRepo.Find(r.Context(), filter)
	if err != nil {
		log.Printf("Error fetching donation history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donation history")
		return
	}

	writeJSON(w, http.StatusOK, donations)
}

// --- GET /api/donation/my-donations ---

func (h *DonationHandler) MyDonations(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if middleware.GetUserRole(r.Context()) != string(models.RoleDonor) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	donations, err := h.donationRepo.FindByDonor(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching donations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donations")
		return
	}

	writeJSON(w, http.StatusOK, donations)
}

// --- GET /api/donation/stats ---

// Stats is donor-scoped for donors and global for everyone else.
func (h *DonationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter := repository.DonationFilter{}
	if middleware.GetUserRole(r.Context()) == string(models.RoleDonor) {
		userID, ok := authedUserID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		filter.Donor = userID
	}

	total, err := h.donationRepo.Count(r.Context(), filter)
	if err != nil {
		log.Printf("Error counting donations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donation stats")
		return
	}
	totalQuantity, err := h.donationRepo.TotalQuantity(r.Context(), filter)
	if err != nil {
		log.Printf("Error summing quantity: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donation stats")
		return
	}
	last, err := h.donationRepo.MostRecent(r.Context(), filter)
	if err != nil {
		log.Printf("Error finding last donation: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donation stats")
		return
	}
	byType, err := h.donationRepo.CountByType(r.Context(), filter)
	if err != nil {
		log.Printf("Error grouping by type: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donation stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalDonations":  total,
		"totalQuantity":   totalQuantity,
		"lastDonation":    last,
		"donationsByType": byType,
	})
}
