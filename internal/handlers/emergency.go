package handlers

import (
	"log"
	"net/http"

	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type EmergencyHandler struct {
	emergencyRepo *repository.EmergencyRepo
	userRepo      *repository.UserRepo
}

func NewEmergencyHandler(emergencyRepo *repository.EmergencyRepo, userRepo *repository.UserRepo) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyRepo: emergencyRepo,
		userRepo:      userRepo,
	}
}

// --- POST /api/emergency/create ---

type CreateEmergencyRequest struct {
	PatientName     string `json:"patientName" validate:"required"`
	BloodGroup      string `json:"bloodGroup" validate:"required,oneof=O+ O- A+ A- B+ B- AB+ AB-"`
	Hospital        string `json:"hospital" validate:"required"`
	ContactNumber   string `json:"contactNumber" validate:"required"`
	UrgencyLevel    string `json:"urgencyLevel" validate:"required,oneof=critical high medium"`
	City            string `json:"city" validate:"required"`
	AdditionalNotes string `json:"additionalNotes"`
}

func (h *EmergencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmergencyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid emergency request details")
		return
	}

	emergency := &models.EmergencyRequest{
		PatientName:     req.PatientName,
		BloodGroup:      req.BloodGroup,
		Hospital:        req.Hospital,
		ContactNumber:   req.ContactNumber,
		UrgencyLevel:    models.UrgencyLevel(req.UrgencyLevel),
		City:            req.City,
		AdditionalNotes: req.AdditionalNotes,
	}
	if err := h.emergencyRepo.Create(r.Context(), emergency); err != nil {
		log.Printf("Error creating emergency: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create emergency request")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Emergency request created successfully",
		"emergency": emergency.ID.Hex(),
	})
}

// --- GET /api/emergency/active ---

func (h *EmergencyHandler) Active(w http.ResponseWriter, r *http.Request) {
	emergencies, err := h.emergencyRepo.FindActive(r.Context())
	if err != nil {
		log.Printf("Error fetching active emergencies: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get emergency requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"requests": emergencies,
	})
}

// --- GET /api/emergency/requests ---

// RequestsForDonor lists active requests matching the caller's blood group
// and city. The account is re-fetched here: matching must use the donor's
// live blood group, not a stale token claim.
func (h *EmergencyHandler) RequestsForDonor(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding donor: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get emergency requests")
		return
	}
	if user == nil || user.Role != models.RoleDonor {
		writeError(w, http.StatusForbidden, "Donor access required")
		return
	}

	emergencies, err := h.emergencyRepo.FindActiveForDonor(r.Context(), user.BloodGroup, user.City)
	if err != nil {
		log.Printf("Error matching emergencies: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get emergency requests")
		return
	}

	writeJSON(w, http.StatusOK, emergencies)
}

// --- POST /api/emergency/respond ---

type RespondRequest struct {
	RequestID string `json:"requestId" validate:"required"`
}

// Respond records the caller's pledge on an emergency request. A donor can
// respond at most once per request; duplicates are rejected without any
// state change.
func (h *EmergencyHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RespondRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	requestID, err := bson.ObjectIDFromHex(req.RequestID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	emergency, err := h.emergencyRepo.FindByID(r.Context(), requestID)
	if err != nil {
		log.Printf("Error finding emergency: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to respond")
		return
	}
	if emergency == nil {
		writeError(w, http.StatusNotFound, "Emergency request not found")
		return
	}

	added, err := h.emergencyRepo.AddResponse(r.Context(), requestID, userID)
	if err != nil {
		log.Printf("Error adding response: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to respond")
		return
	}
	if !added {
		writeError(w, http.StatusBadRequest, "Already responded to this request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Response recorded",
	})
}
