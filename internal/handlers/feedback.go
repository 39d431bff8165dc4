package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/notify"
	"bloodfinder-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackHandler struct {
	feedbackRepo *repository.FeedbackRepo
	userRepo     *repository.UserRepo
	notifier     notify.Notifier
}

func NewFeedbackHandler(feedbackRepo *repository.FeedbackRepo, userRepo *repository.UserRepo, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

type PublicFeedbackRequest struct {
	UserName     string `json:"userName" validate:"required"`
	UserEmail    string `json:"userEmail" validate:"required,email"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Category     string `json:"category" validate:"required,oneof=platform experience suggestion complaint donor-feedback"`
	FeedbackType string `json:"feedbackType" validate:"omitempty,oneof=app donor"`
	DonorID      string `json:"donorId"`
	Subject      string `json:"subject" validate:"required"`
	Message      string `json:"message" validate:"required"`
	IsAnonymous  bool   `json:"isAnonymous"`
}

type FeedbackRequest struct {
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Category     string `json:"category" validate:"required,oneof=platform experience suggestion complaint donor-feedback"`
	FeedbackType string `json:"feedbackType" validate:"omitempty,oneof=app donor"`
	DonorID      string `json:"donorId"`
	Subject      string `json:"subject" validate:"required"`
	Message      string `json:"message" validate:"required"`
	IsAnonymous  bool   `json:"isAnonymous"`
}

// attachDonor snapshots the reviewed donor's name onto donor-targeted
// feedback. A bad or non-donor id is ignored rather than failing the
// submission.
func (h *FeedbackHandler) attachDonor(ctx context.Context, feedback *models.Feedback, donorID string) {
	if feedback.FeedbackType != models.FeedbackDonor || donorID == "" {
		return
	}
	id, err := bson.ObjectIDFromHex(donorID)
	if err != nil {
		return
	}
	donor, err := h.userRepo.FindByID(ctx, id)
	if err != nil || donor == nil || donor.Role != models.RoleDonor {
		return
	}
	feedback.Donor = donor.ID
	feedback.DonorName = donor.FullName()
}

func (h *FeedbackHandler) notifyAdmins(feedback *models.Feedback) {
	go func() {
		message := fmt.Sprintf("New %s feedback (%d/5) from %s: %s",
			feedback.FeedbackType, feedback.Rating, feedback.UserName, feedback.Subject)
		if err := h.notifier.Publish(context.Background(), "New feedback received", message); err != nil {
			log.Printf("Error publishing feedback alert: %v", err)
		}
	}()
}

// --- POST /api/feedback/public-submit ---

// PublicSubmit accepts feedback from visitors without an account.
func (h *FeedbackHandler) PublicSubmit(w http.ResponseWriter, r *http.Request) {
	var req PublicFeedbackRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	userName := req.UserName
	if req.IsAnonymous {
		userName = "Anonymous"
	}
	feedbackType := models.FeedbackType(req.FeedbackType)
	if feedbackType == "" {
		feedbackType = models.FeedbackApp
	}

	feedback := &models.Feedback{
		UserName:           userName,
		UserEmail:          req.UserEmail,
		UserRole:           "public",
		Rating:             req.Rating,
		Category:           req.Category,
		FeedbackType:       feedbackType,
		Subject:            req.Subject,
		Message:            req.Message,
		IsAnonymous:        req.IsAnonymous,
		IsPublicSubmission: true,
	}
	h.attachDonor(r.Context(), feedback, req.DonorID)

	if err := h.feedbackRepo.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	h.notifyAdmins(feedback)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Thank you for your feedback! We appreciate your input.",
		"feedbackId": feedback.ID.Hex(),
	})
}

// --- POST /api/feedback/submit ---

// Submit accepts feedback from a logged-in user, snapshotting their name,
// email and role at submission time.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req FeedbackRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid feedback details")
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	userName := user.FullName()
	if req.IsAnonymous {
		userName = "Anonymous"
	}
	feedbackType := models.FeedbackType(req.FeedbackType)
	if feedbackType == "" {
		feedbackType = models.FeedbackApp
	}

	feedback := &models.Feedback{
		User:         userID,
		UserName:     userName,
		UserEmail:    user.Email,
		UserRole:     string(user.Role),
		Rating:       req.Rating,
		Category:     req.Category,
		FeedbackType: feedbackType,
		Subject:      req.Subject,
		Message:      req.Message,
		IsAnonymous:  req.IsAnonymous,
	}
	h.attachDonor(r.Context(), feedback, req.DonorID)

	if err := h.feedbackRepo.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	h.notifyAdmins(feedback)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Feedback submitted successfully",
		"feedbackId": feedback.ID.Hex(),
	})
}

// --- GET /api/feedback/donors-list ---

func (h *FeedbackHandler) DonorsList(w http.ResponseWriter, r *http.Request) {
	donors, err := h.userRepo.ApprovedDonors(r.Context())
	if err != nil {
		log.Printf("Error fetching donors list: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get donors list")
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

// --- GET /api/feedback/my-feedbacks ---

func (h *FeedbackHandler) MyFeedbacks(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feedbacks, err := h.feedbackRepo.FindByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching feedbacks: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get feedbacks")
		return
	}

	writeJSON(w, http.StatusOK, feedbacks)
}

// --- GET /api/feedback/all (admin) ---

func (h *FeedbackHandler) All(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")

	feedbacks, err := h.feedbackRepo.FindAll(r.Context(), status, category)
	if err != nil {
		log.Printf("Error fetching feedbacks: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get feedbacks")
		return
	}

	writeJSON(w, http.StatusOK, feedbacks)
}

// --- PUT /api/feedback/{feedbackID}/respond (admin) ---

type FeedbackResponseRequest struct {
	AdminResponse string `json:"adminResponse" validate:"required"`
	Status        string `json:"status" validate:"omitempty,oneof=pending reviewed resolved"`
}

func (h *FeedbackHandler) Respond(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := pathID(r, "feedbackID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid feedback id")
		return
	}

	var req FeedbackResponseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid response details")
		return
	}

	if err := h.feedbackRepo.Respond(r.Context(), feedbackID, req.AdminResponse, models.FeedbackStatus(req.Status)); err != nil {
		log.Printf("Error responding to feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to respond to feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Response added successfully",
	})
}
