package handlers

import (
	"log"
	"net/http"
	"time"

	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationHandler struct {
	notificationRepo *repository.NotificationRepo
}

func NewNotificationHandler(notificationRepo *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
	}
}

// --- POST /api/notifications/create (admin) ---

type CreateNotificationRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=emergency donation-reminder eligibility feedback general inventory-alert"`
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	RelatedID   string `json:"relatedId"`
	ActionURL   string `json:"actionUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification details")
		return
	}

	recipient, err := bson.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recipient id")
		return
	}

	notification := &models.Notification{
		Recipient: recipient,
		Type:      models.NotificationType(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		Priority:  req.Priority,
		ActionURL: req.ActionURL,
	}
	if req.RelatedID != "" {
		if related, err := bson.ObjectIDFromHex(req.RelatedID); err == nil {
			notification.RelatedID = related
		}
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry timestamp")
			return
		}
		notification.ExpiresAt = &t
	}

	if err := h.notificationRepo.Create(r.Context(), notification); err != nil {
		log.Printf("Error creating notification: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Notification created successfully",
		"notification": notification,
	})
}

// --- GET /api/notifications/my-notifications ---

func (h *NotificationHandler) MyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, err := h.notificationRepo.FindActiveByRecipient(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

// --- GET /api/notifications/unread-count ---

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.notificationRepo.CountUnread(r.Context(), userID)
	if err != nil {
		log.Printf("Error counting unread notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get unread count")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"count": count})
}

// --- PUT /api/notifications/{notificationID}/read ---

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := h.notificationRepo.MarkRead(r.Context(), notificationID, userID); err != nil {
		log.Printf("Error marking notification read: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification marked as read",
	})
}

// --- PUT /api/notifications/mark-all-read ---

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationRepo.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("Error marking notifications read: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark all notifications as read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All notifications marked as read",
	})
}
