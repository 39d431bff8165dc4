package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationType string

const (
	NotifyEmergency        NotificationType = "emergency"
	NotifyDonationReminder NotificationType = "donation-reminder"
	NotifyEligibility      NotificationType = "eligibility"
	NotifyFeedback         NotificationType = "feedback"
	NotifyGeneral          NotificationType = "general"
	NotifyInventoryAlert   NotificationType = "inventory-alert"
)

type Notification struct {
	ID        bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Recipient bson.ObjectID    `bson:"recipient" json:"recipient"`
	Type      NotificationType `bson:"type" json:"type"`
	Title     string           `bson:"title" json:"title"`
	Message   string           `bson:"message" json:"message"`
	Priority  string           `bson:"priority" json:"priority"`
	IsRead    bool             `bson:"is_read" json:"isRead"`
	RelatedID bson.ObjectID    `bson:"related_id,omitempty" json:"relatedId,omitempty"`
	ActionURL string           `bson:"action_url,omitempty" json:"actionUrl,omitempty"`
	ExpiresAt *time.Time       `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
}

// Active reports whether the notification should still be shown.
func (n *Notification) Active(now time.Time) bool {
	return n.ExpiresAt == nil || !n.ExpiresAt.Before(now)
}
