package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackReviewed FeedbackStatus = "reviewed"
	FeedbackResolved FeedbackStatus = "resolved"
)

type FeedbackType string

const (
	FeedbackApp   FeedbackType = "app"
	FeedbackDonor FeedbackType = "donor"
)

// Feedback comes either from a logged-in user (User set, snapshot fields
// copied from the account) or from a public visitor (IsPublicSubmission,
// UserEmail supplied in the request). DonorName is a write-time snapshot
// so later edits to the donor account do not rewrite old reviews.
type Feedback struct {
	ID                 bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	User               bson.ObjectID  `bson:"user,omitempty" json:"user,omitempty"`
	UserName           string         `bson:"user_name" json:"userName"`
	UserEmail          string         `bson:"user_email" json:"userEmail"`
	UserRole           string         `bson:"user_role" json:"userRole"`
	Rating             int            `bson:"rating" json:"rating"`
	Category           string         `bson:"category" json:"category"`
	FeedbackType       FeedbackType   `bson:"feedback_type" json:"feedbackType"`
	Donor              bson.ObjectID  `bson:"donor,omitempty" json:"donor,omitempty"`
	DonorName          string         `bson:"donor_name,omitempty" json:"donorName,omitempty"`
	Subject            string         `bson:"subject" json:"subject"`
	Message            string         `bson:"message" json:"message"`
	IsAnonymous        bool           `bson:"is_anonymous" json:"isAnonymous"`
	IsPublicSubmission bool           `bson:"is_public_submission" json:"isPublicSubmission"`
	Status             FeedbackStatus `bson:"status" json:"status"`
	AdminResponse      string         `bson:"admin_response,omitempty" json:"adminResponse,omitempty"`
	RespondedAt        *time.Time     `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
	CreatedAt          time.Time      `bson:"created_at" json:"createdAt"`
}
