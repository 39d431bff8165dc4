package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type EmergencyStatus string

const (
	EmergencyActive    EmergencyStatus = "active"
	EmergencyResolved  EmergencyStatus = "resolved"
	EmergencyCancelled EmergencyStatus = "cancelled"
)

type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
)

// EmergencyResponse is one donor's pledge on an emergency request.
// A donor appears at most once per request.
type EmergencyResponse struct {
	Donor       bson.ObjectID `bson:"donor" json:"donor"`
	RespondedAt time.Time     `bson:"responded_at" json:"respondedAt"`
}

type EmergencyRequest struct {
	ID              bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	PatientName     string              `bson:"patient_name" json:"patientName"`
	BloodGroup      string              `bson:"blood_group" json:"bloodGroup"`
	Hospital        string              `bson:"hospital" json:"hospital"`
	ContactNumber   string              `bson:"contact_number" json:"contactNumber"`
	UrgencyLevel    UrgencyLevel        `bson:"urgency_level" json:"urgencyLevel"`
	City            string              `bson:"city" json:"city"`
	AdditionalNotes string              `bson:"additional_notes,omitempty" json:"additionalNotes,omitempty"`
	Status          EmergencyStatus     `bson:"status" json:"status"`
	Responses       []EmergencyResponse `bson:"responses" json:"responses"`
	CreatedAt       time.Time           `bson:"created_at" json:"createdAt"`
}
