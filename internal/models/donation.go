package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type DonationType string

const (
	DonationWholeBlood DonationType = "whole-blood"
	DonationPlasma     DonationType = "plasma"
	DonationPlatelets  DonationType = "platelets"
	DonationRedCells   DonationType = "red-cells"
)

type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationScheduled DonationStatus = "scheduled"
	DonationCancelled DonationStatus = "cancelled"
)

// DonationHistory is one recorded donation. DonorName and BloodGroup are
// snapshots taken at recording time for historical accuracy; they are not
// re-synced when the donor account changes.
type DonationHistory struct {
	ID               bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Donor            bson.ObjectID  `bson:"donor" json:"donor"`
	DonorName        string         `bson:"donor_name" json:"donorName"`
	BloodGroup       string         `bson:"blood_group" json:"bloodGroup"`
	DonationDate     time.Time      `bson:"donation_date" json:"donationDate"`
	Location         string         `bson:"location" json:"location"`
	Hospital         string         `bson:"hospital" json:"hospital"`
	City             string         `bson:"city" json:"city"`
	Quantity         int            `bson:"quantity" json:"quantity"`
	DonationType     DonationType   `bson:"donation_type" json:"donationType"`
	RecipientName    string         `bson:"recipient_name,omitempty" json:"recipientName,omitempty"`
	EmergencyRequest bson.ObjectID  `bson:"emergency_request,omitempty" json:"emergencyRequest,omitempty"`
	Notes            string         `bson:"notes,omitempty" json:"notes,omitempty"`
	Certificate      string         `bson:"certificate,omitempty" json:"certificate,omitempty"`
	NextEligibleDate time.Time      `bson:"next_eligible_date" json:"nextEligibleDate"`
	Status           DonationStatus `bson:"status" json:"status"`
	CreatedAt        time.Time      `bson:"created_at" json:"createdAt"`
}
