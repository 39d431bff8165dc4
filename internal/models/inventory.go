package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type InventoryStatus string

const (
	InventoryAvailable InventoryStatus = "available"
	InventoryLow       InventoryStatus = "low"
	InventoryCritical  InventoryStatus = "critical"
	// InventoryExpired is terminal and only ever set by an admin update;
	// it is never derived from quantity.
	InventoryExpired InventoryStatus = "expired"
)

// BloodInventory tracks the stock of one blood group at one hospital.
// At most one live record exists per (bloodGroup, hospital, city) triple;
// additions merge into the existing record.
type BloodInventory struct {
	ID               bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	BloodGroup       string          `bson:"blood_group" json:"bloodGroup"`
	Hospital         string          `bson:"hospital" json:"hospital"`
	City             string          `bson:"city" json:"city"`
	Quantity         int             `bson:"quantity" json:"quantity"`
	UnitsAvailable   int             `bson:"units_available" json:"unitsAvailable"`
	LastUpdated      time.Time       `bson:"last_updated" json:"lastUpdated"`
	ExpiryDate       *time.Time      `bson:"expiry_date,omitempty" json:"expiryDate,omitempty"`
	Status           InventoryStatus `bson:"status" json:"status"`
	MinimumThreshold int             `bson:"minimum_threshold" json:"minimumThreshold"`
	ContactNumber    string          `bson:"contact_number" json:"contactNumber"`
	Notes            string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time       `bson:"created_at" json:"createdAt"`
}
