// Package matching holds the pure domain logic behind donor search,
// inventory stock classification and donation eligibility. Handlers and
// repositories call into here so the thresholds live in one place.
package matching

import (
	"sort"
	"time"

	"bloodfinder-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	// MillilitersPerUnit is the volume of one donation unit/bag.
	MillilitersPerUnit = 350

	// DefaultMinimumThreshold is the stock level (ml) below which an
	// inventory record is flagged, unless the record overrides it.
	DefaultMinimumThreshold = 1000

	// criticalFraction of the minimum threshold marks critical stock.
	criticalFraction = 0.3
)

// Donation cooldowns. Whole blood and red cells follow the standard
// 56-day interval; plasma and platelets regenerate within a week.
const (
	CooldownWholeBlood = 56 * 24 * time.Hour
	CooldownPlasma     = 7 * 24 * time.Hour
)

// InventoryStatus classifies a stock quantity against a record's minimum
// threshold. A threshold of zero or below falls back to the default.
// "expired" is never returned here; it is an administrative terminal state.
func InventoryStatus(quantityML, thresholdML int) models.InventoryStatus {
	if thresholdML <= 0 {
		thresholdML = DefaultMinimumThreshold
	}
	q, t := float64(quantityML), float64(thresholdML)
	switch {
	case q < criticalFraction*t:
		return models.InventoryCritical
	case q < t:
		return models.InventoryLow
	default:
		return models.InventoryAvailable
	}
}

// UnitsAvailable converts a volume in milliliters to whole donation units.
func UnitsAvailable(quantityML int) int {
	return quantityML / MillilitersPerUnit
}

// ToMilliliters normalizes a submitted quantity. Quantities submitted as
// "units" or "bags" are counts of 350ml donation units; anything else is
// taken as milliliters already.
func ToMilliliters(quantity int, unitType string) int {
	switch unitType {
	case "units", "bags":
		return quantity * MillilitersPerUnit
	default:
		return quantity
	}
}

// NextEligibleDate computes when a donor may donate again after a donation
// of the given type on the given date. Unknown types are treated as whole
// blood, the conservative interval.
func NextEligibleDate(donationDate time.Time, donationType models.DonationType) time.Time {
	switch donationType {
	case models.DonationPlasma, models.DonationPlatelets:
		return donationDate.Add(CooldownPlasma)
	default:
		return donationDate.Add(CooldownWholeBlood)
	}
}

// BloodGroupFiltered reports whether a requested blood group actually
// constrains a search. An empty value and the "ALL" sentinel both mean
// unconstrained.
func BloodGroupFiltered(bloodGroup string) bool {
	return bloodGroup != "" && bloodGroup != "ALL"
}

// HasResponded scans an emergency request's responses for the donor.
// The persistence layer enforces this atomically on write; this scan backs
// the read path and tests.
func HasResponded(responses []models.EmergencyResponse, donor bson.ObjectID) bool {
	for _, r := range responses {
		if r.Donor == donor {
			return true
		}
	}
	return false
}

// SortDonors orders search results by total donations descending, then
// first name ascending. The mongo query applies the same sort; this keeps
// the ordering testable and available for in-memory result sets.
func SortDonors(donors []models.User) {
	sort.SliceStable(donors, func(i, j int) bool {
		if donors[i].TotalDonations != donors[j].TotalDonations {
			return donors[i].TotalDonations > donors[j].TotalDonations
		}
		return donors[i].FirstName < donors[j].FirstName
	})
}
