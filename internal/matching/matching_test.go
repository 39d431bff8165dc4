package matching

import (
	"testing"
	"time"

	"bloodfinder-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestInventoryStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      models.InventoryStatus
	}{
		{"well below critical", 100, 1000, models.InventoryCritical},
		{"just below critical boundary", 299, 1000, models.InventoryCritical},
		{"critical boundary is low", 300, 1000, models.InventoryLow},
		{"mid low band", 999, 1000, models.InventoryLow},
		{"threshold boundary is available", 1000, 1000, models.InventoryAvailable},
		{"above threshold", 5000, 1000, models.InventoryAvailable},
		{"zero quantity", 0, 1000, models.InventoryCritical},
		{"custom threshold critical", 500, 2000, models.InventoryCritical},
		{"custom threshold low", 600, 2000, models.InventoryLow},
		{"zero threshold uses default", 400, 0, models.InventoryLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InventoryStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestUnitsAvailable(t *testing.T) {
	assert.Equal(t, 0, UnitsAvailable(0))
	assert.Equal(t, 0, UnitsAvailable(349))
	assert.Equal(t, 1, UnitsAvailable(350))
	assert.Equal(t, 1, UnitsAvailable(400))
	assert.Equal(t, 3, UnitsAvailable(1100))
}

func TestToMilliliters(t *testing.T) {
	assert.Equal(t, 700, ToMilliliters(2, "units"))
	assert.Equal(t, 1050, ToMilliliters(3, "bags"))
	assert.Equal(t, 450, ToMilliliters(450, "ml"))
	assert.Equal(t, 450, ToMilliliters(450, ""))
}

// Scenario from the ops runbook: 400ml at threshold 1000 is critical with
// one unit on the shelf; adding 2 bags lifts it to available with three.
func TestInventoryMergeScenario(t *testing.T) {
	quantity, threshold := 400, 1000
	assert.Equal(t, models.InventoryCritical, InventoryStatus(quantity, threshold))
	assert.Equal(t, 1, UnitsAvailable(quantity))

	quantity += ToMilliliters(2, "units")
	assert.Equal(t, 1100, quantity)
	assert.Equal(t, models.InventoryAvailable, InventoryStatus(quantity, threshold))
	assert.Equal(t, 3, UnitsAvailable(quantity))
}

func TestNextEligibleDate(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		donationType models.DonationType
		wantDays     int
	}{
		{models.DonationWholeBlood, 56},
		{models.DonationRedCells, 56},
		{models.DonationPlasma, 7},
		{models.DonationPlatelets, 7},
		{models.DonationType(""), 56},
	}
	for _, tt := range tests {
		t.Run(string(tt.donationType), func(t *testing.T) {
			got := NextEligibleDate(day, tt.donationType)
			assert.Equal(t, day.AddDate(0, 0, tt.wantDays), got)
		})
	}
}

func TestBloodGroupFiltered(t *testing.T) {
	assert.False(t, BloodGroupFiltered(""))
	assert.False(t, BloodGroupFiltered("ALL"))
	assert.True(t, BloodGroupFiltered("O-"))
	assert.True(t, BloodGroupFiltered("AB+"))
}

func TestHasResponded(t *testing.T) {
	a, b, c := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()
	responses := []models.EmergencyResponse{
		{Donor: a, RespondedAt: time.Now()},
		{Donor: b, RespondedAt: time.Now()},
	}
	assert.True(t, HasResponded(responses, a))
	assert.True(t, HasResponded(responses, b))
	assert.False(t, HasResponded(responses, c))
	assert.False(t, HasResponded(nil, a))
}

func TestSortDonors(t *testing.T) {
	donors := []models.User{
		{FirstName: "Meera", TotalDonations: 2},
		{FirstName: "Arjun", TotalDonations: 5},
		{FirstName: "Anita", TotalDonations: 5},
		{FirstName: "Zoya", TotalDonations: 0},
	}
	SortDonors(donors)

	got := make([]string, len(donors))
	for i, d := range donors {
		got[i] = d.FirstName
	}
	assert.Equal(t, []string{"Anita", "Arjun", "Meera", "Zoya"}, got)
}
