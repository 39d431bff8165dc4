package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDonationFilterToBSONEmpty(t *testing.T) {
	filter := DonationFilter{}
	assert.Empty(t, filter.toBSON())
}

func TestDonationFilterToBSONFields(t *testing.T) {
	donor := bson.NewObjectID()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	got := DonationFilter{
		Donor:      donor,
		BloodGroup: "O+",
		City:       "Kochi",
		StartDate:  start,
		EndDate:    end,
	}.toBSON()

	assert.Equal(t, donor, got["donor"])
	assert.Equal(t, "O+", got["blood_group"])
	assert.Equal(t, bson.M{"$regex": "Kochi", "$options": "i"}, got["city"])
	assert.Equal(t, bson.M{"$gte": start, "$lte": end}, got["donation_date"])
}

func TestDonationFilterToBSONOpenDateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := DonationFilter{StartDate: start}.toBSON()
	assert.Equal(t, bson.M{"$gte": start}, got["donation_date"])
	assert.NotContains(t, got, "donor")
	assert.NotContains(t, got, "city")
}

func TestNotificationActiveFilterShape(t *testing.T) {
	recipient := bson.NewObjectID()
	got := activeFilter(recipient)

	assert.Equal(t, recipient, got["recipient"])
	or, ok := got["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 2)

	// Expiry is a per-query filter: never-expiring documents pass, and
	// expired ones are hidden rather than deleted.
	assert.Equal(t, bson.M{"expires_at": bson.M{"$exists": false}}, or[0])
	expires, ok := or[1].(bson.M)["expires_at"].(bson.M)
	assert.True(t, ok)
	assert.Contains(t, expires, "$gte")
}
