package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloodfinder-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDecodeAndValidateRegister(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			"valid donor",
			`{"firstName":"Rahul","lastName":"Sharma","email":"rahul@example.com","password":"secret1","phone":"987","role":"donor","bloodGroup":"O+","city":"Kochi","address":"x","age":28}`,
			false,
		},
		{
			"invalid email",
			`{"firstName":"Rahul","lastName":"Sharma","email":"not-an-email","password":"secret1","phone":"987","role":"donor","city":"Kochi"}`,
			true,
		},
		{
			"unknown role",
			`{"firstName":"Rahul","lastName":"Sharma","email":"rahul@example.com","password":"secret1","phone":"987","role":"superuser","city":"Kochi"}`,
			true,
		},
		{
			"short password",
			`{"firstName":"Rahul","lastName":"Sharma","email":"rahul@example.com","password":"abc","phone":"987","role":"donor","city":"Kochi"}`,
			true,
		},
		{"malformed json", `{"firstName":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(tt.body))
			var req RegisterRequest
			err := decodeAndValidate(r, &req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeAndValidatePublicFeedback(t *testing.T) {
	valid := `{"userName":"Kavya","userEmail":"kavya@example.com","rating":5,"category":"experience","subject":"s","message":"m"}`
	r := httptest.NewRequest("POST", "/api/feedback/public-submit", strings.NewReader(valid))
	var req PublicFeedbackRequest
	assert.NoError(t, decodeAndValidate(r, &req))

	badEmail := strings.Replace(valid, "kavya@example.com", "kavya", 1)
	r = httptest.NewRequest("POST", "/api/feedback/public-submit", strings.NewReader(badEmail))
	assert.Error(t, decodeAndValidate(r, &req))

	badRating := strings.Replace(valid, `"rating":5`, `"rating":6`, 1)
	r = httptest.NewRequest("POST", "/api/feedback/public-submit", strings.NewReader(badRating))
	assert.Error(t, decodeAndValidate(r, &req))
}

func TestDecodeAndValidateInventoryAdd(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			"new stock",
			`{"bloodGroup":"O+","hospital":"Aster Medcity","city":"Kochi","quantity":2,"unitType":"units"}`,
			false,
		},
		{
			// A zero-quantity addition is a no-op merge, not an error.
			"zero quantity",
			`{"bloodGroup":"O+","hospital":"Aster Medcity","city":"Kochi","quantity":0,"unitType":"ml"}`,
			false,
		},
		{
			"negative quantity",
			`{"bloodGroup":"O+","hospital":"Aster Medcity","city":"Kochi","quantity":-100,"unitType":"ml"}`,
			true,
		},
		{
			"missing blood group",
			`{"hospital":"Aster Medcity","city":"Kochi","quantity":500}`,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/inventory/add", strings.NewReader(tt.body))
			var req AddInventoryRequest
			err := decodeAndValidate(r, &req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-03-10T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())

	_, err = parseDate("10/03/2026")
	assert.Error(t, err)
}

func TestLatestEligibilityUsesFurthestDate(t *testing.T) {
	// A recent plasma donation (7-day cooldown) must not shadow an older
	// whole-blood donation whose 56-day cooldown is still running.
	wholeBloodDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	plasmaDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	donations := []models.DonationHistory{
		{
			DonationDate:     plasmaDate,
			DonationType:     models.DonationPlasma,
			NextEligibleDate: plasmaDate.AddDate(0, 0, 7),
		},
		{
			DonationDate:     wholeBloodDate,
			DonationType:     models.DonationWholeBlood,
			NextEligibleDate: wholeBloodDate.AddDate(0, 0, 56),
		},
	}

	assert.Equal(t, wholeBloodDate.AddDate(0, 0, 56), latestEligibility(donations))
	assert.True(t, latestEligibility(nil).IsZero())
}

func TestBuildDonationSnapshotsDonor(t *testing.T) {
	donor := &models.User{
		ID:         bson.NewObjectID(),
		FirstName:  "Rahul",
		LastName:   "Sharma",
		BloodGroup: "O+",
	}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	donation := buildDonation(donor, date, "Aster Medcity", "", "Kochi", 0, "")

	assert.Equal(t, donor.ID, donation.Donor)
	assert.Equal(t, "Rahul Sharma", donation.DonorName)
	assert.Equal(t, "O+", donation.BloodGroup)
	// Defaults: one unit of whole blood, location falls back to hospital.
	assert.Equal(t, 350, donation.Quantity)
	assert.Equal(t, models.DonationWholeBlood, donation.DonationType)
	assert.Equal(t, "Aster Medcity", donation.Location)
	assert.Equal(t, date.AddDate(0, 0, 56), donation.NextEligibleDate)
}

func TestBuildDonationPlasmaCooldown(t *testing.T) {
	donor := &models.User{ID: bson.NewObjectID(), FirstName: "Priya", LastName: "Nair", BloodGroup: "A+"}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	donation := buildDonation(donor, date, "Apollo", "Blood bank wing", "Chennai", 500, "plasma")

	assert.Equal(t, 500, donation.Quantity)
	assert.Equal(t, models.DonationPlasma, donation.DonationType)
	assert.Equal(t, "Blood bank wing", donation.Location)
	assert.Equal(t, date.AddDate(0, 0, 7), donation.NextEligibleDate)
}
