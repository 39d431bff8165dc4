package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDonor(t *testing.T) {
	donor, err := NewDonor("Rahul", "Sharma", "rahul@example.com", "hash", "9876543210", "Kochi", 28, "O+", "12 Marine Drive")
	require.NoError(t, err)

	assert.Equal(t, RoleDonor, donor.Role)
	assert.Equal(t, "O+", donor.BloodGroup)
	assert.Equal(t, "Rahul Sharma", donor.FullName())
	assert.True(t, donor.IsAvailable)
	assert.True(t, donor.IsApproved)
	assert.Zero(t, donor.TotalDonations)
}

func TestNewDonorMissingDonorFields(t *testing.T) {
	tests := []struct {
		name       string
		age        int
		bloodGroup string
		address    string
		wantErr    error
	}{
		{"missing age", 0, "O+", "addr", ErrDonorFields},
		{"missing address", 30, "O+", "", ErrDonorFields},
		{"bad blood group", 30, "X+", "addr", ErrBadBloodGroup},
		{"empty blood group", 30, "", "addr", ErrBadBloodGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDonor("Rahul", "Sharma", "rahul@example.com", "hash", "9876543210", "Kochi", tt.age, tt.bloodGroup, tt.address)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRecipientSkipsDonorFields(t *testing.T) {
	recipient, err := NewRecipient("Kavya", "Raj", "kavya@example.com", "hash", "9876543220", "Kochi")
	require.NoError(t, err)

	assert.Equal(t, RoleRecipient, recipient.Role)
	assert.Empty(t, recipient.BloodGroup)
	assert.Empty(t, recipient.Address)
	assert.Zero(t, recipient.Age)
}

func TestBaseUserMissingField(t *testing.T) {
	_, err := NewAdmin("", "User", "admin@example.com", "hash", "123", "System")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewRecipient("Kavya", "Raj", "kavya@example.com", "", "123", "Kochi")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestValidBloodGroup(t *testing.T) {
	for _, g := range BloodGroups {
		assert.True(t, ValidBloodGroup(g), g)
	}
	assert.False(t, ValidBloodGroup("C+"))
	assert.False(t, ValidBloodGroup("ALL"))
	assert.False(t, ValidBloodGroup(""))
}
