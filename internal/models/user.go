package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleAdmin     Role = "admin"
)

// BloodGroups lists every valid blood group value.
var BloodGroups = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

func ValidBloodGroup(bg string) bool {
	for _, g := range BloodGroups {
		if g == bg {
			return true
		}
	}
	return false
}

type User struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string        `bson:"first_name" json:"firstName"`
	LastName       string        `bson:"last_name" json:"lastName"`
	Email          string        `bson:"email" json:"email"`
	Password       string        `bson:"password" json:"-"`
	Phone          string        `bson:"phone" json:"phone"`
	Age            int           `bson:"age,omitempty" json:"age,omitempty"`
	Role           Role          `bson:"role" json:"role"`
	BloodGroup     string        `bson:"blood_group,omitempty" json:"bloodGroup,omitempty"`
	City           string        `bson:"city" json:"city"`
	Address        string        `bson:"address,omitempty" json:"address,omitempty"`
	IsAvailable    bool          `bson:"is_available" json:"isAvailable"`
	IsApproved     bool          `bson:"is_approved" json:"isApproved"`
	TotalDonations int           `bson:"total_donations" json:"totalDonations"`
	LastDonation   *time.Time    `bson:"last_donation,omitempty" json:"lastDonation,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

var (
	ErrMissingField  = errors.New("missing required field")
	ErrBadBloodGroup = errors.New("invalid blood group")
	ErrDonorFields   = errors.New("age, blood group and address are required for donors")
)

// baseUser validates the fields every role shares.
func baseUser(firstName, lastName, email, passwordHash, phone, city string, role Role) (*User, error) {
	if firstName == "" || lastName == "" || email == "" || passwordHash == "" || phone == "" || city == "" {
		return nil, ErrMissingField
	}
	return &User{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Password:    passwordHash,
		Phone:       phone,
		City:        city,
		Role:        role,
		IsAvailable: true,
		IsApproved:  true,
	}, nil
}

// NewDonor builds a donor account. Donors additionally require age,
// blood group and address; those fields carry no meaning on other roles,
// so each role gets its own constructor instead of conditional field
// checks scattered through the handlers.
func NewDonor(firstName, lastName, email, passwordHash, phone, city string, age int, bloodGroup, address string) (*User, error) {
	u, err := baseUser(firstName, lastName, email, passwordHash, phone, city, RoleDonor)
	if err != nil {
		return nil, err
	}
	if age <= 0 || address == "" {
		return nil, ErrDonorFields
	}
	if !ValidBloodGroup(bloodGroup) {
		return nil, ErrBadBloodGroup
	}
	u.Age = age
	u.BloodGroup = bloodGroup
	u.Address = address
	return u, nil
}

func NewRecipient(firstName, lastName, email, passwordHash, phone, city string) (*User, error) {
	return baseUser(firstName, lastName, email, passwordHash, phone, city, RoleRecipient)
}

func NewAdmin(firstName, lastName, email, passwordHash, phone, city string) (*User, error) {
	return baseUser(firstName, lastName, email, passwordHash, phone, city, RoleAdmin)
}
