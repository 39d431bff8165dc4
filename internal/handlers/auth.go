package handlers

import (
	"log"
	"net/http"

	"bloodfinder-backend/internal/middleware"
	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo  *repository.UserRepo
	jwtSecret string
}

func NewAuthHandler(userRepo *repository.UserRepo, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// --- Request / Response types ---

type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"required"`
	Age        int    `json:"age"`
	Role       string `json:"role" validate:"required,oneof=donor recipient admin"`
	BloodGroup string `json:"bloodGroup"`
	City       string `json:"city" validate:"required"`
	Address    string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=donor recipient admin"`
}

// userSummary is the account shape returned on register/login.
type userSummary struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	BloodGroup     string `json:"bloodGroup,omitempty"`
	City           string `json:"city"`
	IsAvailable    bool   `json:"isAvailable"`
	TotalDonations int    `json:"totalDonations"`
}

func summarize(u *models.User) userSummary {
	return userSummary{
		ID:             u.ID.Hex(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           string(u.Role),
		BloodGroup:     u.BloodGroup,
		City:           u.City,
		IsAvailable:    u.IsAvailable,
		TotalDonations: u.TotalDonations,
	}
}

// --- POST /api/auth/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid registration details")
		return
	}

	existing, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	var user *models.User
	switch models.Role(req.Role) {
	case models.RoleDonor:
		user, err = models.NewDonor(req.FirstName, req.LastName, req.Email, string(hash),
			req.Phone, req.City, req.Age, req.BloodGroup, req.Address)
	case models.RoleRecipient:
		user, err = models.NewRecipient(req.FirstName, req.LastName, req.Email, string(hash),
			req.Phone, req.City)
	default:
		user, err = models.NewAdmin(req.FirstName, req.LastName, req.Email, string(hash),
			req.Phone, req.City)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userRepo.Create(r.Context(), user); err != nil {
		log.Printf("Error creating user: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID.Hex(), user.Role)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    summarize(user),
	})
}

// --- POST /api/auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login details")
		return
	}

	// The asserted role is part of the lookup: logging in as a donor with
	// a recipient account fails like a wrong password does.
	user, err := h.userRepo.FindByEmailAndRole(r.Context(), req.Email, models.Role(req.Role))
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if user.Role == models.RoleDonor && !user.IsApproved {
		writeError(w, http.StatusBadRequest, "Account pending approval")
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID.Hex(), user.Role)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    summarize(user),
	})
}
