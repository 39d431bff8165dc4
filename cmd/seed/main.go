// Command seed populates the database with demo fixtures. It is
// operational tooling for demos and local development, not part of the
// running service.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"bloodfinder-backend/internal/database"
	"bloodfinder-backend/internal/matching"
	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/repository"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type donorFixture struct {
	firstName, lastName, email, phone string
	age                               int
	bloodGroup, city, address         string
	totalDonations                    int
}

var donorFixtures = []donorFixture{
	{"Rahul", "Sharma", "rahul.sharma@example.com", "9876543210", 28, "O+", "Kochi", "12 Marine Drive", 5},
	{"Priya", "Nair", "priya.nair@example.com", "9876543211", 24, "A+", "Kochi", "45 MG Road", 3},
	{"Arjun", "Menon", "arjun.menon@example.com", "9876543212", 32, "B+", "Mumbai", "8 Juhu Lane", 8},
	{"Sneha", "Pillai", "sneha.pillai@example.com", "9876543213", 26, "AB+", "Chennai", "23 Anna Salai", 2},
	{"Vikram", "Iyer", "vikram.iyer@example.com", "9876543214", 35, "O-", "Bengaluru", "67 Brigade Road", 12},
	{"Anita", "Kumar", "anita.kumar@example.com", "9876543215", 29, "A-", "Delhi", "34 Connaught Place", 6},
	{"Deepak", "Rao", "deepak.rao@example.com", "9876543216", 41, "B-", "Hyderabad", "90 Banjara Hills", 4},
	{"Meera", "Das", "meera.das@example.com", "9876543217", 22, "AB-", "Kolkata", "15 Park Street", 1},
}

func main() {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "bloodfinder"
	}

	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	clearDatabase(ctx)

	userRepo := repository.NewUserRepo()
	emergencyRepo := repository.NewEmergencyRepo()
	feedbackRepo := repository.NewFeedbackRepo()
	donationRepo := repository.NewDonationRepo()
	inventoryRepo := repository.NewInventoryRepo()
	notificationRepo := repository.NewNotificationRepo()

	donors := seedUsers(ctx, userRepo)
	seedEmergencies(ctx, emergencyRepo, donors)
	seedInventory(ctx, inventoryRepo)
	seedDonations(ctx, donationRepo, userRepo, donors)
	seedFeedback(ctx, feedbackRepo, donors)
	seedNotifications(ctx, notificationRepo, donors)

	log.Println("🎉 Seeding complete")
}

// clearDatabase wipes every collection except the admin account.
func clearDatabase(ctx context.Context) {
	log.Println("🗑️  Clearing existing data...")
	users := database.GetCollection("users")
	if _, err := users.DeleteMany(ctx, bson.M{"email": bson.M{"$ne": "admin@bloodfinder.com"}}); err != nil {
		log.Fatalf("❌ Failed to clear users: %v", err)
	}
	for _, name := range []string{"emergency_requests", "feedbacks", "donation_history", "blood_inventory", "notifications"} {
		if _, err := database.GetCollection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("❌ Failed to clear %s: %v", name, err)
		}
	}
	log.Println("✅ Database cleared (kept admin user)")
}

func seedUsers(ctx context.Context, userRepo *repository.UserRepo) []*models.User {
	log.Println("👥 Seeding users...")

	hash, err := bcrypt.GenerateFromPassword([]byte("donor123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	var donors []*models.User
	for _, f := range donorFixtures {
		donor, err := models.NewDonor(f.firstName, f.lastName, f.email, string(hash), f.phone, f.city, f.age, f.bloodGroup, f.address)
		if err != nil {
			log.Fatalf("❌ Invalid donor fixture %s: %v", f.email, err)
		}
		donor.TotalDonations = f.totalDonations
		if err := userRepo.Create(ctx, donor); err != nil {
			log.Fatalf("❌ Failed to seed donor %s: %v", f.email, err)
		}
		donors = append(donors, donor)
	}

	recipient, err := models.NewRecipient("Kavya", "Raj", "kavya.raj@example.com", string(hash), "9876543220", "Kochi")
	if err != nil {
		log.Fatalf("❌ Invalid recipient fixture: %v", err)
	}
	if err := userRepo.Create(ctx, recipient); err != nil {
		log.Fatalf("❌ Failed to seed recipient: %v", err)
	}

	log.Printf("✅ Seeded %d donors and 1 recipient", len(donors))
	return donors
}

func seedEmergencies(ctx context.Context, emergencyRepo *repository.EmergencyRepo, donors []*models.User) {
	log.Println("🚨 Seeding emergency requests...")

	emergencies := []*models.EmergencyRequest{
		{
			PatientName:   "Suresh Kumar",
			BloodGroup:    "O+",
			Hospital:      "Aster Medcity",
			ContactNumber: "9847012345",
			UrgencyLevel:  models.UrgencyCritical,
			City:          "Kochi",
		},
		{
			PatientName:     "Lakshmi Devi",
			BloodGroup:      "B+",
			Hospital:        "Lilavati Hospital",
			ContactNumber:   "9820098200",
			UrgencyLevel:    models.UrgencyHigh,
			City:            "Mumbai",
			AdditionalNotes: "Surgery scheduled for tomorrow morning",
		},
		{
			PatientName:   "Ramesh Babu",
			BloodGroup:    "A-",
			Hospital:      "Apollo Hospital",
			ContactNumber: "9000090000",
			UrgencyLevel:  models.UrgencyMedium,
			City:          "Chennai",
		},
	}
	for _, e := range emergencies {
		if err := emergencyRepo.Create(ctx, e); err != nil {
			log.Fatalf("❌ Failed to seed emergency: %v", err)
		}
	}

	// First donor has already pledged on the first request.
	if len(donors) > 0 {
		if _, err := emergencyRepo.AddResponse(ctx, emergencies[0].ID, donors[0].ID); err != nil {
			log.Fatalf("❌ Failed to seed emergency response: %v", err)
		}
	}
	log.Printf("✅ Seeded %d emergency requests", len(emergencies))
}

func seedInventory(ctx context.Context, inventoryRepo *repository.InventoryRepo) {
	log.Println("🩸 Seeding blood inventory...")

	expiry := time.Now().AddDate(0, 1, 0)
	records := []*models.BloodInventory{
		{BloodGroup: "O+", Hospital: "Aster Medcity", City: "Kochi", Quantity: 4200, ContactNumber: "04842669999", ExpiryDate: &expiry},
		{BloodGroup: "A+", Hospital: "Aster Medcity", City: "Kochi", Quantity: 700, ContactNumber: "04842669999", ExpiryDate: &expiry},
		{BloodGroup: "B+", Hospital: "Lilavati Hospital", City: "Mumbai", Quantity: 250, ContactNumber: "02226568000", ExpiryDate: &expiry},
		{BloodGroup: "O-", Hospital: "Apollo Hospital", City: "Chennai", Quantity: 1750, ContactNumber: "04428293333", ExpiryDate: &expiry},
		{BloodGroup: "AB+", Hospital: "Fortis Hospital", City: "Bengaluru", Quantity: 950, ContactNumber: "08066214444", ExpiryDate: &expiry},
	}
	for _, inv := range records {
		if err := inventoryRepo.Create(ctx, inv); err != nil {
			log.Fatalf("❌ Failed to seed inventory: %v", err)
		}
	}
	log.Printf("✅ Seeded %d inventory records", len(records))
}

func seedDonations(ctx context.Context, donationRepo *repository.DonationRepo, userRepo *repository.UserRepo, donors []*models.User) {
	log.Println("📋 Seeding donation history...")

	hospitals := []struct{ hospital, city string }{
		{"Aster Medcity", "Kochi"},
		{"Lilavati Hospital", "Mumbai"},
		{"Apollo Hospital", "Chennai"},
	}
	types := []models.DonationType{
		models.DonationWholeBlood,
		models.DonationPlasma,
		models.DonationPlatelets,
	}

	count := 0
	for i, donor := range donors {
		if i >= len(hospitals) {
			break
		}
		date := time.Now().AddDate(0, 0, -30*(i+1))
		donation := &models.DonationHistory{
			Donor:            donor.ID,
			DonorName:        donor.FullName(),
			BloodGroup:       donor.BloodGroup,
			DonationDate:     date,
			Location:         hospitals[i].hospital,
			Hospital:         hospitals[i].hospital,
			City:             hospitals[i].city,
			Quantity:         matching.MillilitersPerUnit,
			DonationType:     types[i],
			NextEligibleDate: matching.NextEligibleDate(date, types[i]),
		}
		if err := donationRepo.Create(ctx, donation); err != nil {
			log.Fatalf("❌ Failed to seed donation: %v", err)
		}
		if err := userRepo.RecordDonation(ctx, donor.ID, date); err != nil {
			log.Fatalf("❌ Failed to update donor counters: %v", err)
		}
		count++
	}
	log.Printf("✅ Seeded %d donations", count)
}

func seedFeedback(ctx context.Context, feedbackRepo *repository.FeedbackRepo, donors []*models.User) {
	log.Println("💬 Seeding feedback...")

	feedbacks := []*models.Feedback{
		{
			UserName:     "Kavya Raj",
			UserEmail:    "kavya.raj@example.com",
			UserRole:     "recipient",
			Rating:       5,
			Category:     "experience",
			FeedbackType: models.FeedbackApp,
			Subject:      "Found a donor within hours",
			Message:      "The emergency request feature saved my father's life. Thank you!",
		},
		{
			UserName:           "Anonymous",
			UserEmail:          "visitor@example.com",
			UserRole:           "public",
			Rating:             4,
			Category:           "suggestion",
			FeedbackType:       models.FeedbackApp,
			Subject:            "Add dark mode",
			Message:            "Great platform, would love a dark theme.",
			IsAnonymous:        true,
			IsPublicSubmission: true,
		},
	}
	if len(donors) > 0 {
		feedbacks = append(feedbacks, &models.Feedback{
			UserName:     "Kavya Raj",
			UserEmail:    "kavya.raj@example.com",
			UserRole:     "recipient",
			Rating:       5,
			Category:     "donor-feedback",
			FeedbackType: models.FeedbackDonor,
			Donor:        donors[0].ID,
			DonorName:    donors[0].FullName(),
			Subject:      "Wonderful donor",
			Message:      "Responded immediately and was very kind.",
		})
	}
	for _, f := range feedbacks {
		if err := feedbackRepo.Create(ctx, f); err != nil {
			log.Fatalf("❌ Failed to seed feedback: %v", err)
		}
	}
	log.Printf("✅ Seeded %d feedback entries", len(feedbacks))
}

func seedNotifications(ctx context.Context, notificationRepo *repository.NotificationRepo, donors []*models.User) {
	log.Println("🔔 Seeding notifications...")

	count := 0
	for i, donor := range donors {
		if i >= 3 {
			break
		}
		n := &models.Notification{
			Recipient: donor.ID,
			Type:      models.NotifyEligibility,
			Title:     "You are eligible to donate again",
			Message:   "Your cooldown period has ended. Nearby hospitals need " + donor.BloodGroup + " blood.",
			Priority:  "medium",
		}
		if err := notificationRepo.Create(ctx, n); err != nil {
			log.Fatalf("❌ Failed to seed notification: %v", err)
		}
		count++
	}
	log.Printf("✅ Seeded %d notifications", count)
}
