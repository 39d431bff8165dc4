package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"bloodfinder-backend/internal/database"
	"bloodfinder-backend/internal/handlers"
	customMiddleware "bloodfinder-backend/internal/middleware"
	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/notify"
	"bloodfinder-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "bloodfinder")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")
	enforceCooldown := getEnv("ENFORCE_COOLDOWN", "") == "true"

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	// No fallback secret: a signing key baked into the binary would let
	// anyone mint admin tokens.
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	emergencyRepo := repository.NewEmergencyRepo()
	feedbackRepo := repository.NewFeedbackRepo()
	donationRepo := repository.NewDonationRepo()
	inventoryRepo := repository.NewInventoryRepo()
	notificationRepo := repository.NewNotificationRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	for name, repo := range map[string]indexer{
		"user":         userRepo,
		"emergency":    emergencyRepo,
		"feedback":     feedbackRepo,
		"donation":     donationRepo,
		"inventory":    inventoryRepo,
		"notification": notificationRepo,
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Printf("⚠️  Warning: failed to create %s indexes: %v", name, err)
		}
	}

	ensureDefaultAdmin(ctx, userRepo)

	// Admin alerts go out by email when Resend is configured, otherwise
	// to the log.
	var notifier notify.Notifier
	if apiKey := getEnv("RESEND_API_KEY", ""); apiKey != "" {
		notifier = notify.NewEmail(apiKey, getEnv("FROM_EMAIL", ""), getEnv("ADMIN_ALERT_EMAIL", "admin@bloodfinder.com"))
	} else {
		notifier = notify.NewMock()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	donorHandler := handlers.NewDonorHandler(userRepo)
	emergencyHandler := handlers.NewEmergencyHandler(emergencyRepo, userRepo)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, userRepo, notifier)
	donationHandler := handlers.NewDonationHandler(donationRepo, userRepo, enforceCooldown)
	inventoryHandler := handlers.NewInventoryHandler(inventoryRepo, notifier)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, emergencyRepo, donationRepo, inventoryRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"message":"BloodFinder API is running!"}`))
	})

	// Public routes (no auth required)
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Get("/api/donor/search", donorHandler.Search)
	r.Get("/api/donor/all", donorHandler.ListAll)
	r.Post("/api/emergency/create", emergencyHandler.Create)
	r.Get("/api/emergency/active", emergencyHandler.Active)
	r.Post("/api/feedback/public-submit", feedbackHandler.PublicSubmit)
	r.Get("/api/feedback/donors-list", feedbackHandler.DonorsList)
	r.Get("/api/inventory/search", inventoryHandler.Search)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Put("/api/donor/availability", donorHandler.UpdateAvailability)
		r.Get("/api/emergency/requests", emergencyHandler.RequestsForDonor)
		r.Post("/api/emergency/respond", emergencyHandler.Respond)
		r.Post("/api/feedback/submit", feedbackHandler.Submit)
		r.Get("/api/feedback/my-feedbacks", feedbackHandler.MyFeedbacks)
		r.Post("/api/donation/submit", donationHandler.Submit)
		r.Get("/api/donation/history", donationHandler.History)
		r.Get("/api/donation/my-donations", donationHandler.MyDonations)
		r.Get("/api/donation/stats", donationHandler.Stats)
		r.Get("/api/notifications/my-notifications", notificationHandler.MyNotifications)
		r.Get("/api/notifications/unread-count", notificationHandler.UnreadCount)
		r.Put("/api/notifications/{notificationID}/read", notificationHandler.MarkRead)
		r.Put("/api/notifications/mark-all-read", notificationHandler.MarkAllRead)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.RequireRole(models.RoleAdmin))

			r.Get("/api/admin/stats", adminHandler.Stats)
			r.Get("/api/admin/donors", adminHandler.Donors)
			r.Get("/api/admin/emergency-requests", adminHandler.EmergencyRequests)
			r.Get("/api/admin/analytics", adminHandler.Analytics)
			r.Put("/api/admin/donors/{donorID}/status", adminHandler.UpdateDonorStatus)
			r.Put("/api/admin/emergency-requests/{requestID}/resolve", adminHandler.ResolveRequest)
			r.Get("/api/analytics/dashboard", adminHandler.Dashboard)
			r.Post("/api/donation/record", donationHandler.Record)
			r.Post("/api/inventory/add", inventoryHandler.Add)
			r.Get("/api/inventory/all", inventoryHandler.All)
			r.Put("/api/inventory/{inventoryID}/update", inventoryHandler.Update)
			r.Get("/api/inventory/alerts", inventoryHandler.Alerts)
			r.Get("/api/feedback/all", feedbackHandler.All)
			r.Put("/api/feedback/{feedbackID}/respond", feedbackHandler.Respond)
			r.Post("/api/notifications/create", notificationHandler.Create)
		})
	})

	// Start server
	log.Printf("🚀 BloodFinder backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// ensureDefaultAdmin creates the bootstrap admin account on first run.
func ensureDefaultAdmin(ctx context.Context, userRepo *repository.UserRepo) {
	existing, err := userRepo.FindByEmail(ctx, "admin@bloodfinder.com")
	if err != nil {
		log.Printf("⚠️  Warning: failed to check default admin: %v", err)
		return
	}
	if existing != nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(getEnv("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("⚠️  Warning: failed to hash admin password: %v", err)
		return
	}
	admin, err := models.NewAdmin("Admin", "User", "admin@bloodfinder.com", string(hash), "1234567890", "System")
	if err != nil {
		log.Printf("⚠️  Warning: failed to build default admin: %v", err)
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Printf("⚠️  Warning: failed to create default admin: %v", err)
		return
	}
	log.Println("✅ Default admin created: admin@bloodfinder.com")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
