package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/docuserve/activity-api/internal/config"
	"github.com/docuserve/activity-api/internal/database"
	"github.com/docuserve/activity-api/internal/handlers"
	"github.com/docuserve/activity-api/internal/logger"
	"github.com/docuserve/activity-api/internal/middleware"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	zapLog := logger.New(cfg.LogLevel)
	defer zapLog.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("docuserve_session", store))

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	requestRepo := repository.NewLoginRequestRepository(db)
	recoveryRepo := repository.NewPasswordRecoveryRepository(db)

	authService := services.NewAuthService(userRepo, recoveryRepo, zapLog)
	guestService := services.NewGuestLoginService(requestRepo, userRepo, zapLog)
	activityService := services.NewActivityService(activityRepo)

	appHandler := handlers.NewAppHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, guestService, zapLog)
	activityHandler := handlers.NewActivityHandler(activityService, authService, zapLog)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// App configuration
	r.GET("/app", appHandler.GetApp)

	// User routes
	user := r.Group("/user")
	{
		user.POST("/login", authHandler.Login)
		user.POST("/logout", authHandler.Logout)
		user.POST("/login_request", authHandler.LoginRequest)
		user.POST("/password_lost", authHandler.PasswordLost)

		admin := user.Group("/login_request", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("", authHandler.ListLoginRequests)
			admin.POST("/:id/accept", authHandler.AcceptLoginRequest)
			admin.POST("/:id/reject", authHandler.RejectLoginRequest)
		}
	}

	// User activity routes (protected)
	activity := r.Group("/useractivity", middleware.RequireAuth())
	{
		activity.GET("", middleware.RequireAdmin(), activityHandler.List)
		activity.GET("/user", activityHandler.ListForCurrentUser)
		activity.PUT("", activityHandler.Upsert)
		activity.DELETE("/:id", activityHandler.Delete)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
