// ~/studyhub/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"studyhub/database"
	"studyhub/handlers"
	"studyhub/middleware"
	"studyhub/realtime"
	"studyhub/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Connection registry shared by the WebSocket endpoint and the
	// notification push path
	hub := realtime.NewHub()

	// Wire services behind the HTTP handlers
	handlers.Init(hub)

	// Session reminder worker
	reminders := services.NewReminderService(database.GetDB(), handlers.Notifications())
	reminders.Start()
	defer reminders.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetProfile)
	userGroup.Put("/me", handlers.UpdateProfile)

	// Study group routes
	groupGroup := api.Group("/groups")
	groupGroup.Use(middleware.AuthMiddleware)
	groupGroup.Post("/", handlers.CreateGroup)
	groupGroup.Get("/", handlers.ListGroups)
	groupGroup.Get("/:id", handlers.GetGroup)
	groupGroup.Put("/:id", handlers.UpdateGroup)
	groupGroup.Delete("/:id", handlers.DeleteGroup)
	groupGroup.Post("/:id/join", handlers.JoinGroup)
	groupGroup.Post("/:id/leave", handlers.LeaveGroup)
	groupGroup.Get("/:id/sessions", handlers.ListSessions)
	groupGroup.Get("/:id/messages", handlers.ChatHistory)
	groupGroup.Post("/:id/resources", handlers.UploadResource)
	groupGroup.Get("/:id/resources", handlers.ListResources)

	// Study session routes
	sessionGroup := api.Group("/sessions")
	sessionGroup.Use(middleware.AuthMiddleware)
	sessionGroup.Post("/", handlers.CreateSession)
	sessionGroup.Get("/:id", handlers.GetSession)
	sessionGroup.Put("/:id", handlers.UpdateSession)
	sessionGroup.Delete("/:id", handlers.DeleteSession)
	sessionGroup.Post("/:id/join", handlers.JoinSession)
	sessionGroup.Post("/:id/leave", handlers.LeaveSession)

	// Resource routes
	resourceGroup := api.Group("/resources")
	resourceGroup.Use(middleware.AuthMiddleware)
	resourceGroup.Delete("/:id", handlers.DeleteResource)

	// Notification inbox routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.ListNotifications)
	notificationGroup.Get("/unread-count", handlers.UnreadCount)
	notificationGroup.Post("/:id/read", handlers.MarkNotificationRead)

	// Achievement routes
	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", handlers.AchievementCatalog)
	achievementGroup.Get("/me", handlers.MyAchievements)
	achievementGroup.Get("/counters", handlers.MyCounters)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start WebSocket server on its own port (pure net/http)
	wsPort := getEnv("WS_PORT", "4000")
	wsMux := http.NewServeMux()
	wsMux.Handle("/ws", realtime.NewHandler(hub, handlers.ChatRelay()))

	wsServer := &http.Server{
		Addr:              ":" + wsPort,
		Handler:           wsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🌐 WebSocket server starting on port %s", wsPort)
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("WebSocket server failed:", err)
		}
	}()

	// Start Fiber HTTP/REST server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🌐 WebSocket available at ws://localhost:%s/ws", wsPort)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
