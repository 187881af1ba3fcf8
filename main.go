// main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"equestrian-entries/controllers"
	"equestrian-entries/logger"
	"equestrian-entries/middleware"
	"equestrian-entries/services"
	"equestrian-entries/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("main: no .env file found, relying on the environment")
	}
	logger.SetLogLevel(os.Getenv("ENV"))

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Read configuration from environment variables
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default to localhost for local testing
	}
	websocketURL := os.Getenv("WEBSOCKET_URL")
	if websocketURL == "" {
		websocketURL = "ws://localhost:8080/fee-updates" // Default to localhost for local testing
	}
	upstreamURL := os.Getenv("UPSTREAM_API_URL")
	if upstreamURL == "" {
		log.Fatal("UPSTREAM_API_URL is not set; the registration flow cannot open without the platform API")
	}
	controllers.SetConfig(applicationURL, websocketURL)

	// Initialize session store for the admin surface
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-secret" // Set a real secret in production
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("equisession", store))

	// Wire up services
	eventService := services.NewEventService(upstreamURL)
	registrationService := services.NewRegistrationService()
	submissionService := services.NewSubmissionService(upstreamURL)
	archiveService := services.NewArchiveService()

	// Every fee-changing mutation streams recomputed totals to subscribers
	registrationService.FeeNotifier = websocket.BroadcastFeeUpdate
	websocket.FeeSnapshotFunc = func(sessionID string) (int, map[string]int, bool) {
		state, _, err := registrationService.GetSession(sessionID)
		if err != nil {
			return 0, nil, false
		}
		return services.TotalFee(state), services.FeeBreakdown(state), true
	}

	registrationController := controllers.NewRegistrationController(
		eventService, registrationService, submissionService, archiveService)
	adminController := controllers.NewAdminController(archiveService)

	// Health check for the load balancer
	router.GET("/health", controllers.Health)

	// Registration form API
	router.POST("/events/:eventID/registrations", registrationController.OpenRegistration)
	reg := router.Group("/registrations")
	{
		reg.GET("/:sessionID", registrationController.GetRegistration)
		reg.DELETE("/:sessionID", registrationController.CloseRegistration)
		reg.POST("/:sessionID/riders", registrationController.AddRider)
		reg.PATCH("/:sessionID/riders/:riderID", registrationController.UpdateRider)
		reg.DELETE("/:sessionID/riders/:riderID", registrationController.RemoveRider)
		reg.POST("/:sessionID/riders/:riderID/photo", registrationController.UploadRiderPhoto)
		reg.PATCH("/:sessionID/team", registrationController.UpdateTeam)
		reg.POST("/:sessionID/categories/:categoryID", registrationController.ToggleCategory)
		reg.POST("/:sessionID/competitions/:competitionID", registrationController.ToggleCompetition)
		reg.PUT("/:sessionID/mode", registrationController.SwitchMode)
		reg.GET("/:sessionID/categories", registrationController.OfferedCategories)
		reg.GET("/:sessionID/fee", registrationController.GetFee)
		reg.POST("/:sessionID/submit", registrationController.SubmitRegistration)
	}

	// Live fee updates
	router.GET("/fee-updates", func(c *gin.Context) {
		websocket.ServeWs(c.Writer, c.Request)
	})

	// Admin surface
	router.POST("/admin/login", controllers.AdminLogin)
	router.POST("/admin/logout", controllers.AdminLogout)
	admin := router.Group("/admin", middleware.AuthRequired)
	{
		admin.GET("/submissions", adminController.ListSubmissions)
		admin.GET("/submissions/:reference", adminController.GetSubmission)
		admin.GET("/submissions/:reference/qr", adminController.SubmissionQR)
	}

	// Start the broadcast loop
	go websocket.HandleMessages()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
