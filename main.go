package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/announcements"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/attendance"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/certificates"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/courses"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/dashboard"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/notifications"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/sessions"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/tasks"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/trainees"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/trainers"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Check if this is an API request
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	// Handle different error codes for web requests
	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "Page Not Found - Vetri Training",
			"CurrentPage": "",
		})
	case 403:
		return c.Status(403).Render("error", fiber.Map{
			"Title":        "Access Forbidden - Vetri Training",
			"CurrentPage":  "",
			"ErrorCode":    "403",
			"ErrorTitle":   "Access Forbidden",
			"ErrorMessage": "You don't have permission to access this resource.",
		})
	case 401:
		return c.Status(401).Render("error", fiber.Map{
			"Title":        "Unauthorized - Vetri Training",
			"CurrentPage":  "",
			"ErrorCode":    "401",
			"ErrorTitle":   "Unauthorized",
			"ErrorMessage": "Please log in to access this resource.",
		})
	case 500:
		return c.Status(500).Render("500", fiber.Map{
			"Title":        "Server Error - Vetri Training",
			"CurrentPage":  "",
			"ErrorCode":    "500",
			"ErrorTitle":   "Internal Server Error",
			"ErrorMessage": "We're experiencing technical difficulties. Please try again later.",
			"ShowRetry":    true,
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Vetri Training",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// Set global time zone to Indian Standard Time
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Printf("Warning: Failed to load Asia/Kolkata location, falling back to UTC+5:30: %v", err)
		time.Local = time.FixedZone("IST", 5*60*60+30*60)
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Notification channels
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	notifier := notify.NewService(
		notify.NewStore(config.GetDB()),
		notify.NewSMTPSender(config.AppConfig.SMTP),
		notify.Config{
			FromEmail: config.AppConfig.SMTP.From,
			BaseURL:   baseURL,
		},
	)
	wa := notify.NewWhatsAppSender(config.AppConfig.Twilio)

	// Start background retry scheduler
	services.StartScheduler(notifier)

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	engine.Reload(true) // Enable template reloading for development
	engine.Debug(false) // Disable debug mode to reduce verbose logs

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendFile("./static/favicon.ico")
	})

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup dashboard routes
	dashboard.SetupDashboardRoutes(app)

	// Setup courses routes
	courses.SetupCourseRoutes(app)

	// Setup trainers routes
	trainers.SetupTrainerRoutes(app)

	// Setup trainees routes
	trainees.SetupTraineeRoutes(app)

	// Setup attendance routes
	attendance.SetupAttendanceRoutes(app, notifier, wa)

	// Setup daily task routes
	tasks.SetupTaskRoutes(app, notifier, wa)

	// Setup session recording routes
	sessions.SetupSessionRoutes(app, notifier)

	// Setup announcement routes
	announcements.SetupAnnouncementRoutes(app, notifier, wa)

	// Setup certificate routes
	certificates.SetupCertificateRoutes(app)

	// Setup notification preference routes
	notifications.SetupNotificationRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
