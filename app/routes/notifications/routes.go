package notifications

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupNotificationRoutes(app *fiber.App) {
	// Token-keyed self-service pages, reachable from email footers without a login.
	app.Get("/notifications/preferences/:token", PreferencesPage)
	app.Post("/notifications/preferences/:token", UpdatePreferencesAPI)

	api := app.Group("/api/notifications")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetNotificationsAPI)
	api.Get("/trainee/:id", GetTraineeNotificationsAPI)
}

func PreferencesPage(c *fiber.Ctx) error {
	pref, err := database.GetPreferenceByToken(config.GetDB(), c.Params("token"))
	if err != nil {
		return c.Status(404).Render("notifications/invalid_token", fiber.Map{
			"Title": "Invalid Link - Vetri Training",
		})
	}

	return c.Render("notifications/preferences", fiber.Map{
		"Title": "Email Preferences - Vetri Training",
		"pref":  pref,
		"token": pref.UnsubscribeToken,
	})
}

type preferencesRequest struct {
	AllowAnnouncements     *bool `json:"allow_announcements" form:"allow_announcements"`
	AllowAttendanceUpdates *bool `json:"allow_attendance_updates" form:"allow_attendance_updates"`
	AllowTaskUpdates       *bool `json:"allow_task_updates" form:"allow_task_updates"`
	AllowSessionMaterial   *bool `json:"allow_session_material" form:"allow_session_material"`
	Unsubscribed           *bool `json:"unsubscribed" form:"unsubscribed"`
}

// UpdatePreferencesAPI applies per-category toggles or the global unsubscribe.
// Keyed by the opaque token, so no authentication is required.
func UpdatePreferencesAPI(c *fiber.Ctx) error {
	pref, err := database.GetPreferenceByToken(config.GetDB(), c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Invalid preferences link"})
	}

	var req preferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.AllowAnnouncements != nil {
		pref.AllowAnnouncements = *req.AllowAnnouncements
	}
	if req.AllowAttendanceUpdates != nil {
		pref.AllowAttendanceUpdates = *req.AllowAttendanceUpdates
	}
	if req.AllowTaskUpdates != nil {
		pref.AllowTaskUpdates = *req.AllowTaskUpdates
	}
	if req.AllowSessionMaterial != nil {
		pref.AllowSessionMaterial = *req.AllowSessionMaterial
	}
	if req.Unsubscribed != nil {
		pref.Unsubscribed = *req.Unsubscribed
	}

	if err := database.UpdateNotificationPreference(config.GetDB(), pref); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save preferences"})
	}
	return c.JSON(fiber.Map{"success": true, "data": pref})
}

// GetNotificationsAPI lists recent delivery records for the admin dashboard.
func GetNotificationsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if actor.Kind != auth.ActorAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	list, err := database.GetRecentNotifications(config.GetDB(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

func GetTraineeNotificationsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	traineeID := c.Params("id")

	switch actor.Kind {
	case auth.ActorAdmin:
	case auth.ActorTrainee:
		if actor.Trainee.ID != traineeID {
			return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
	default:
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	list, err := database.GetNotificationsByTrainee(config.GetDB(), traineeID, 100)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}
