package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupDashboardRoutes(app *fiber.App) {
	dash := app.Group("/dashboard")
	dash.Use(auth.AuthMiddleware)
	dash.Get("/", DashboardPage)

	api := app.Group("/api/dashboard")
	api.Use(auth.AuthMiddleware)
	api.Get("/stats", GetDashboardStatsAPI)
}

// DashboardPage routes each actor to its own portal landing page.
func DashboardPage(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	switch actor.Kind {
	case auth.ActorAdmin:
		return adminDashboard(c)
	case auth.ActorTrainer:
		return trainerDashboard(c, actor)
	case auth.ActorTrainee:
		return traineeDashboard(c, actor)
	default:
		return c.Redirect("/auth/login")
	}
}

func adminDashboard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	stats, err := database.GetDashboardStats(config.GetDB())
	if err != nil {
		return c.Status(500).SendString("Failed to fetch dashboard stats")
	}

	announcements, err := database.GetAllAnnouncements(config.GetDB())
	if err != nil {
		return c.Status(500).SendString("Failed to fetch announcements")
	}

	return c.Render("dashboard/admin", fiber.Map{
		"Title":         "Admin Dashboard - Vetri Training",
		"CurrentPage":   "dashboard",
		"user":          user,
		"FirstName":     user.FirstName,
		"stats":         stats,
		"announcements": announcements,
	})
}

func trainerDashboard(c *fiber.Ctx, actor *auth.Actor) error {
	user := c.Locals("user").(*models.User)

	stats, err := database.GetTrainerDashboardStats(config.GetDB(), actor.Trainer.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch dashboard stats")
	}

	trainees, err := database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch trainees")
	}

	return c.Render("dashboard/trainer", fiber.Map{
		"Title":       "Trainer Dashboard - Vetri Training",
		"CurrentPage": "dashboard",
		"user":        user,
		"FirstName":   user.FirstName,
		"trainer":     actor.Trainer,
		"stats":       stats,
		"trainees":    trainees,
	})
}

func traineeDashboard(c *fiber.Ctx, actor *auth.Actor) error {
	user := c.Locals("user").(*models.User)
	trainee := actor.Trainee

	attendanceStats, err := database.GetAttendanceStats(config.GetDB(), trainee.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch attendance stats")
	}

	announcements, err := database.GetAnnouncementsForAudience(config.GetDB(), models.AudienceTrainees)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch announcements")
	}

	return c.Render("dashboard/trainee", fiber.Map{
		"Title":           "My Dashboard - Vetri Training",
		"CurrentPage":     "dashboard",
		"user":            user,
		"FirstName":       user.FirstName,
		"trainee":         trainee,
		"remaining_task":  trainee.RemainingTask(),
		"attendanceStats": attendanceStats,
		"announcements":   announcements,
	})
}

func GetDashboardStatsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorAdmin:
		stats, err := database.GetDashboardStats(config.GetDB())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
		}
		return c.JSON(fiber.Map{"success": true, "data": stats})
	case auth.ActorTrainer:
		stats, err := database.GetTrainerDashboardStats(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
		}
		return c.JSON(fiber.Map{"success": true, "data": stats})
	default:
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}
