package sessions

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

func SetupSessionRoutes(app *fiber.App, notifier *notify.Service) {
	pages := app.Group("/sessions")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", SessionsPage)

	api := app.Group("/api/sessions")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetSessionsAPI)

	trainer := api.Group("")
	trainer.Use(auth.RoleMiddleware(models.RoleTrainer))
	trainer.Post("/", UploadSessionAPI(notifier))
	trainer.Patch("/:id/visibility", ToggleVisibilityAPI)
	trainer.Delete("/:id", DeleteSessionAPI)
}

func SessionsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorTrainer:
		recordings, err := database.GetSessionRecordingsByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch session recordings")
		}
		return c.Render("sessions/manage", fiber.Map{
			"Title":       "Session Recordings - Vetri Training",
			"CurrentPage": "sessions",
			"user":        user,
			"recordings":  recordings,
		})
	case auth.ActorTrainee:
		recordings, err := database.GetVisibleSessionRecordingsByBatch(config.GetDB(), actor.Trainee.Batch)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch session recordings")
		}
		return c.Render("sessions/list", fiber.Map{
			"Title":       "Session Recordings - Vetri Training",
			"CurrentPage": "sessions",
			"user":        user,
			"recordings":  recordings,
		})
	default:
		return c.Redirect("/dashboard")
	}
}

func GetSessionsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorTrainer:
		recordings, err := database.GetSessionRecordingsByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch session recordings"})
		}
		return c.JSON(fiber.Map{"success": true, "data": recordings})
	case auth.ActorTrainee:
		recordings, err := database.GetVisibleSessionRecordingsByBatch(config.GetDB(), actor.Trainee.Batch)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch session recordings"})
		}
		return c.JSON(fiber.Map{"success": true, "data": recordings})
	default:
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

type sessionRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	SessionURL  string `json:"session_url" form:"session_url"`
	Batch       string `json:"batch" form:"batch"`
}

// UploadSessionAPI saves a recording link and notifies every trainee of the
// batch that passes the session-material preference gate.
func UploadSessionAPI(notifier *notify.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := auth.CurrentActor(c)
		if actor.Kind != auth.ActorTrainer {
			return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
		}

		var req sessionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Title == "" || req.SessionURL == "" || req.Batch == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Title, session URL and batch are required"})
		}
		if !strings.HasPrefix(req.SessionURL, "http://") && !strings.HasPrefix(req.SessionURL, "https://") {
			return c.Status(400).JSON(fiber.Map{"error": "Session URL must be a valid http(s) link"})
		}

		session := &models.SessionRecording{
			Title:        req.Title,
			Description:  req.Description,
			SessionURL:   req.SessionURL,
			Batch:        req.Batch,
			TrainerID:    actor.Trainer.ID,
			IsActive:     true,
			IsVisible:    true,
			UploadStatus: models.UploadSuccess,
		}
		if err := database.CreateSessionRecording(config.GetDB(), session); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to save session recording"})
		}
		session.Trainer = actor.Trainer

		recipients, err := database.GetTraineesByBatch(config.GetDB(), actor.Trainer.ID, session.Batch)
		if err != nil {
			log.Printf("Failed to fetch batch %s recipients for session %s: %v", session.Batch, session.ID, err)
		} else if _, err := notifier.QueueSessionMaterial(session, recipients); err != nil {
			log.Printf("Failed to queue session notifications for %s: %v", session.ID, err)
		}

		return c.Status(201).JSON(fiber.Map{"success": true, "data": session})
	}
}

func ToggleVisibilityAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if actor.Kind != auth.ActorTrainer {
		return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
	}

	session, err := database.GetSessionRecordingByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session recording not found"})
	}
	if session.TrainerID != actor.Trainer.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Not your session recording"})
	}

	if err := database.ToggleSessionRecordingVisibility(config.GetDB(), session.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update visibility"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Visibility updated"})
}

func DeleteSessionAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if actor.Kind != auth.ActorTrainer {
		return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
	}

	session, err := database.GetSessionRecordingByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session recording not found"})
	}
	if session.TrainerID != actor.Trainer.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Not your session recording"})
	}

	if err := database.DeleteSessionRecording(config.GetDB(), session.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete session recording"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Session recording removed"})
}
