package announcements

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

func SetupAnnouncementRoutes(app *fiber.App, notifier *notify.Service, wa *notify.WhatsAppSender) {
	pages := app.Group("/announcements")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", AnnouncementsPage)

	api := app.Group("/api/announcements")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetAnnouncementsAPI)

	staff := api.Group("")
	staff.Use(auth.RoleMiddleware(models.RoleAdmin, models.RoleTrainer))
	staff.Post("/", CreateAnnouncementAPI(notifier, wa))

	admin := api.Group("")
	admin.Use(auth.RoleMiddleware(models.RoleAdmin))
	admin.Put("/:id", UpdateAnnouncementAPI)
	admin.Delete("/:id", DeleteAnnouncementAPI)
}

func AnnouncementsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	var (
		list []*models.Announcement
		err  error
	)
	switch actor.Kind {
	case auth.ActorAdmin:
		list, err = database.GetAllAnnouncements(config.GetDB())
	case auth.ActorTrainer:
		list, err = database.GetAnnouncementsForAudience(config.GetDB(), models.AudienceTrainers)
	default:
		list, err = database.GetAnnouncementsForAudience(config.GetDB(), models.AudienceTrainees)
	}
	if err != nil {
		return c.Status(500).SendString("Failed to fetch announcements")
	}

	return c.Render("announcements/index", fiber.Map{
		"Title":         "Announcements - Vetri Training",
		"CurrentPage":   "announcements",
		"user":          user,
		"announcements": list,
		"canPost":       actor.Kind == auth.ActorAdmin || actor.Kind == auth.ActorTrainer,
	})
}

func GetAnnouncementsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	var (
		list []*models.Announcement
		err  error
	)
	switch actor.Kind {
	case auth.ActorAdmin:
		list, err = database.GetAllAnnouncements(config.GetDB())
	case auth.ActorTrainer:
		list, err = database.GetAnnouncementsForAudience(config.GetDB(), models.AudienceTrainers)
	default:
		list, err = database.GetAnnouncementsForAudience(config.GetDB(), models.AudienceTrainees)
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

type announcementRequest struct {
	Title            string `json:"title" form:"title"`
	ShortDescription string `json:"short_description" form:"short_description"`
	Content          string `json:"content" form:"content"`
	TargetAudience   string `json:"target_audience" form:"target_audience"`
}

// buildAnnouncement maps a validated request onto the model, stamping the
// posting date so the feed ordering never sees a zero value.
func buildAnnouncement(req announcementRequest, postedBy string, audience models.AnnouncementAudience) *models.Announcement {
	return &models.Announcement{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		DatePosted:       time.Now(),
		PostedBy:         postedBy,
		Academy:          "Vetri Academy",
		TargetAudience:   audience,
	}
}

// CreateAnnouncementAPI posts an announcement and fans it out to every
// trainee in the target audience over email, plus a WhatsApp preview.
// Delivery failures are logged but never fail the request.
func CreateAnnouncementAPI(notifier *notify.Service, wa *notify.WhatsAppSender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := auth.CurrentActor(c)
		if actor.Kind != auth.ActorAdmin && actor.Kind != auth.ActorTrainer {
			return c.Status(403).JSON(fiber.Map{"error": "Admin or trainer profile required"})
		}

		var req announcementRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Title == "" || req.Content == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Title and content are required"})
		}

		audience := models.AudienceAll
		if req.TargetAudience != "" {
			switch models.AnnouncementAudience(req.TargetAudience) {
			case models.AudienceAll, models.AudienceTrainers, models.AudienceTrainees:
				audience = models.AnnouncementAudience(req.TargetAudience)
			default:
				return c.Status(400).JSON(fiber.Map{"error": "Invalid target audience"})
			}
		}

		postedBy := "Admin"
		isTrainer := actor.Kind == auth.ActorTrainer
		if isTrainer {
			postedBy = actor.Trainer.DisplayName()
			// Trainers can only address their trainees.
			audience = models.AudienceTrainees
		}

		announcement := buildAnnouncement(req, postedBy, audience)
		if err := database.CreateAnnouncement(config.GetDB(), announcement); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to create announcement"})
		}

		if announcement.VisibleTo(models.RoleTrainee) {
			var (
				recipients []*models.Trainee
				err        error
			)
			if isTrainer {
				recipients, err = database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
			} else {
				recipients, err = database.GetAllTrainees(config.GetDB())
			}
			if err != nil {
				log.Printf("Failed to fetch recipients for announcement %s: %v", announcement.ID, err)
			} else {
				deliverAnnouncement(notifier, wa, postedBy, isTrainer, announcement, recipients)
			}
		}

		return c.Status(201).JSON(fiber.Map{"success": true, "data": announcement})
	}
}

// deliverAnnouncement dispatches the email batch and WhatsApp previews to the
// trainee recipients, inline on the request path like the other event types.
func deliverAnnouncement(notifier *notify.Service, wa *notify.WhatsAppSender, postedBy string, byTrainer bool, announcement *models.Announcement, recipients []*models.Trainee) {
	if _, err := notifier.QueueAnnouncement(announcement, recipients); err != nil {
		log.Printf("Failed to queue announcement notifications for %s: %v", announcement.ID, err)
	}

	preview := announcement.ShortDescription
	if preview == "" {
		preview = announcement.Content
	}
	for _, trainee := range recipients {
		if byTrainer {
			wa.SendTrainerAnnouncement(trainee.Phone, postedBy, announcement.Title, preview)
		} else {
			wa.SendAdminAnnouncement(trainee.Phone, announcement.Title, preview)
		}
	}
}

func UpdateAnnouncementAPI(c *fiber.Ctx) error {
	announcement, err := database.GetAnnouncementByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Announcement not found"})
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != "" {
		announcement.Title = req.Title
	}
	if req.ShortDescription != "" {
		announcement.ShortDescription = req.ShortDescription
	}
	if req.Content != "" {
		announcement.Content = req.Content
	}
	if req.TargetAudience != "" {
		switch models.AnnouncementAudience(req.TargetAudience) {
		case models.AudienceAll, models.AudienceTrainers, models.AudienceTrainees:
			announcement.TargetAudience = models.AnnouncementAudience(req.TargetAudience)
		default:
			return c.Status(400).JSON(fiber.Map{"error": "Invalid target audience"})
		}
	}

	if err := database.UpdateAnnouncement(config.GetDB(), announcement); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update announcement"})
	}
	return c.JSON(fiber.Map{"success": true, "data": announcement})
}

func DeleteAnnouncementAPI(c *fiber.Ctx) error {
	if err := database.DeleteAnnouncement(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete announcement"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Announcement deleted"})
}
