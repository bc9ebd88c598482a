package certificates

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupCertificateRoutes(app *fiber.App) {
	pages := app.Group("/certificates")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", CertificatesPage)

	api := app.Group("/api/certificates")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetCertificatesAPI)
	api.Get("/:id", GetCertificateAPI)

	admin := api.Group("")
	admin.Use(auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", IssueCertificateAPI)
}

func CertificatesPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	var (
		certs []*models.Certificate
		err   error
	)
	if actor.Kind == auth.ActorTrainee {
		certs, err = database.GetCertificatesByTrainee(config.GetDB(), actor.Trainee.ID)
	} else {
		certs, err = database.GetAllCertificates(config.GetDB())
	}
	if err != nil {
		return c.Status(500).SendString("Failed to fetch certificates")
	}

	return c.Render("certificates/index", fiber.Map{
		"Title":        "Certificates - Vetri Training",
		"CurrentPage":  "certificates",
		"user":         user,
		"certificates": certs,
		"canIssue":     actor.Kind == auth.ActorAdmin,
	})
}

func GetCertificatesAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	if actor.Kind == auth.ActorTrainee {
		certs, err := database.GetCertificatesByTrainee(config.GetDB(), actor.Trainee.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch certificates"})
		}
		return c.JSON(fiber.Map{"success": true, "data": certs})
	}

	certs, err := database.GetAllCertificates(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch certificates"})
	}
	return c.JSON(fiber.Map{"success": true, "data": certs})
}

func GetCertificateAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	cert, err := database.GetCertificateByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Certificate not found"})
	}
	if actor.Kind == auth.ActorTrainee && cert.TraineeID != actor.Trainee.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return c.JSON(fiber.Map{"success": true, "data": cert})
}

type issueRequest struct {
	TraineeID            string `json:"trainee_id" form:"trainee_id"`
	CourseID             string `json:"course_id" form:"course_id"`
	CompletionPercentage int    `json:"completion_percentage" form:"completion_percentage"`
	Grade                string `json:"grade" form:"grade"`
}

func IssueCertificateAPI(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TraineeID == "" || req.CourseID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Trainee and course are required"})
	}

	trainee, err := database.GetTraineeByID(config.GetDB(), req.TraineeID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
	}
	course, err := database.GetCourseByID(config.GetDB(), req.CourseID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}

	grade := "A"
	if req.Grade != "" {
		switch strings.ToUpper(req.Grade) {
		case "A", "B", "C", "D", "F":
			grade = strings.ToUpper(req.Grade)
		default:
			return c.Status(400).JSON(fiber.Map{"error": "Invalid grade"})
		}
	}

	issued := time.Now()
	suffix := uuid.New().String()[:8]
	cert := &models.Certificate{
		TraineeID:            trainee.ID,
		CourseID:             course.ID,
		IssuedDate:           issued,
		CertificateNumber:    models.CertificateNumberFor(trainee.TraineeCode, course.Code, issued, suffix),
		CompletionPercentage: req.CompletionPercentage,
		Grade:                grade,
		IsVerified:           true,
	}

	if err := database.CreateCertificate(config.GetDB(), cert); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to issue certificate"})
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": cert})
}
