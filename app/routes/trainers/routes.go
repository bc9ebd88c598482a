package trainers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupTrainerRoutes(app *fiber.App) {
	pages := app.Group("/trainers")
	pages.Use(auth.AuthMiddleware)
	pages.Use(auth.RoleMiddleware(models.RoleAdmin))
	pages.Get("/", TrainersPage)

	api := app.Group("/api/trainers")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleAdmin))
	api.Get("/", GetTrainersAPI)
	api.Get("/:id", GetTrainerAPI)
	api.Post("/", CreateTrainerAPI)
	api.Put("/:id", UpdateTrainerAPI)
	api.Delete("/:id", DeleteTrainerAPI)
}

func TrainersPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trainers, err := database.GetAllTrainers(config.GetDB())
	if err != nil {
		return c.Status(500).SendString("Failed to fetch trainers")
	}

	return c.Render("trainers/index", fiber.Map{
		"Title":       "Trainers - Vetri Training",
		"CurrentPage": "trainers",
		"user":        user,
		"trainers":    trainers,
	})
}

func GetTrainersAPI(c *fiber.Ctx) error {
	trainers, err := database.GetAllTrainers(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trainers"})
	}
	return c.JSON(fiber.Map{"success": true, "data": trainers})
}

func GetTrainerAPI(c *fiber.Ctx) error {
	trainer, err := database.GetTrainerByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainer not found"})
	}
	return c.JSON(fiber.Map{"success": true, "data": trainer})
}

type trainerRequest struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	Phone       string `json:"phone" form:"phone"`
	Expertise   string `json:"expertise" form:"expertise"`
	Bio         string `json:"bio" form:"bio"`
	TrainerCode string `json:"trainer_code" form:"trainer_code"`
	Batches     int    `json:"batches" form:"batches"`
	Status      string `json:"status" form:"status"`
}

func CreateTrainerAPI(c *fiber.Ctx) error {
	var req trainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters long"})
	}

	if existing, _ := database.GetUserByEmail(config.GetDB(), req.Email); existing != nil {
		return c.Status(409).JSON(fiber.Map{"error": "A user with this email already exists"})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to process password"})
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	trainer := &models.Trainer{
		Phone:       req.Phone,
		Expertise:   req.Expertise,
		Bio:         req.Bio,
		TrainerCode: req.TrainerCode,
		Batches:     req.Batches,
		Status:      "Active",
	}
	if req.Status != "" {
		trainer.Status = req.Status
	}

	if err := database.CreateTrainer(config.GetDB(), user, trainer); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create trainer"})
	}
	trainer.User = user
	return c.Status(201).JSON(fiber.Map{"success": true, "data": trainer})
}

func UpdateTrainerAPI(c *fiber.Ctx) error {
	trainer, err := database.GetTrainerByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainer not found"})
	}

	var req trainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Phone != "" {
		trainer.Phone = req.Phone
	}
	if req.Expertise != "" {
		trainer.Expertise = req.Expertise
	}
	if req.Bio != "" {
		trainer.Bio = req.Bio
	}
	if req.TrainerCode != "" {
		trainer.TrainerCode = req.TrainerCode
	}
	if req.Batches > 0 {
		trainer.Batches = req.Batches
	}
	if req.Status != "" {
		trainer.Status = req.Status
	}

	if err := database.UpdateTrainer(config.GetDB(), trainer); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update trainer"})
	}
	return c.JSON(fiber.Map{"success": true, "data": trainer})
}

func DeleteTrainerAPI(c *fiber.Ctx) error {
	if err := database.DeleteTrainer(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete trainer"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Trainer deactivated"})
}
