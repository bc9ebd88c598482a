package trainees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupTraineeRoutes(app *fiber.App) {
	pages := app.Group("/trainees")
	pages.Use(auth.AuthMiddleware)
	pages.Use(auth.RoleMiddleware(models.RoleAdmin, models.RoleTrainer))
	pages.Get("/", TraineesPage)
	pages.Get("/:id", TraineeDetailPage)

	api := app.Group("/api/trainees")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetTraineesAPI)
	api.Get("/:id", GetTraineeAPI)

	admin := api.Group("")
	admin.Use(auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", CreateTraineeAPI)
	admin.Put("/:id", UpdateTraineeAPI)
	admin.Delete("/:id", DeleteTraineeAPI)
}

func TraineesPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	var (
		list []*models.Trainee
		err  error
	)
	if actor.Kind == auth.ActorTrainer {
		list, err = database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
	} else {
		list, err = database.GetAllTrainees(config.GetDB())
	}
	if err != nil {
		return c.Status(500).SendString("Failed to fetch trainees")
	}

	courses, err := database.GetAllCourses(config.GetDB())
	if err != nil {
		return c.Status(500).SendString("Failed to fetch courses")
	}

	trainersList, err := database.GetAllTrainers(config.GetDB())
	if err != nil {
		return c.Status(500).SendString("Failed to fetch trainers")
	}

	return c.Render("trainees/index", fiber.Map{
		"Title":       "Trainees - Vetri Training",
		"CurrentPage": "trainees",
		"user":        user,
		"trainees":    list,
		"courses":     courses,
		"trainers":    trainersList,
	})
}

func TraineeDetailPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trainee, err := database.GetTraineeByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).SendString("Trainee not found")
	}

	attendance, err := database.GetAttendanceByTrainee(config.GetDB(), trainee.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch attendance records")
	}

	stats, err := database.GetAttendanceStats(config.GetDB(), trainee.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch attendance stats")
	}

	assessments, err := database.GetAssessmentsByTrainee(config.GetDB(), trainee.ID)
	if err != nil {
		return c.Status(500).SendString("Failed to fetch assessments")
	}

	return c.Render("trainees/detail", fiber.Map{
		"Title":       "Trainee Details - Vetri Training",
		"CurrentPage": "trainees",
		"user":        user,
		"trainee":     trainee,
		"attendance":  attendance,
		"stats":       stats,
		"assessments": assessments,
	})
}

func GetTraineesAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorAdmin:
		list, err := database.GetAllTrainees(config.GetDB())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trainees"})
		}
		return c.JSON(fiber.Map{"success": true, "data": list})
	case auth.ActorTrainer:
		list, err := database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trainees"})
		}
		return c.JSON(fiber.Map{"success": true, "data": list})
	default:
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

func GetTraineeAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	trainee, err := database.GetTraineeByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
	}

	// Trainees may only look at themselves.
	if actor.Kind == auth.ActorTrainee && actor.Trainee.ID != trainee.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	return c.JSON(fiber.Map{"success": true, "data": trainee})
}

type traineeRequest struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	Phone       string `json:"phone" form:"phone"`
	CourseID    string `json:"course_id" form:"course_id"`
	TrainerID   string `json:"trainer_id" form:"trainer_id"`
	Batch       string `json:"batch" form:"batch"`
	TraineeCode string `json:"trainee_code" form:"trainee_code"`
	DailyTask   int    `json:"daily_task" form:"daily_task"`
	Status      string `json:"status" form:"status"`
	Remarks     string `json:"remarks" form:"remarks"`
}

func CreateTraineeAPI(c *fiber.Ctx) error {
	var req traineeRequest
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
	trainee := &models.Trainee{
		Phone:       req.Phone,
		Batch:       req.Batch,
		TraineeCode: req.TraineeCode,
		DailyTask:   1,
		Status:      "Active",
		Remarks:     req.Remarks,
	}
	if req.DailyTask > 0 {
		trainee.DailyTask = req.DailyTask
	}
	if req.Status != "" {
		trainee.Status = req.Status
	}
	if req.CourseID != "" {
		trainee.CourseID = &req.CourseID
	}
	if req.TrainerID != "" {
		trainee.TrainerID = &req.TrainerID
	}

	if err := database.CreateTrainee(config.GetDB(), user, trainee); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create trainee"})
	}
	trainee.User = user
	return c.Status(201).JSON(fiber.Map{"success": true, "data": trainee})
}

func UpdateTraineeAPI(c *fiber.Ctx) error {
	trainee, err := database.GetTraineeByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
	}

	var req traineeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Phone != "" {
		trainee.Phone = req.Phone
	}
	if req.Batch != "" {
		trainee.Batch = req.Batch
	}
	if req.TraineeCode != "" {
		trainee.TraineeCode = req.TraineeCode
	}
	if req.Status != "" {
		trainee.Status = req.Status
	}
	if req.Remarks != "" {
		trainee.Remarks = req.Remarks
	}
	if req.CourseID != "" {
		trainee.CourseID = &req.CourseID
	}
	if req.TrainerID != "" {
		trainee.TrainerID = &req.TrainerID
	}

	if err := database.UpdateTrainee(config.GetDB(), trainee); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update trainee"})
	}
	return c.JSON(fiber.Map{"success": true, "data": trainee})
}

func DeleteTraineeAPI(c *fiber.Ctx) error {
	if err := database.DeleteTrainee(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete trainee"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Trainee deactivated"})
}
