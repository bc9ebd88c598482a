package courses

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func SetupCourseRoutes(app *fiber.App) {
	pages := app.Group("/courses")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", CoursesPage)

	api := app.Group("/api/courses")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetCoursesAPI)
	api.Get("/:id", GetCourseAPI)

	admin := api.Group("")
	admin.Use(auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", CreateCourseAPI)
	admin.Put("/:id", UpdateCourseAPI)
	admin.Delete("/:id", DeleteCourseAPI)
}

// CoursesPage shows the full catalogue to admins, assigned courses to
// trainers, and the enrolled course to trainees.
func CoursesPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorAdmin:
		courses, err := database.GetAllCourses(config.GetDB())
		if err != nil {
			return c.Status(500).SendString("Failed to fetch courses")
		}
		trainers, err := database.GetAllTrainers(config.GetDB())
		if err != nil {
			return c.Status(500).SendString("Failed to fetch trainers")
		}
		return c.Render("courses/index", fiber.Map{
			"Title":       "Courses - Vetri Training",
			"CurrentPage": "courses",
			"user":        user,
			"courses":     courses,
			"trainers":    trainers,
		})
	case auth.ActorTrainer:
		courses, err := database.GetCoursesByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch courses")
		}
		return c.Render("courses/assigned", fiber.Map{
			"Title":       "My Courses - Vetri Training",
			"CurrentPage": "courses",
			"user":        user,
			"courses":     courses,
		})
	case auth.ActorTrainee:
		var course *models.Course
		if actor.Trainee.CourseID != nil {
			var err error
			course, err = database.GetCourseByID(config.GetDB(), *actor.Trainee.CourseID)
			if err != nil {
				return c.Status(500).SendString("Failed to fetch course")
			}
		}
		return c.Render("courses/mine", fiber.Map{
			"Title":       "My Course - Vetri Training",
			"CurrentPage": "courses",
			"user":        user,
			"course":      course,
			"trainee":     actor.Trainee,
		})
	default:
		return c.Redirect("/dashboard")
	}
}

func GetCoursesAPI(c *fiber.Ctx) error {
	courses, err := database.GetAllCourses(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch courses"})
	}
	return c.JSON(fiber.Map{"success": true, "data": courses})
}

func GetCourseAPI(c *fiber.Ctx) error {
	course, err := database.GetCourseByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(fiber.Map{"success": true, "data": course})
}

type courseRequest struct {
	Name             string `json:"name" form:"name"`
	Code             string `json:"code" form:"code"`
	Description      string `json:"description" form:"description"`
	Duration         string `json:"duration" form:"duration"`
	LearningOutcomes string `json:"learning_outcomes" form:"learning_outcomes"`
	Mode             string `json:"mode" form:"mode"`
	Category         string `json:"category" form:"category"`
	TrainerID        string `json:"trainer_id" form:"trainer_id"`
}

func CreateCourseAPI(c *fiber.Ctx) error {
	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Course name is required"})
	}

	course := &models.Course{
		Name:             req.Name,
		Code:             req.Code,
		Description:      req.Description,
		Duration:         req.Duration,
		LearningOutcomes: req.LearningOutcomes,
		Mode:             models.ModeOffline,
		Category:         models.CategoryDeveloper,
		IsActive:         true,
	}
	if req.Mode != "" {
		course.Mode = models.CourseMode(req.Mode)
	}
	if req.Category != "" {
		course.Category = models.CourseCategory(req.Category)
	}
	if req.TrainerID != "" {
		course.TrainerID = &req.TrainerID
	}

	if err := database.CreateCourse(config.GetDB(), course); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create course"})
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": course})
}

func UpdateCourseAPI(c *fiber.Ctx) error {
	course, err := database.GetCourseByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Code != "" {
		course.Code = req.Code
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Duration != "" {
		course.Duration = req.Duration
	}
	if req.LearningOutcomes != "" {
		course.LearningOutcomes = req.LearningOutcomes
	}
	if req.Mode != "" {
		course.Mode = models.CourseMode(req.Mode)
	}
	if req.Category != "" {
		course.Category = models.CourseCategory(req.Category)
	}
	if req.TrainerID != "" {
		course.TrainerID = &req.TrainerID
	}

	if err := database.UpdateCourse(config.GetDB(), course); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(fiber.Map{"success": true, "data": course})
}

func DeleteCourseAPI(c *fiber.Ctx) error {
	if err := database.DeleteCourse(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Course deleted"})
}
