package tasks

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

func SetupTaskRoutes(app *fiber.App, notifier *notify.Service, wa *notify.WhatsAppSender) {
	pages := app.Group("/tasks")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", TasksPage)

	api := app.Group("/api/tasks")
	api.Use(auth.AuthMiddleware)
	api.Get("/trainee/:id", GetTraineeTasksAPI)

	trainer := api.Group("")
	trainer.Use(auth.RoleMiddleware(models.RoleTrainer))
	trainer.Put("/trainee/:id", UpdateTaskCountersAPI(notifier, wa))
	trainer.Post("/assessments", CreateAssessmentAPI)
}

func TasksPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorTrainer:
		trainees, err := database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch trainees")
		}
		return c.Render("tasks/manage", fiber.Map{
			"Title":       "Daily Tasks - Vetri Training",
			"CurrentPage": "tasks",
			"user":        user,
			"trainees":    trainees,
		})
	case auth.ActorTrainee:
		assessments, err := database.GetAssessmentsByTrainee(config.GetDB(), actor.Trainee.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch assessments")
		}
		return c.Render("tasks/mine", fiber.Map{
			"Title":          "My Tasks - Vetri Training",
			"CurrentPage":    "tasks",
			"user":           user,
			"trainee":        actor.Trainee,
			"remaining_task": actor.Trainee.RemainingTask(),
			"assessments":    assessments,
		})
	default:
		return c.Redirect("/dashboard")
	}
}

type taskCounterRequest struct {
	DailyTask     *int   `json:"daily_task" form:"daily_task"`
	TotalTask     *int   `json:"total_task" form:"total_task"`
	CompletedTask *int   `json:"completed_task" form:"completed_task"`
	Remarks       string `json:"remarks" form:"remarks"`
}

// UpdateTaskCountersAPI applies counter changes to a trainee's task plan and
// notifies the trainee over email and WhatsApp. Notification failures are
// logged but never fail the update.
func UpdateTaskCountersAPI(notifier *notify.Service, wa *notify.WhatsAppSender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := auth.CurrentActor(c)
		if actor.Kind != auth.ActorTrainer {
			return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
		}

		trainee, err := database.GetTraineeByID(config.GetDB(), c.Params("id"))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
		}
		if trainee.TrainerID == nil || *trainee.TrainerID != actor.Trainer.ID {
			return c.Status(403).JSON(fiber.Map{"error": "Trainee is not assigned to you"})
		}

		var req taskCounterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
		}

		prevDaily := trainee.DailyTask
		prevTotal := trainee.TotalTask
		prevCompleted := trainee.CompletedTask

		if req.DailyTask != nil {
			trainee.DailyTask = *req.DailyTask
		}
		if req.TotalTask != nil {
			trainee.TotalTask = *req.TotalTask
		}
		if req.CompletedTask != nil {
			trainee.CompletedTask = *req.CompletedTask
		}

		changes := taskChanges(prevDaily, prevTotal, prevCompleted, trainee)
		if len(changes) == 0 {
			return c.JSON(fiber.Map{"success": true, "message": "No changes"})
		}

		trainee.PendingCompleted = trainee.CompletedTask - prevCompleted
		if trainee.PendingCompleted < 0 {
			trainee.PendingCompleted = 0
		}

		if err := database.UpdateTraineeTaskCounters(config.GetDB(), trainee); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update task counters"})
		}

		update := notify.TaskUpdate{
			Trainee:            trainee,
			Trainer:            actor.Trainer,
			Changes:            changes,
			AssignedToday:      trainee.DailyTask,
			CompletedSinceLast: trainee.PendingCompleted,
			TotalAssigned:      trainee.TotalTask,
			TotalCompleted:     trainee.CompletedTask,
			RemainingTask:      trainee.RemainingTask(),
			Remarks:            req.Remarks,
			EventTimestamp:     time.Now(),
		}
		if _, err := notifier.QueueTaskUpdate(update); err != nil {
			log.Printf("Failed to queue task notification for trainee %s: %v", trainee.ID, err)
		}
		wa.SendDailyTaskUpdate(trainee.Phone, trainee.DailyTask, trainee.CompletedTask, trainee.RemainingTask())

		return c.JSON(fiber.Map{"success": true, "data": trainee})
	}
}

func taskChanges(prevDaily, prevTotal, prevCompleted int, t *models.Trainee) []string {
	changes := []string{}
	if t.DailyTask != prevDaily {
		changes = append(changes, fmt.Sprintf("Daily task count changed from %d to %d", prevDaily, t.DailyTask))
	}
	if t.TotalTask != prevTotal {
		changes = append(changes, fmt.Sprintf("Total assigned tasks changed from %d to %d", prevTotal, t.TotalTask))
	}
	if t.CompletedTask != prevCompleted {
		changes = append(changes, fmt.Sprintf("Completed tasks changed from %d to %d", prevCompleted, t.CompletedTask))
	}
	return changes
}

type assessmentRequest struct {
	TraineeID   string `json:"trainee_id" form:"trainee_id"`
	Date        string `json:"date" form:"date"`
	Score       int    `json:"score" form:"score"`
	MaxScore    int    `json:"max_score" form:"max_score"`
	Remarks     string `json:"remarks" form:"remarks"`
	IsCompleted bool   `json:"is_completed" form:"is_completed"`
}

func CreateAssessmentAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if actor.Kind != auth.ActorTrainer {
		return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
	}

	var req assessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TraineeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Trainee is required"})
	}

	trainee, err := database.GetTraineeByID(config.GetDB(), req.TraineeID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
	}
	if trainee.TrainerID == nil || *trainee.TrainerID != actor.Trainer.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Trainee is not assigned to you"})
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	assessment := &models.DailyAssessment{
		TraineeID:   trainee.ID,
		TrainerID:   actor.Trainer.ID,
		Date:        date,
		Score:       req.Score,
		MaxScore:    100,
		Remarks:     req.Remarks,
		IsCompleted: req.IsCompleted,
	}
	if req.MaxScore > 0 {
		assessment.MaxScore = req.MaxScore
	}

	if err := database.CreateAssessment(config.GetDB(), assessment); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create assessment"})
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": assessment})
}

func GetTraineeTasksAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	traineeID := c.Params("id")

	if actor.Kind == auth.ActorTrainee && actor.Trainee.ID != traineeID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	trainee, err := database.GetTraineeByID(config.GetDB(), traineeID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Trainee not found"})
	}

	assessments, err := database.GetAssessmentsByTrainee(config.GetDB(), traineeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch assessments"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"daily_task":     trainee.DailyTask,
			"total_task":     trainee.TotalTask,
			"completed_task": trainee.CompletedTask,
			"remaining_task": trainee.RemainingTask(),
			"assessments":    assessments,
		},
	})
}
