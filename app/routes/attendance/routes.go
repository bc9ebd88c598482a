package attendance

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

func SetupAttendanceRoutes(app *fiber.App, notifier *notify.Service, wa *notify.WhatsAppSender) {
	pages := app.Group("/attendance")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", AttendancePage)

	api := app.Group("/api/attendance")
	api.Use(auth.AuthMiddleware)
	api.Get("/trainee/:id", GetTraineeAttendanceAPI)
	api.Get("/trainee/:id/stats", GetAttendanceStatsAPI)
	api.Get("/trainee/:id/calendar", GetAttendanceCalendarAPI)

	api.Post("/mark", auth.RoleMiddleware(models.RoleTrainer), MarkAttendanceAPI(notifier, wa))
	api.Get("/overview", auth.RoleMiddleware(models.RoleAdmin), GetAttendanceOverviewAPI)
}

func GetAttendanceOverviewAPI(c *fiber.Ctx) error {
	overview, err := database.GetAttendanceOverview(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance overview"})
	}
	return c.JSON(fiber.Map{"success": true, "data": overview})
}

// AttendancePage shows the trainer marking view, or a trainee's own history.
func AttendancePage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := auth.CurrentActor(c)

	switch actor.Kind {
	case auth.ActorAdmin:
		overview, err := database.GetAttendanceOverview(config.GetDB())
		if err != nil {
			return c.Status(500).SendString("Failed to fetch attendance overview")
		}
		return c.Render("attendance/overview", fiber.Map{
			"Title":       "Attendance Overview - Vetri Training",
			"CurrentPage": "attendance",
			"user":        user,
			"overview":    overview,
		})
	case auth.ActorTrainer:
		trainees, err := database.GetTraineesByTrainer(config.GetDB(), actor.Trainer.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch trainees")
		}
		today := localDate(time.Now())
		statuses, err := database.GetTodayStatusesByTrainer(config.GetDB(), actor.Trainer.ID, today)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch attendance statuses")
		}
		return c.Render("attendance/mark", fiber.Map{
			"Title":       "Mark Attendance - Vetri Training",
			"CurrentPage": "attendance",
			"user":        user,
			"trainees":    trainees,
			"statuses":    statuses,
			"today":       today.Format("2006-01-02"),
		})
	case auth.ActorTrainee:
		records, err := database.GetAttendanceByTrainee(config.GetDB(), actor.Trainee.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch attendance records")
		}
		stats, err := database.GetAttendanceStats(config.GetDB(), actor.Trainee.ID)
		if err != nil {
			return c.Status(500).SendString("Failed to fetch attendance stats")
		}
		return c.Render("attendance/history", fiber.Map{
			"Title":       "My Attendance - Vetri Training",
			"CurrentPage": "attendance",
			"user":        user,
			"records":     records,
			"stats":       stats,
		})
	default:
		return c.Redirect("/dashboard")
	}
}

// localDate strips the time component so comparisons against the date column work.
func localDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

type markEntry struct {
	TraineeID string `json:"trainee_id" form:"trainee_id"`
	Status    string `json:"status" form:"status"`
	Remarks   string `json:"remarks" form:"remarks"`
}

type markRequest struct {
	Entries []markEntry `json:"entries"`
}

// MarkAttendanceAPI upserts today's attendance for the trainer's trainees and
// fires the email and WhatsApp notifications per changed record. Notification
// failures are logged but never fail the marking request.
func MarkAttendanceAPI(notifier *notify.Service, wa *notify.WhatsAppSender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := auth.CurrentActor(c)
		if actor.Kind != auth.ActorTrainer {
			return c.Status(403).JSON(fiber.Map{"error": "Trainer profile required"})
		}

		var req markRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if len(req.Entries) == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "No attendance entries provided"})
		}

		today := localDate(time.Now())
		marked := 0

		for _, entry := range req.Entries {
			if !models.ValidAttendanceStatus(entry.Status) {
				return c.Status(400).JSON(fiber.Map{"error": "Invalid attendance status: " + entry.Status})
			}

			trainee, err := database.GetTraineeByID(config.GetDB(), entry.TraineeID)
			if err != nil {
				return c.Status(404).JSON(fiber.Map{"error": "Trainee not found: " + entry.TraineeID})
			}
			if trainee.TrainerID == nil || *trainee.TrainerID != actor.Trainer.ID {
				return c.Status(403).JSON(fiber.Map{"error": "Trainee is not assigned to you"})
			}

			previousStatus := ""
			previousRemarks := ""
			if prev, err := database.GetAttendanceByTraineeAndDate(config.GetDB(), trainee.ID, today); err == nil && prev != nil {
				previousStatus = string(prev.Status)
				previousRemarks = prev.Remarks
			}

			record := &models.TraineeAttendance{
				TraineeID: trainee.ID,
				Date:      today,
				Status:    models.AttendanceStatus(entry.Status),
				Remarks:   entry.Remarks,
			}
			if err := database.UpsertAttendance(config.GetDB(), record); err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "Failed to save attendance"})
			}
			marked++

			// Unchanged re-submissions produce no notification.
			update := notify.AttendanceUpdate{
				Trainee:         trainee,
				Trainer:         actor.Trainer,
				Date:            today,
				Status:          entry.Status,
				PreviousStatus:  previousStatus,
				Remarks:         entry.Remarks,
				PreviousRemarks: previousRemarks,
				EventTimestamp:  time.Now(),
			}
			if previousStatus == "" || len(notify.AttendanceChanges(update)) > 0 {
				if _, err := notifier.QueueAttendanceUpdate(update); err != nil {
					log.Printf("Failed to queue attendance notification for trainee %s: %v", trainee.ID, err)
				}
				wa.SendAttendanceUpdate(trainee.Phone, today.Format("02 Jan 2006"), entry.Status, entry.Remarks)
			}
		}

		return c.JSON(fiber.Map{"success": true, "marked": marked})
	}
}

func GetTraineeAttendanceAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	traineeID := c.Params("id")

	if actor.Kind == auth.ActorTrainee && actor.Trainee.ID != traineeID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	records, err := database.GetAttendanceByTrainee(config.GetDB(), traineeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance records"})
	}
	return c.JSON(fiber.Map{"success": true, "data": records})
}

// calendarDay is one marked day in a month view.
type calendarDay struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// calendarDays keys a month's records by day of month; unmarked days are absent.
func calendarDays(records []*models.TraineeAttendance) map[int]calendarDay {
	days := make(map[int]calendarDay, len(records))
	for _, r := range records {
		days[r.Date.Day()] = calendarDay{Status: string(r.Status), Remarks: r.Remarks}
	}
	return days
}

// GetAttendanceCalendarAPI returns month-keyed attendance for the trainee
// portal calendar. Defaults to the current month.
func GetAttendanceCalendarAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	traineeID := c.Params("id")

	if actor.Kind == auth.ActorTrainee && actor.Trainee.ID != traineeID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := time.Month(c.QueryInt("month", int(now.Month())))
	if month < time.January || month > time.December {
		return c.Status(400).JSON(fiber.Map{"error": "Month must be between 1 and 12"})
	}

	records, err := database.GetAttendanceByTraineeAndMonth(config.GetDB(), traineeID, year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance records"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"year":  year,
			"month": int(month),
			"days":  calendarDays(records),
		},
	})
}

func GetAttendanceStatsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	traineeID := c.Params("id")

	if actor.Kind == auth.ActorTrainee && actor.Trainee.ID != traineeID {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	stats, err := database.GetAttendanceStats(config.GetDB(), traineeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance stats"})
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
