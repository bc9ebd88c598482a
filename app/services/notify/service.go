package notify

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"text/template"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// Fixed template slugs, one per notification category.
const (
	slugAnnouncement = "announcement_generic"
	slugTask         = "task_update"
	slugAttendance   = "attendance_update"
	slugSession      = "session_material"
)

const (
	defaultSubject = "New update from Vetri Training"
	defaultFrom    = "no-reply@vtstraining.local"

	// RetryDelay is the minimum gap between transport attempts for a queued record.
	RetryDelay = 15 * time.Minute

	retrySweepLimit = 100
)

const defaultBodyTemplate = `Hello {{.trainee_name}},

{{.intro}}

{{if .summary}}{{.summary}}

{{end}}{{range .changes}}- {{.}}
{{end}}
Log in to the trainee portal for full details.

Manage your email preferences here: {{.unsubscribe_url}}
`

// Config is the notification-relevant slice of process configuration,
// passed in explicitly so tests can substitute values.
type Config struct {
	FromEmail string
	// BaseURL is the externally reachable origin used to build preference links.
	BaseURL string
}

// Service translates domain events into persisted, attempted email sends.
//
// Transport failures are captured into record state and never returned to the
// caller; rendering and database errors are returned, since they indicate
// configuration problems rather than runtime delivery faults.
type Service struct {
	store  Store
	sender MailSender
	cfg    Config
}

func NewService(store Store, sender MailSender, cfg Config) *Service {
	if cfg.FromEmail == "" {
		cfg.FromEmail = defaultFrom
	}
	return &Service{store: store, sender: sender, cfg: cfg}
}

// QueueAnnouncement fans an announcement out to every recipient passing the
// announcements gate and sends the produced batch in one transport call.
func (s *Service) QueueAnnouncement(announcement *models.Announcement, recipients []*models.Trainee) ([]*models.EmailNotification, error) {
	tmpl, err := s.template(slugAnnouncement)
	if err != nil {
		return nil, err
	}
	ts := normalizeTimestamp(announcement.DatePosted)

	var notifications []*models.EmailNotification
	for _, trainee := range recipients {
		pref, err := s.store.GetOrCreatePreference(trainee.ID)
		if err != nil {
			return nil, err
		}
		if !pref.Allows(models.NotificationAnnouncement) {
			continue
		}

		context := map[string]any{
			"title":             announcement.Title,
			"short_description": announcement.ShortDescription,
			"content":           announcement.Content,
			"posted_by":         announcement.PostedBy,
			"timestamp":         formatTimestamp(ts),
			"timestamp_iso":     ts.Format(time.RFC3339),
			"trainee_name":      trainee.DisplayName(),
			"intro":             fmt.Sprintf("A new announcement has been posted by %s.", announcement.PostedBy),
			"summary":           firstNonEmpty(announcement.ShortDescription, announcement.Content),
			"changes":           []string{},
			"trainer_name":      announcement.PostedBy,
			"unsubscribe_url":   s.preferencesURL(pref),
		}

		notification, err := s.createNotification(trainee, models.NotificationAnnouncement, tmpl, context)
		if err != nil {
			return nil, err
		}
		if notification != nil {
			notifications = append(notifications, notification)
		}
	}

	s.sendBatch(notifications)
	return notifications, nil
}

// TaskUpdate carries one trainee's daily-task change event.
type TaskUpdate struct {
	Trainee            *models.Trainee
	Trainer            *models.Trainer
	Summary            string
	Changes            []string
	AssignedToday      int
	CompletedSinceLast int
	TotalAssigned      int
	TotalCompleted     int
	RemainingTask      int
	Remarks            string
	EventTimestamp     time.Time
}

// QueueTaskUpdate notifies a single trainee about a task-plan change.
// Returns nil without error when the trainee is gated out or has no email.
func (s *Service) QueueTaskUpdate(update TaskUpdate) (*models.EmailNotification, error) {
	pref, err := s.store.GetOrCreatePreference(update.Trainee.ID)
	if err != nil {
		return nil, err
	}
	if !pref.Allows(models.NotificationTask) {
		return nil, nil
	}

	trainerName := ""
	if update.Trainer != nil {
		trainerName = update.Trainer.DisplayName()
	}

	tmpl, err := s.template(slugTask)
	if err != nil {
		return nil, err
	}
	ts := normalizeTimestamp(update.EventTimestamp)

	context := map[string]any{
		"title":                fmt.Sprintf("Task update from %s", firstNonEmpty(trainerName, "your trainer")),
		"summary":              firstNonEmpty(update.Summary, "Your trainer updated your daily task plan."),
		"intro":                fmt.Sprintf("%s updated your daily task schedule.", firstNonEmpty(trainerName, "Your trainer")),
		"changes":              append([]string{}, update.Changes...),
		"assigned_today":       update.AssignedToday,
		"completed_since_last": update.CompletedSinceLast,
		"total_assigned":       update.TotalAssigned,
		"total_completed":      update.TotalCompleted,
		"remaining_task":       update.RemainingTask,
		"remarks":              update.Remarks,
		"timestamp":            formatTimestamp(ts),
		"timestamp_iso":        ts.Format(time.RFC3339),
		"trainee_name":         update.Trainee.DisplayName(),
		"trainer_name":         trainerName,
		"unsubscribe_url":      s.preferencesURL(pref),
	}

	notification, err := s.createNotification(update.Trainee, models.NotificationTask, tmpl, context)
	if err != nil || notification == nil {
		return nil, err
	}

	s.sendBatch([]*models.EmailNotification{notification})
	return notification, nil
}

// AttendanceUpdate carries one trainee's attendance change event.
type AttendanceUpdate struct {
	Trainee         *models.Trainee
	Trainer         *models.Trainer
	Date            time.Time
	Status          string
	PreviousStatus  string
	Remarks         string
	PreviousRemarks string
	EventTimestamp  time.Time
}

// AttendanceChanges lists the human-readable differences between the previous
// and new attendance state. Status and remarks diffs are independent entries.
func AttendanceChanges(update AttendanceUpdate) []string {
	changes := []string{}
	if update.PreviousStatus != "" && update.PreviousStatus != update.Status {
		prev := models.AttendanceStatus(update.PreviousStatus).Display()
		curr := models.AttendanceStatus(update.Status).Display()
		changes = append(changes, fmt.Sprintf("Attendance status changed from %s to %s", prev, curr))
	}
	if update.PreviousRemarks != update.Remarks {
		if update.Remarks != "" {
			changes = append(changes, fmt.Sprintf("Trainer remarks updated: %s", update.Remarks))
		} else {
			changes = append(changes, "Trainer cleared previous attendance remarks")
		}
	}
	return changes
}

// QueueAttendanceUpdate notifies a single trainee that a trainer touched their
// attendance record. Returns nil without error when gated out or no email.
func (s *Service) QueueAttendanceUpdate(update AttendanceUpdate) (*models.EmailNotification, error) {
	pref, err := s.store.GetOrCreatePreference(update.Trainee.ID)
	if err != nil {
		return nil, err
	}
	if !pref.Allows(models.NotificationAttendance) {
		return nil, nil
	}

	trainerName := ""
	if update.Trainer != nil {
		trainerName = update.Trainer.DisplayName()
	}

	tmpl, err := s.template(slugAttendance)
	if err != nil {
		return nil, err
	}
	ts := normalizeTimestamp(update.EventTimestamp)
	statusDisplay := models.AttendanceStatus(update.Status).Display()
	dateDisplay := update.Date.Format("02 Jan 2006")

	context := map[string]any{
		"title":             fmt.Sprintf("Attendance update for %s", dateDisplay),
		"summary":           fmt.Sprintf("Attendance marked as %s on %s.", statusDisplay, dateDisplay),
		"intro":             fmt.Sprintf("%s updated your attendance record.", firstNonEmpty(trainerName, "Your trainer")),
		"changes":           AttendanceChanges(update),
		"attendance_status": statusDisplay,
		"attendance_date":   dateDisplay,
		"remarks":           update.Remarks,
		"timestamp":         formatTimestamp(ts),
		"timestamp_iso":     ts.Format(time.RFC3339),
		"trainee_name":      update.Trainee.DisplayName(),
		"trainer_name":      trainerName,
		"unsubscribe_url":   s.preferencesURL(pref),
	}

	notification, err := s.createNotification(update.Trainee, models.NotificationAttendance, tmpl, context)
	if err != nil || notification == nil {
		return nil, err
	}

	s.sendBatch([]*models.EmailNotification{notification})
	return notification, nil
}

// QueueSessionMaterial fans a session-recording upload out to every recipient
// passing the session-material gate.
func (s *Service) QueueSessionMaterial(session *models.SessionRecording, recipients []*models.Trainee) ([]*models.EmailNotification, error) {
	trainerName := ""
	if session.Trainer != nil {
		trainerName = session.Trainer.DisplayName()
	}

	tmpl, err := s.template(slugSession)
	if err != nil {
		return nil, err
	}
	ts := normalizeTimestamp(session.UploadDate)

	var notifications []*models.EmailNotification
	for _, trainee := range recipients {
		pref, err := s.store.GetOrCreatePreference(trainee.ID)
		if err != nil {
			return nil, err
		}
		if !pref.Allows(models.NotificationSession) {
			continue
		}

		context := map[string]any{
			"title":               session.Title,
			"summary":             firstNonEmpty(session.Description, fmt.Sprintf("A new session recording has been uploaded for batch %s.", session.Batch)),
			"intro":               fmt.Sprintf("%s uploaded a new session recording for batch %s.", firstNonEmpty(trainerName, "Your trainer"), session.Batch),
			"changes":             []string{},
			"session_description": session.Description,
			"session_batch":       session.Batch,
			"session_url":         session.SessionURL,
			"timestamp":           formatTimestamp(ts),
			"timestamp_iso":       ts.Format(time.RFC3339),
			"trainee_name":        trainee.DisplayName(),
			"trainer_name":        trainerName,
			"unsubscribe_url":     s.preferencesURL(pref),
		}

		notification, err := s.createNotification(trainee, models.NotificationSession, tmpl, context)
		if err != nil {
			return nil, err
		}
		if notification != nil {
			notifications = append(notifications, notification)
		}
	}

	s.sendBatch(notifications)
	return notifications, nil
}

// RetryPending re-attempts queued records whose last attempt is old enough.
// Invoked by the background scheduler.
func (s *Service) RetryPending() error {
	cutoff := time.Now().Add(-RetryDelay)
	pending, err := s.store.GetRetryable(cutoff, retrySweepLimit)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	log.Printf("Retrying %d queued email notification(s)", len(pending))
	s.sendBatch(pending)
	return nil
}

// createNotification persists a queued record for the trainee, or returns nil
// when the trainee has no resolvable email address (silently skipped).
func (s *Service) createNotification(trainee *models.Trainee, notificationType models.NotificationType, tmpl *models.EmailTemplate, context map[string]any) (*models.EmailNotification, error) {
	email := trainee.Email()
	if email == "" {
		log.Printf("Skipping %s notification; trainee %s has no email", notificationType, trainee.ID)
		return nil, nil
	}

	subject, err := s.renderSubject(tmpl, context)
	if err != nil {
		return nil, err
	}
	body, err := s.renderBody(tmpl, context)
	if err != nil {
		return nil, err
	}

	notification := &models.EmailNotification{
		TraineeID:        trainee.ID,
		NotificationType: notificationType,
		RecipientEmail:   email,
		Subject:          subject,
		Body:             body,
		Context:          context,
		Status:           models.StatusQueued,
		MaxAttempts:      3,
	}
	if tmpl != nil {
		notification.TemplateID = &tmpl.ID
	}
	if err := s.store.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// sendBatch attempts one transport call for the pending records.
//
// Per-message construction failures mark that record failed and leave the rest
// of the batch intact. A transport failure advances every record's attempt
// counter uniformly; records reaching max attempts become failed, the rest stay
// queued for the retry sweep. Nothing here propagates to the caller.
func (s *Service) sendBatch(notifications []*models.EmailNotification) {
	var pending []*models.EmailNotification
	var messages []*Message
	for _, n := range notifications {
		msg, err := s.buildMessage(n)
		if err != nil {
			log.Printf("Failed to build email for notification %s: %v", n.ID, err)
			n.Status = models.StatusFailed
			n.LastError = err.Error()
			s.saveDelivery(n)
			continue
		}
		pending = append(pending, n)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return
	}

	now := time.Now()
	if err := s.sender.SendBatch(messages); err != nil {
		log.Printf("Bulk email send failed: %v", err)
		for _, n := range pending {
			n.AttemptCount++
			n.LastAttemptAt = &now
			if n.AttemptCount >= n.MaxAttempts {
				n.Status = models.StatusFailed
				n.LastError = err.Error()
			}
			s.saveDelivery(n)
		}
		return
	}

	for _, n := range pending {
		n.Status = models.StatusSent
		n.AttemptCount++
		n.LastAttemptAt = &now
		s.saveDelivery(n)
	}
}

func (s *Service) buildMessage(n *models.EmailNotification) (*Message, error) {
	if _, err := mail.ParseAddress(n.RecipientEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", n.RecipientEmail, err)
	}
	return &Message{
		From:    s.cfg.FromEmail,
		To:      n.RecipientEmail,
		Subject: n.Subject,
		Body:    n.Body,
	}, nil
}

func (s *Service) saveDelivery(n *models.EmailNotification) {
	if err := s.store.UpdateDelivery(n); err != nil {
		log.Printf("Failed to persist delivery state for notification %s: %v", n.ID, err)
	}
}

// template returns nil (not an error) for a missing row; the renderers fall
// back to default text in that case.
func (s *Service) template(slug string) (*models.EmailTemplate, error) {
	tmpl, err := s.store.GetTemplateBySlug(slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("Email template %q is missing", slug)
			return nil, nil
		}
		return nil, err
	}
	return tmpl, nil
}

func (s *Service) renderSubject(tmpl *models.EmailTemplate, context map[string]any) (string, error) {
	if tmpl != nil && tmpl.SubjectTemplate != "" {
		rendered, err := renderText("subject:"+tmpl.Slug, tmpl.SubjectTemplate, context)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(rendered), nil
	}
	if title, ok := context["title"].(string); ok && title != "" {
		return title, nil
	}
	return defaultSubject, nil
}

func (s *Service) renderBody(tmpl *models.EmailTemplate, context map[string]any) (string, error) {
	if tmpl != nil && tmpl.BodyTemplate != "" {
		return renderText("body:"+tmpl.Slug, tmpl.BodyTemplate, context)
	}
	return renderText("body:default", defaultBodyTemplate, context)
}

func renderText(name, text string, context map[string]any) (string, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, context); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}

func (s *Service) preferencesURL(pref *models.NotificationPreference) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	return base + "/notifications/preferences/" + pref.UnsubscribeToken
}

func normalizeTimestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t.Local()
}

func formatTimestamp(t time.Time) string {
	return t.Format("02 Jan 2006 03:04 PM MST")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
