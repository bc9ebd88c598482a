package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// GetOrCreateNotificationPreference returns the trainee's preference row,
// creating the all-allowed default on first use.
func GetOrCreateNotificationPreference(db *sql.DB, traineeID string) (*models.NotificationPreference, error) {
	insert := `INSERT INTO notification_preferences (trainee_id) VALUES ($1) ON CONFLICT (trainee_id) DO NOTHING`
	if _, err := db.Exec(insert, traineeID); err != nil {
		return nil, err
	}

	pref := &models.NotificationPreference{}
	query := `
		SELECT id, trainee_id, allow_announcements, allow_attendance_updates, allow_task_updates,
			   allow_session_material, unsubscribed, unsubscribe_token, updated_at
		FROM notification_preferences WHERE trainee_id = $1
	`
	err := db.QueryRow(query, traineeID).Scan(
		&pref.ID, &pref.TraineeID, &pref.AllowAnnouncements, &pref.AllowAttendanceUpdates,
		&pref.AllowTaskUpdates, &pref.AllowSessionMaterial, &pref.Unsubscribed,
		&pref.UnsubscribeToken, &pref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// GetPreferenceByToken resolves the self-service preferences page token.
func GetPreferenceByToken(db *sql.DB, token string) (*models.NotificationPreference, error) {
	pref := &models.NotificationPreference{}
	query := `
		SELECT id, trainee_id, allow_announcements, allow_attendance_updates, allow_task_updates,
			   allow_session_material, unsubscribed, unsubscribe_token, updated_at
		FROM notification_preferences WHERE unsubscribe_token = $1
	`
	err := db.QueryRow(query, token).Scan(
		&pref.ID, &pref.TraineeID, &pref.AllowAnnouncements, &pref.AllowAttendanceUpdates,
		&pref.AllowTaskUpdates, &pref.AllowSessionMaterial, &pref.Unsubscribed,
		&pref.UnsubscribeToken, &pref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func UpdateNotificationPreference(db *sql.DB, pref *models.NotificationPreference) error {
	query := `
		UPDATE notification_preferences
		SET allow_announcements = $1, allow_attendance_updates = $2, allow_task_updates = $3,
			allow_session_material = $4, unsubscribed = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := db.Exec(query, pref.AllowAnnouncements, pref.AllowAttendanceUpdates,
		pref.AllowTaskUpdates, pref.AllowSessionMaterial, pref.Unsubscribed, pref.ID)
	return err
}

// GetEmailTemplateBySlug returns sql.ErrNoRows when the template is missing;
// callers fall back to default text in that case.
func GetEmailTemplateBySlug(db *sql.DB, slug string) (*models.EmailTemplate, error) {
	t := &models.EmailTemplate{}
	query := `
		SELECT id, slug, name, subject_template, body_template, created_at, updated_at
		FROM email_templates WHERE slug = $1
	`
	err := db.QueryRow(query, slug).Scan(
		&t.ID, &t.Slug, &t.Name, &t.SubjectTemplate, &t.BodyTemplate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func CreateEmailNotification(db *sql.DB, n *models.EmailNotification) error {
	contextJSON, err := json.Marshal(n.Context)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO email_notifications (trainee_id, notification_type, recipient_email, subject, body,
			context, status, attempt_count, max_attempts, template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if n.Status == "" {
		n.Status = models.StatusQueued
	}
	if n.MaxAttempts == 0 {
		n.MaxAttempts = 3
	}
	return db.QueryRow(query, n.TraineeID, n.NotificationType, n.RecipientEmail, n.Subject, n.Body,
		contextJSON, n.Status, n.AttemptCount, n.MaxAttempts, n.TemplateID).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

// UpdateNotificationDelivery persists the delivery bookkeeping fields after a
// send attempt: status, attempt count, last attempt time and error text.
func UpdateNotificationDelivery(db *sql.DB, n *models.EmailNotification) error {
	query := `
		UPDATE email_notifications
		SET status = $1, attempt_count = $2, last_attempt_at = $3, last_error = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := db.Exec(query, n.Status, n.AttemptCount, n.LastAttemptAt, n.LastError, n.ID)
	return err
}

func scanNotificationRows(rows *sql.Rows) ([]*models.EmailNotification, error) {
	var notifications []*models.EmailNotification
	for rows.Next() {
		var n models.EmailNotification
		var contextJSON []byte
		if err := rows.Scan(
			&n.ID, &n.TraineeID, &n.NotificationType, &n.RecipientEmail, &n.Subject, &n.Body,
			&contextJSON, &n.Status, &n.AttemptCount, &n.MaxAttempts, &n.LastAttemptAt,
			&n.LastError, &n.TemplateID, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &n.Context); err != nil {
				return nil, err
			}
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

const notificationSelect = `
	SELECT id, trainee_id, notification_type, recipient_email, subject, body,
		   context, status, attempt_count, max_attempts, last_attempt_at,
		   last_error, template_id, created_at, updated_at
	FROM email_notifications
`

// GetRetryableNotifications returns queued records with attempts remaining whose
// last attempt is older than the cutoff (or that were never attempted).
func GetRetryableNotifications(db *sql.DB, cutoff time.Time, limit int) ([]*models.EmailNotification, error) {
	rows, err := db.Query(notificationSelect+`
		WHERE status = 'queued' AND attempt_count < max_attempts
		  AND (last_attempt_at IS NULL OR last_attempt_at <= $1)
		ORDER BY created_at ASC
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotificationRows(rows)
}

func GetNotificationsByTrainee(db *sql.DB, traineeID string, limit int) ([]*models.EmailNotification, error) {
	rows, err := db.Query(notificationSelect+` WHERE trainee_id = $1 ORDER BY created_at DESC LIMIT $2`, traineeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotificationRows(rows)
}

func GetRecentNotifications(db *sql.DB, limit int) ([]*models.EmailNotification, error) {
	rows, err := db.Query(notificationSelect+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotificationRows(rows)
}
