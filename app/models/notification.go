package models

import "time"

type NotificationType string

const (
	NotificationAnnouncement NotificationType = "announcement"
	NotificationAttendance   NotificationType = "attendance"
	NotificationTask         NotificationType = "task"
	NotificationSession      NotificationType = "session"
)

type NotificationStatus string

const (
	StatusQueued  NotificationStatus = "queued"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
	StatusBounced NotificationStatus = "bounced"
)

// EmailTemplate is a slug-keyed subject/body pair with placeholder substitution.
// Fixed slugs: announcement_generic, task_update, attendance_update, session_material.
type EmailTemplate struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;not null" validate:"required"`
	Name            string    `json:"name" gorm:"not null"`
	SubjectTemplate string    `json:"subject_template" gorm:"not null"`
	BodyTemplate    string    `json:"body_template" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NotificationPreference is the per-trainee opt-in record, created lazily with
// everything allowed. The token keys the self-service preferences page.
type NotificationPreference struct {
	ID                     string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TraineeID              string    `json:"trainee_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	AllowAnnouncements     bool      `json:"allow_announcements" gorm:"default:true"`
	AllowAttendanceUpdates bool      `json:"allow_attendance_updates" gorm:"default:true"`
	AllowTaskUpdates       bool      `json:"allow_task_updates" gorm:"default:true"`
	AllowSessionMaterial   bool      `json:"allow_session_material" gorm:"default:true"`
	Unsubscribed           bool      `json:"unsubscribed" gorm:"default:false"`
	UnsubscribeToken       string    `json:"unsubscribe_token" gorm:"uniqueIndex;not null;type:uuid"`
	UpdatedAt              time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Allows reports whether notifications of the given type pass this preference.
func (p *NotificationPreference) Allows(t NotificationType) bool {
	if p.Unsubscribed {
		return false
	}
	switch t {
	case NotificationAnnouncement:
		return p.AllowAnnouncements
	case NotificationAttendance:
		return p.AllowAttendanceUpdates
	case NotificationTask:
		return p.AllowTaskUpdates
	case NotificationSession:
		return p.AllowSessionMaterial
	default:
		return false
	}
}

// EmailNotification is one persisted outbound message.
//
// Lifecycle: created queued at fan-out time; becomes sent on a successful
// transport call; on transport failure the attempt counter advances and the
// record either stays queued (attempts remain) or becomes failed. Records
// never leave sent/failed.
type EmailNotification struct {
	ID               string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TraineeID        string             `json:"trainee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	NotificationType NotificationType   `json:"notification_type" gorm:"not null;type:varchar(30)" validate:"required,oneof=announcement attendance task session"`
	RecipientEmail   string             `json:"recipient_email" gorm:"not null" validate:"required,email"`
	Subject          string             `json:"subject" gorm:"not null"`
	Body             string             `json:"body" gorm:"not null"`
	Context          map[string]any     `json:"context" gorm:"type:jsonb"`
	Status           NotificationStatus `json:"status" gorm:"type:varchar(20);default:'queued'"`
	AttemptCount     int                `json:"attempt_count" gorm:"default:0"`
	MaxAttempts      int                `json:"max_attempts" gorm:"default:3"`
	LastAttemptAt    *time.Time         `json:"last_attempt_at,omitempty"`
	LastError        string             `json:"last_error"`
	TemplateID       *string            `json:"template_id,omitempty" gorm:"type:uuid"`
	CreatedAt        time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// CanRetry reports whether another transport attempt is allowed.
func (n *EmailNotification) CanRetry() bool {
	return n.Status == StatusQueued && n.AttemptCount < n.MaxAttempts
}
