package models

import "time"

type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceTrainers AnnouncementAudience = "trainers"
	AudienceTrainees AnnouncementAudience = "trainees"
)

type Announcement struct {
	ID               string               `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title            string               `json:"title" gorm:"not null" validate:"required"`
	ShortDescription string               `json:"short_description"`
	Content          string               `json:"content" gorm:"not null" validate:"required"`
	DatePosted       time.Time            `json:"date_posted" gorm:"type:date;default:now()"`
	PostedBy         string               `json:"posted_by" gorm:"default:'Admin'"`
	Academy          string               `json:"academy" gorm:"default:'Vetri Academy'"`
	TargetAudience   AnnouncementAudience `json:"target_audience" gorm:"type:varchar(20);default:'all'" validate:"oneof=all trainers trainees"`
	CreatedAt        time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

// VisibleTo reports whether the announcement targets the given role.
func (a *Announcement) VisibleTo(role string) bool {
	switch a.TargetAudience {
	case AudienceAll:
		return true
	case AudienceTrainers:
		return role == RoleTrainer
	case AudienceTrainees:
		return role == RoleTrainee
	default:
		return false
	}
}
