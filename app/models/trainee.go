package models

import "time"

type Trainee struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID            string    `json:"user_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	CourseID          *string   `json:"course_id,omitempty" gorm:"index;type:uuid"`
	TrainerID         *string   `json:"trainer_id,omitempty" gorm:"index;type:uuid"`
	Phone             string    `json:"phone" gorm:"type:varchar(20)"`
	Batch             string    `json:"batch"`
	Progress          int       `json:"progress" gorm:"default:0"`
	Status            string    `json:"status" gorm:"default:'Active'"`
	TraineeCode       string    `json:"trainee_code"`
	CertificateStatus string    `json:"certificate_status" gorm:"default:'Issued'"`
	DailyTask         int       `json:"daily_task" gorm:"default:1"`
	TotalTask         int       `json:"total_task" gorm:"default:0"`
	CompletedTask     int       `json:"completed_task" gorm:"default:0"`
	PendingCompleted  int       `json:"pending_completed" gorm:"default:0"`
	Remarks           string    `json:"remarks"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	User              *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Course            *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID;references:ID"`
	Trainer           *Trainer  `json:"trainer,omitempty" gorm:"foreignKey:TrainerID;references:ID"`
}

func (t *Trainee) DisplayName() string {
	if t.User == nil {
		return ""
	}
	return t.User.FullName()
}

// Email returns the linked user's address, empty when unresolvable.
func (t *Trainee) Email() string {
	if t.User == nil {
		return ""
	}
	return t.User.Email
}

// RemainingTask derives the outstanding task count from the counters.
func (t *Trainee) RemainingTask() int {
	remaining := t.TotalTask - t.CompletedTask
	if remaining < 0 {
		return 0
	}
	return remaining
}
