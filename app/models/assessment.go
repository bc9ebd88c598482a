package models

import "time"

// DailyAssessment records a trainer's daily score entry for a trainee.
type DailyAssessment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TraineeID   string    `json:"trainee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TrainerID   string    `json:"trainer_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date        time.Time `json:"date" gorm:"not null;type:date"`
	Score       int       `json:"score" gorm:"default:0"`
	MaxScore    int       `json:"max_score" gorm:"default:100"`
	Remarks     string    `json:"remarks"`
	IsCompleted bool      `json:"is_completed" gorm:"default:false"`
	Trainee     *Trainee  `json:"trainee,omitempty" gorm:"foreignKey:TraineeID;references:ID"`
	Trainer     *Trainer  `json:"trainer,omitempty" gorm:"foreignKey:TrainerID;references:ID"`
}
