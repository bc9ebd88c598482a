package models

import "time"

type CourseMode string

const (
	ModeOffline CourseMode = "offline"
	ModeOnline  CourseMode = "online"
)

type CourseCategory string

const (
	CategoryDeveloper CourseCategory = "developer"
	CategoryDesigner  CourseCategory = "designer"
	CategoryTester    CourseCategory = "tester"
)

type Course struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name             string         `json:"name" gorm:"not null" validate:"required"`
	Code             string         `json:"code"`
	Description      string         `json:"description"`
	Duration         string         `json:"duration"`
	LearningOutcomes string         `json:"learning_outcomes"`
	Mode             CourseMode     `json:"mode" gorm:"type:varchar(10);default:'offline'" validate:"oneof=offline online"`
	Category         CourseCategory `json:"category" gorm:"type:varchar(20);default:'developer'" validate:"oneof=developer designer tester"`
	IsActive         bool           `json:"is_active" gorm:"default:true"`
	TrainerID        *string        `json:"trainer_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	Trainer          *Trainer       `json:"trainer,omitempty" gorm:"foreignKey:TrainerID;references:ID"`
}
