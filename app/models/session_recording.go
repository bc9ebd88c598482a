package models

import "time"

type UploadStatus string

const (
	UploadSuccess UploadStatus = "success"
	UploadFailed  UploadStatus = "failed"
	UploadPending UploadStatus = "pending"
)

// SessionRecording is a link to a recorded class session (YouTube, Drive, etc.)
type SessionRecording struct {
	ID           string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title        string       `json:"title" gorm:"not null" validate:"required"`
	Description  string       `json:"description"`
	SessionURL   string       `json:"session_url" gorm:"not null" validate:"required,url"`
	Batch        string       `json:"batch" gorm:"not null;index" validate:"required"`
	TrainerID    string       `json:"trainer_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	UploadDate   time.Time    `json:"upload_date" gorm:"autoCreateTime"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`
	IsVisible    bool         `json:"is_visible" gorm:"default:true"`
	UploadStatus UploadStatus `json:"upload_status" gorm:"type:varchar(20);default:'pending'"`
	Trainer      *Trainer     `json:"trainer,omitempty" gorm:"foreignKey:TrainerID;references:ID"`
}
