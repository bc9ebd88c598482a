package models

import (
	"strings"
	"time"
)

type AttendanceStatus string

const (
	Present     AttendanceStatus = "present"
	Absent      AttendanceStatus = "absent"
	Informed    AttendanceStatus = "informed"
	NotInformed AttendanceStatus = "not_informed"
)

// ValidAttendanceStatus reports whether s is one of the accepted statuses.
func ValidAttendanceStatus(s string) bool {
	switch AttendanceStatus(s) {
	case Present, Absent, Informed, NotInformed:
		return true
	default:
		return false
	}
}

// Display renders a status for humans: "not_informed" -> "Not Informed".
func (s AttendanceStatus) Display() string {
	words := strings.Split(strings.ReplaceAll(string(s), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// TraineeAttendance is one trainee's attendance for one day, unique per (trainee, date)
type TraineeAttendance struct {
	ID        string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TraineeID string           `json:"trainee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date      time.Time        `json:"date" gorm:"not null;index;type:date" validate:"required"`
	Status    AttendanceStatus `json:"status" gorm:"not null;type:varchar(15)" validate:"required,oneof=present absent informed not_informed"`
	Remarks   string           `json:"remarks"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	Trainee   *Trainee         `json:"trainee,omitempty" gorm:"foreignKey:TraineeID;references:ID"`
}
