package models

import (
	"fmt"
	"time"
)

type Certificate struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TraineeID            string    `json:"trainee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CourseID             string    `json:"course_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IssuedDate           time.Time `json:"issued_date" gorm:"type:date;default:now()"`
	CertificateNumber    string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	CompletionPercentage int       `json:"completion_percentage" gorm:"default:0"`
	Grade                string    `json:"grade" gorm:"type:varchar(2);default:'A'" validate:"oneof=A B C D F"`
	IsVerified           bool      `json:"is_verified" gorm:"default:true"`
	Trainee              *Trainee  `json:"trainee,omitempty" gorm:"foreignKey:TraineeID;references:ID"`
	Course               *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID;references:ID"`
}

// CertificateNumberFor builds the unique certificate number for a trainee/course pair.
// The uuid suffix keeps repeated issuance on the same day from colliding.
func CertificateNumberFor(traineeCode, courseCode string, issued time.Time, suffix string) string {
	return fmt.Sprintf("CERT-%s-%s-%s-%s", traineeCode, courseCode, issued.Format("20060102"), suffix)
}
