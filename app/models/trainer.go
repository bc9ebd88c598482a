package models

import "time"

type Trainer struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	Phone        string    `json:"phone" gorm:"type:varchar(20)"`
	Expertise    string    `json:"expertise"`
	Bio          string    `json:"bio"`
	TrainerCode  string    `json:"trainer_code"`
	Batches      int       `json:"batches" gorm:"default:0"`
	Status       string    `json:"status" gorm:"default:'Active'"`
	AdminLocked  bool      `json:"admin_locked" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	User         *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// DisplayName returns the linked user's full name, empty when unresolvable.
func (t *Trainer) DisplayName() string {
	if t.User == nil {
		return ""
	}
	return t.User.FullName()
}
