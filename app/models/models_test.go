package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceStatusDisplay(t *testing.T) {
	assert.Equal(t, "Present", Present.Display())
	assert.Equal(t, "Absent", Absent.Display())
	assert.Equal(t, "Informed", Informed.Display())
	assert.Equal(t, "Not Informed", NotInformed.Display())
}

func TestValidAttendanceStatus(t *testing.T) {
	assert.True(t, ValidAttendanceStatus("present"))
	assert.True(t, ValidAttendanceStatus("not_informed"))
	assert.False(t, ValidAttendanceStatus("late"))
	assert.False(t, ValidAttendanceStatus(""))
}

func TestPreferenceAllows(t *testing.T) {
	pref := &NotificationPreference{
		AllowAnnouncements:     true,
		AllowAttendanceUpdates: false,
		AllowTaskUpdates:       true,
		AllowSessionMaterial:   true,
	}

	assert.True(t, pref.Allows(NotificationAnnouncement))
	assert.False(t, pref.Allows(NotificationAttendance))
	assert.True(t, pref.Allows(NotificationTask))

	// Global unsubscribe overrides every category flag.
	pref.Unsubscribed = true
	assert.False(t, pref.Allows(NotificationAnnouncement))
	assert.False(t, pref.Allows(NotificationTask))
}

func TestNotificationCanRetry(t *testing.T) {
	n := &EmailNotification{Status: StatusQueued, AttemptCount: 2, MaxAttempts: 3}
	assert.True(t, n.CanRetry())

	n.AttemptCount = 3
	assert.False(t, n.CanRetry())

	n.AttemptCount = 1
	n.Status = StatusSent
	assert.False(t, n.CanRetry())

	n.Status = StatusFailed
	assert.False(t, n.CanRetry())
}

func TestCertificateNumberFor(t *testing.T) {
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := CertificateNumberFor("VT102", "GO01", issued, "a1b2c3d4")
	assert.Equal(t, "CERT-VT102-GO01-20250601-a1b2c3d4", got)
}

func TestAnnouncementVisibleTo(t *testing.T) {
	a := &Announcement{TargetAudience: AudienceAll}
	assert.True(t, a.VisibleTo(RoleTrainer))
	assert.True(t, a.VisibleTo(RoleTrainee))

	a.TargetAudience = AudienceTrainers
	assert.True(t, a.VisibleTo(RoleTrainer))
	assert.False(t, a.VisibleTo(RoleTrainee))

	a.TargetAudience = AudienceTrainees
	assert.False(t, a.VisibleTo(RoleTrainer))
	assert.True(t, a.VisibleTo(RoleTrainee))
}

func TestTraineeHelpers(t *testing.T) {
	trainee := &Trainee{TotalTask: 10, CompletedTask: 4}
	assert.Equal(t, 6, trainee.RemainingTask())

	trainee.CompletedTask = 12
	assert.Equal(t, 0, trainee.RemainingTask())

	assert.Equal(t, "", trainee.Email())
	assert.Equal(t, "", trainee.DisplayName())

	trainee.User = &User{Email: "a@b.com", FirstName: "Asha", LastName: "K"}
	assert.Equal(t, "a@b.com", trainee.Email())
	assert.Equal(t, "Asha K", trainee.DisplayName())
}

func TestTrainerDisplayName(t *testing.T) {
	trainer := &Trainer{}
	assert.Equal(t, "", trainer.DisplayName())

	trainer.User = &User{FirstName: "Ravi", LastName: "S"}
	assert.Equal(t, "Ravi S", trainer.DisplayName())
}

func TestUserFullName(t *testing.T) {
	u := &User{FirstName: "Asha"}
	assert.Equal(t, "Asha", u.FullName())

	u.LastName = "Kumar"
	assert.Equal(t, "Asha Kumar", u.FullName())
}
