package notify

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

type fakeStore struct {
	prefs     map[string]*models.NotificationPreference
	templates map[string]*models.EmailTemplate
	created   []*models.EmailNotification
	updated   []*models.EmailNotification
	retryable []*models.EmailNotification
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prefs:     map[string]*models.NotificationPreference{},
		templates: map[string]*models.EmailTemplate{},
	}
}

func (f *fakeStore) GetOrCreatePreference(traineeID string) (*models.NotificationPreference, error) {
	if pref, ok := f.prefs[traineeID]; ok {
		return pref, nil
	}
	pref := &models.NotificationPreference{
		ID:                     "pref-" + traineeID,
		TraineeID:              traineeID,
		AllowAnnouncements:     true,
		AllowAttendanceUpdates: true,
		AllowTaskUpdates:       true,
		AllowSessionMaterial:   true,
		UnsubscribeToken:       "token-" + traineeID,
	}
	f.prefs[traineeID] = pref
	return pref, nil
}

func (f *fakeStore) GetTemplateBySlug(slug string) (*models.EmailTemplate, error) {
	if tmpl, ok := f.templates[slug]; ok {
		return tmpl, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) CreateNotification(n *models.EmailNotification) error {
	f.nextID++
	n.ID = fmt.Sprintf("n-%d", f.nextID)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeStore) UpdateDelivery(n *models.EmailNotification) error {
	f.updated = append(f.updated, n)
	return nil
}

func (f *fakeStore) GetRetryable(cutoff time.Time, limit int) ([]*models.EmailNotification, error) {
	return f.retryable, nil
}

type fakeSender struct {
	batches [][]*Message
	err     error
}

func (f *fakeSender) SendBatch(messages []*Message) error {
	f.batches = append(f.batches, messages)
	return f.err
}

func newTestService(store *fakeStore, sender *fakeSender) *Service {
	return NewService(store, sender, Config{
		FromEmail: "no-reply@example.com",
		BaseURL:   "https://training.example.com",
	})
}

func testTrainee(id, email string) *models.Trainee {
	trainee := &models.Trainee{ID: id, UserID: "user-" + id}
	if email != "" {
		trainee.User = &models.User{
			ID:        "user-" + id,
			Email:     email,
			FirstName: "Trainee",
			LastName:  id,
		}
	}
	return trainee
}

func TestQueueAnnouncementFansOutToAllowedRecipients(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	// t2 has globally unsubscribed, t3 has no email address.
	unsubscribed, err := store.GetOrCreatePreference("t2")
	require.NoError(t, err)
	unsubscribed.Unsubscribed = true

	announcement := &models.Announcement{
		ID:         "a1",
		Title:      "Holiday notice",
		Content:    "The institute is closed on Friday.",
		PostedBy:   "Admin",
		DatePosted: time.Now(),
	}
	recipients := []*models.Trainee{
		testTrainee("t1", "one@example.com"),
		testTrainee("t2", "two@example.com"),
		testTrainee("t3", ""),
	}

	notifications, err := svc.QueueAnnouncement(announcement, recipients)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, "one@example.com", n.RecipientEmail)
	assert.Equal(t, models.NotificationAnnouncement, n.NotificationType)
	assert.Equal(t, models.StatusSent, n.Status)
	assert.Equal(t, 1, n.AttemptCount)
	require.NotNil(t, n.LastAttemptAt)

	// No template seeded, so the subject falls back to the announcement title.
	assert.Equal(t, "Holiday notice", n.Subject)
	assert.Contains(t, n.Body, "Holiday notice")
	assert.Contains(t, n.Body, "https://training.example.com/notifications/preferences/token-t1")

	require.Len(t, sender.batches, 1)
	require.Len(t, sender.batches[0], 1)
	assert.Equal(t, "no-reply@example.com", sender.batches[0][0].From)

	// Gated and email-less trainees leave no record behind.
	assert.Len(t, store.created, 1)
}

func TestQueueAnnouncementRendersStoredTemplate(t *testing.T) {
	store := newFakeStore()
	store.templates[slugAnnouncement] = &models.EmailTemplate{
		ID:              "tmpl-1",
		Slug:            slugAnnouncement,
		SubjectTemplate: "[Vetri] {{.title}}",
		BodyTemplate:    "Hi {{.trainee_name}}, {{.content}}",
	}
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	announcement := &models.Announcement{
		Title:    "Demo day",
		Content:  "Projects are presented on Monday.",
		PostedBy: "Admin",
	}
	notifications, err := svc.QueueAnnouncement(announcement, []*models.Trainee{testTrainee("t1", "one@example.com")})
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	assert.Equal(t, "[Vetri] Demo day", notifications[0].Subject)
	assert.Equal(t, "Hi Trainee t1, Projects are presented on Monday.", notifications[0].Body)
	require.NotNil(t, notifications[0].TemplateID)
	assert.Equal(t, "tmpl-1", *notifications[0].TemplateID)
}

func TestQueueTaskUpdateRespectsPreferenceGate(t *testing.T) {
	store := newFakeStore()
	pref, err := store.GetOrCreatePreference("t1")
	require.NoError(t, err)
	pref.AllowTaskUpdates = false

	sender := &fakeSender{}
	svc := newTestService(store, sender)

	notification, err := svc.QueueTaskUpdate(TaskUpdate{
		Trainee:       testTrainee("t1", "one@example.com"),
		AssignedToday: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.Empty(t, store.created)
	assert.Empty(t, sender.batches)
}

func TestQueueTaskUpdateSkipsTraineeWithoutEmail(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	notification, err := svc.QueueTaskUpdate(TaskUpdate{Trainee: testTrainee("t1", "")})
	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.Empty(t, store.created)
	assert.Empty(t, sender.batches)
}

func TestAttendanceChanges(t *testing.T) {
	tests := []struct {
		name   string
		update AttendanceUpdate
		want   []string
	}{
		{
			name: "status change",
			update: AttendanceUpdate{
				Status:         "present",
				PreviousStatus: "not_informed",
			},
			want: []string{"Attendance status changed from Not Informed to Present"},
		},
		{
			name: "first marking has no status diff",
			update: AttendanceUpdate{
				Status:         "present",
				PreviousStatus: "",
			},
			want: []string{},
		},
		{
			name: "remarks updated",
			update: AttendanceUpdate{
				Status:          "absent",
				PreviousStatus:  "absent",
				Remarks:         "Medical leave",
				PreviousRemarks: "",
			},
			want: []string{"Trainer remarks updated: Medical leave"},
		},
		{
			name: "remarks cleared",
			update: AttendanceUpdate{
				Status:          "present",
				PreviousStatus:  "present",
				Remarks:         "",
				PreviousRemarks: "Late arrival",
			},
			want: []string{"Trainer cleared previous attendance remarks"},
		},
		{
			name: "status and remarks change independently",
			update: AttendanceUpdate{
				Status:          "informed",
				PreviousStatus:  "absent",
				Remarks:         "Called in sick",
				PreviousRemarks: "",
			},
			want: []string{
				"Attendance status changed from Absent to Informed",
				"Trainer remarks updated: Called in sick",
			},
		},
		{
			name: "no change",
			update: AttendanceUpdate{
				Status:          "present",
				PreviousStatus:  "present",
				Remarks:         "Good",
				PreviousRemarks: "Good",
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttendanceChanges(tt.update))
		})
	}
}

func TestQueueAttendanceUpdateBuildsContext(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	notification, err := svc.QueueAttendanceUpdate(AttendanceUpdate{
		Trainee:        testTrainee("t1", "one@example.com"),
		Date:           date,
		Status:         "not_informed",
		PreviousStatus: "present",
	})
	require.NoError(t, err)
	require.NotNil(t, notification)

	assert.Equal(t, models.NotificationAttendance, notification.NotificationType)
	assert.Equal(t, "Not Informed", notification.Context["attendance_status"])
	assert.Equal(t, "14 Mar 2025", notification.Context["attendance_date"])
	assert.Equal(t, models.StatusSent, notification.Status)
}

func TestTransportFailureKeepsRecordsQueued(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{err: errors.New("connection refused")}
	svc := newTestService(store, sender)

	announcement := &models.Announcement{Title: "Outage drill", Content: "x", PostedBy: "Admin"}
	recipients := []*models.Trainee{
		testTrainee("t1", "one@example.com"),
		testTrainee("t2", "two@example.com"),
		testTrainee("t3", "three@example.com"),
	}

	notifications, err := svc.QueueAnnouncement(announcement, recipients)
	require.NoError(t, err, "transport failures must not surface to the caller")
	require.Len(t, notifications, 3)

	for _, n := range notifications {
		assert.Equal(t, models.StatusQueued, n.Status)
		assert.Equal(t, 1, n.AttemptCount)
		assert.NotNil(t, n.LastAttemptAt)
		assert.Empty(t, n.LastError)
		assert.True(t, n.CanRetry())
	}
}

func TestTransportFailureAtMaxAttemptsMarksFailed(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{err: errors.New("mailbox unavailable")}
	svc := newTestService(store, sender)

	store.retryable = []*models.EmailNotification{
		{
			ID:             "n-old",
			RecipientEmail: "one@example.com",
			Subject:        "s",
			Body:           "b",
			Status:         models.StatusQueued,
			AttemptCount:   2,
			MaxAttempts:    3,
		},
	}

	require.NoError(t, svc.RetryPending())

	n := store.retryable[0]
	assert.Equal(t, models.StatusFailed, n.Status)
	assert.Equal(t, 3, n.AttemptCount)
	assert.Equal(t, "mailbox unavailable", n.LastError)
	assert.False(t, n.CanRetry())
}

func TestRetryPendingSendsQueuedRecords(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	store.retryable = []*models.EmailNotification{
		{
			ID:             "n-1",
			RecipientEmail: "one@example.com",
			Subject:        "s",
			Body:           "b",
			Status:         models.StatusQueued,
			AttemptCount:   1,
			MaxAttempts:    3,
		},
	}

	require.NoError(t, svc.RetryPending())
	require.Len(t, sender.batches, 1)
	assert.Equal(t, models.StatusSent, store.retryable[0].Status)
	assert.Equal(t, 2, store.retryable[0].AttemptCount)
}

func TestInvalidRecipientFailsOnlyThatRecord(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	announcement := &models.Announcement{Title: "Mixed batch", Content: "x", PostedBy: "Admin"}
	recipients := []*models.Trainee{
		testTrainee("t1", "valid@example.com"),
		testTrainee("t2", "not an address"),
	}

	notifications, err := svc.QueueAnnouncement(announcement, recipients)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	byEmail := map[string]*models.EmailNotification{}
	for _, n := range notifications {
		byEmail[n.RecipientEmail] = n
	}

	assert.Equal(t, models.StatusSent, byEmail["valid@example.com"].Status)
	assert.Equal(t, models.StatusFailed, byEmail["not an address"].Status)
	assert.Zero(t, byEmail["not an address"].AttemptCount)
	assert.NotEmpty(t, byEmail["not an address"].LastError)

	// The transport call only carried the valid message.
	require.Len(t, sender.batches, 1)
	require.Len(t, sender.batches[0], 1)
	assert.Equal(t, "valid@example.com", sender.batches[0][0].To)
}

func TestRenderSubjectFallbacks(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeSender{})

	subject, err := svc.renderSubject(nil, map[string]any{"title": "From context"})
	require.NoError(t, err)
	assert.Equal(t, "From context", subject)

	subject, err = svc.renderSubject(nil, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, defaultSubject, subject)
}
