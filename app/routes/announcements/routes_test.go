package announcements

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

type memoryStore struct {
	created []*models.EmailNotification
}

func (m *memoryStore) GetOrCreatePreference(traineeID string) (*models.NotificationPreference, error) {
	return &models.NotificationPreference{
		TraineeID:              traineeID,
		AllowAnnouncements:     true,
		AllowAttendanceUpdates: true,
		AllowTaskUpdates:       true,
		AllowSessionMaterial:   true,
		UnsubscribeToken:       "token-" + traineeID,
	}, nil
}

func (m *memoryStore) GetTemplateBySlug(slug string) (*models.EmailTemplate, error) {
	return nil, sql.ErrNoRows
}

func (m *memoryStore) CreateNotification(n *models.EmailNotification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *memoryStore) UpdateDelivery(n *models.EmailNotification) error { return nil }

func (m *memoryStore) GetRetryable(cutoff time.Time, limit int) ([]*models.EmailNotification, error) {
	return nil, nil
}

type memorySender struct {
	sent []*notify.Message
}

func (m *memorySender) SendBatch(messages []*notify.Message) error {
	m.sent = append(m.sent, messages...)
	return nil
}

func TestBuildAnnouncementStampsPostingDate(t *testing.T) {
	req := announcementRequest{
		Title:            "Holiday notice",
		ShortDescription: "Closed Friday",
		Content:          "The institute is closed on Friday.",
	}

	a := buildAnnouncement(req, "Admin", models.AudienceTrainees)

	assert.False(t, a.DatePosted.IsZero(), "date_posted must be stamped before insert")
	assert.WithinDuration(t, time.Now(), a.DatePosted, time.Minute)
	assert.Equal(t, "Holiday notice", a.Title)
	assert.Equal(t, "Admin", a.PostedBy)
	assert.Equal(t, "Vetri Academy", a.Academy)
	assert.Equal(t, models.AudienceTrainees, a.TargetAudience)
}

func TestDeliverAnnouncementDispatchesBeforeReturning(t *testing.T) {
	store := &memoryStore{}
	sender := &memorySender{}
	notifier := notify.NewService(store, sender, notify.Config{
		FromEmail: "no-reply@example.com",
		BaseURL:   "https://training.example.com",
	})
	wa := notify.NewWhatsAppSender(config.TwilioConfig{})

	announcement := buildAnnouncement(announcementRequest{
		Title:   "Demo day",
		Content: "Projects are presented on Monday.",
	}, "Admin", models.AudienceAll)

	recipients := []*models.Trainee{
		{ID: "t1", User: &models.User{Email: "one@example.com", FirstName: "One"}},
		{ID: "t2", User: &models.User{Email: "two@example.com", FirstName: "Two"}},
	}

	deliverAnnouncement(notifier, wa, "Admin", false, announcement, recipients)

	// The batch is persisted and handed to the transport inline; nothing is
	// deferred past the call.
	require.Len(t, store.created, 2)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, models.StatusSent, store.created[0].Status)
	assert.Equal(t, models.StatusSent, store.created[1].Status)
}
