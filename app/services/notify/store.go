package notify

import (
	"database/sql"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// Store is the persistence surface the notification service needs.
// The production implementation wraps *sql.DB; tests substitute a fake.
type Store interface {
	GetOrCreatePreference(traineeID string) (*models.NotificationPreference, error)
	GetTemplateBySlug(slug string) (*models.EmailTemplate, error)
	CreateNotification(n *models.EmailNotification) error
	UpdateDelivery(n *models.EmailNotification) error
	GetRetryable(cutoff time.Time, limit int) ([]*models.EmailNotification, error)
}

type dbStore struct {
	db *sql.DB
}

// NewStore wraps the application database as a notification Store.
func NewStore(db *sql.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) GetOrCreatePreference(traineeID string) (*models.NotificationPreference, error) {
	return database.GetOrCreateNotificationPreference(s.db, traineeID)
}

func (s *dbStore) GetTemplateBySlug(slug string) (*models.EmailTemplate, error) {
	return database.GetEmailTemplateBySlug(s.db, slug)
}

func (s *dbStore) CreateNotification(n *models.EmailNotification) error {
	return database.CreateEmailNotification(s.db, n)
}

func (s *dbStore) UpdateDelivery(n *models.EmailNotification) error {
	return database.UpdateNotificationDelivery(s.db, n)
}

func (s *dbStore) GetRetryable(cutoff time.Time, limit int) ([]*models.EmailNotification, error) {
	return database.GetRetryableNotifications(s.db, cutoff, limit)
}
