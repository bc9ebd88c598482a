package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

func CreateAnnouncement(db *sql.DB, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, short_description, content, date_posted, posted_by, academy, target_audience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return db.QueryRow(query, a.Title, a.ShortDescription, a.Content, a.DatePosted,
		a.PostedBy, a.Academy, a.TargetAudience).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func scanAnnouncementRows(rows *sql.Rows) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(
			&a.ID, &a.Title, &a.ShortDescription, &a.Content, &a.DatePosted,
			&a.PostedBy, &a.Academy, &a.TargetAudience, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		announcements = append(announcements, &a)
	}
	return announcements, rows.Err()
}

const announcementSelect = `
	SELECT id, title, short_description, content, date_posted, posted_by, academy, target_audience, created_at, updated_at
	FROM announcements
`

func GetAllAnnouncements(db *sql.DB) ([]*models.Announcement, error) {
	rows, err := db.Query(announcementSelect + ` ORDER BY date_posted DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncementRows(rows)
}

// GetAnnouncementsForAudience returns announcements a role may see (its own plus 'all').
func GetAnnouncementsForAudience(db *sql.DB, audience models.AnnouncementAudience) ([]*models.Announcement, error) {
	rows, err := db.Query(announcementSelect+` WHERE target_audience IN ('all', $1) ORDER BY date_posted DESC, created_at DESC`, audience)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncementRows(rows)
}

func GetAnnouncementByID(db *sql.DB, id string) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := db.QueryRow(announcementSelect+` WHERE id = $1`, id).Scan(
		&a.ID, &a.Title, &a.ShortDescription, &a.Content, &a.DatePosted,
		&a.PostedBy, &a.Academy, &a.TargetAudience, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func UpdateAnnouncement(db *sql.DB, a *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1, short_description = $2, content = $3, date_posted = $4,
			posted_by = $5, target_audience = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := db.Exec(query, a.Title, a.ShortDescription, a.Content, a.DatePosted,
		a.PostedBy, a.TargetAudience, a.ID)
	return err
}

func DeleteAnnouncement(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM announcements WHERE id = $1`, id)
	return err
}
