package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

const sessionRecordingSelect = `
	SELECT s.id, s.title, s.description, s.session_url, s.batch, s.trainer_id,
		   s.upload_date, s.is_active, s.is_visible, s.upload_status,
		   u.first_name, u.last_name
	FROM session_recordings s
	JOIN trainers t ON s.trainer_id = t.id
	JOIN users u ON t.user_id = u.id
`

func scanSessionRecordingRows(rows *sql.Rows) ([]*models.SessionRecording, error) {
	var sessions []*models.SessionRecording
	for rows.Next() {
		var s models.SessionRecording
		var firstName, lastName string
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.SessionURL, &s.Batch, &s.TrainerID,
			&s.UploadDate, &s.IsActive, &s.IsVisible, &s.UploadStatus,
			&firstName, &lastName,
		); err != nil {
			return nil, err
		}
		s.Trainer = &models.Trainer{ID: s.TrainerID, User: &models.User{FirstName: firstName, LastName: lastName}}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func CreateSessionRecording(db *sql.DB, s *models.SessionRecording) error {
	query := `
		INSERT INTO session_recordings (title, description, session_url, batch, trainer_id, upload_date, is_active, is_visible, upload_status)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, $8)
		RETURNING id, upload_date
	`
	return db.QueryRow(query, s.Title, s.Description, s.SessionURL, s.Batch, s.TrainerID,
		s.IsActive, s.IsVisible, s.UploadStatus).Scan(&s.ID, &s.UploadDate)
}

func GetSessionRecordingsByTrainer(db *sql.DB, trainerID string) ([]*models.SessionRecording, error) {
	rows, err := db.Query(sessionRecordingSelect+` WHERE s.trainer_id = $1 AND s.is_active = true ORDER BY s.upload_date DESC`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionRecordingRows(rows)
}

// GetVisibleSessionRecordingsByBatch is the trainee-facing listing.
func GetVisibleSessionRecordingsByBatch(db *sql.DB, batch string) ([]*models.SessionRecording, error) {
	rows, err := db.Query(sessionRecordingSelect+` WHERE s.batch = $1 AND s.is_active = true AND s.is_visible = true ORDER BY s.upload_date DESC`, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionRecordingRows(rows)
}

func GetSessionRecordingByID(db *sql.DB, id string) (*models.SessionRecording, error) {
	rows, err := db.Query(sessionRecordingSelect+` WHERE s.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := scanSessionRecordingRows(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, sql.ErrNoRows
	}
	return sessions[0], nil
}

func ToggleSessionRecordingVisibility(db *sql.DB, id string) error {
	_, err := db.Exec(`UPDATE session_recordings SET is_visible = NOT is_visible WHERE id = $1`, id)
	return err
}

// DeleteSessionRecording soft-deletes by clearing the active flag.
func DeleteSessionRecording(db *sql.DB, id string) error {
	_, err := db.Exec(`UPDATE session_recordings SET is_active = false WHERE id = $1`, id)
	return err
}
