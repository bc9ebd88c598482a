package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

const traineeSelect = `
	SELECT t.id, t.user_id, t.course_id, t.trainer_id, t.phone, t.batch, t.progress,
		   t.status, t.trainee_code, t.certificate_status, t.daily_task, t.total_task,
		   t.completed_task, t.pending_completed, t.remarks, t.created_at, t.updated_at,
		   u.id, u.email, u.first_name, u.last_name, u.phone,
		   c.name
	FROM trainees t
	JOIN users u ON t.user_id = u.id
	LEFT JOIN courses c ON t.course_id = c.id
`

func scanTraineeRows(rows *sql.Rows) ([]*models.Trainee, error) {
	var trainees []*models.Trainee
	for rows.Next() {
		var t models.Trainee
		var u models.User
		var courseName sql.NullString
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CourseID, &t.TrainerID, &t.Phone, &t.Batch, &t.Progress,
			&t.Status, &t.TraineeCode, &t.CertificateStatus, &t.DailyTask, &t.TotalTask,
			&t.CompletedTask, &t.PendingCompleted, &t.Remarks, &t.CreatedAt, &t.UpdatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
			&courseName,
		); err != nil {
			return nil, err
		}
		t.User = &u
		if t.CourseID != nil && courseName.Valid {
			t.Course = &models.Course{ID: *t.CourseID, Name: courseName.String}
		}
		trainees = append(trainees, &t)
	}
	return trainees, rows.Err()
}

// CreateTrainee creates the linked user account and the trainee profile in one transaction.
// The user's Password field must already be hashed. A default notification preference
// row is created alongside so the unsubscribe token exists from day one.
func CreateTrainee(db *sql.DB, user *models.User, trainee *models.Trainee) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO users (email, password, first_name, last_name, phone, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(query, user.Email, user.Password, user.FirstName, user.LastName, user.Phone).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return err
	}

	query = `INSERT INTO user_roles (user_id, role_id)
			 SELECT $1, id FROM roles WHERE name = $2`
	if _, err := tx.Exec(query, user.ID, models.RoleTrainee); err != nil {
		return err
	}

	trainee.UserID = user.ID
	query = `INSERT INTO trainees (user_id, course_id, trainer_id, phone, batch, progress, status,
				trainee_code, certificate_status, daily_task, total_task, completed_task,
				pending_completed, remarks, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
			 RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(query, trainee.UserID, trainee.CourseID, trainee.TrainerID, trainee.Phone,
		trainee.Batch, trainee.Progress, trainee.Status, trainee.TraineeCode, trainee.CertificateStatus,
		trainee.DailyTask, trainee.TotalTask, trainee.CompletedTask, trainee.PendingCompleted, trainee.Remarks).
		Scan(&trainee.ID, &trainee.CreatedAt, &trainee.UpdatedAt); err != nil {
		return err
	}

	query = `INSERT INTO notification_preferences (trainee_id) VALUES ($1) ON CONFLICT (trainee_id) DO NOTHING`
	if _, err := tx.Exec(query, trainee.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func GetAllTrainees(db *sql.DB) ([]*models.Trainee, error) {
	rows, err := db.Query(traineeSelect + ` WHERE u.is_active = true ORDER BY u.first_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraineeRows(rows)
}

func GetTraineeByID(db *sql.DB, traineeID string) (*models.Trainee, error) {
	rows, err := db.Query(traineeSelect+` WHERE t.id = $1`, traineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainees, err := scanTraineeRows(rows)
	if err != nil {
		return nil, err
	}
	if len(trainees) == 0 {
		return nil, sql.ErrNoRows
	}
	return trainees[0], nil
}

// GetTraineeByUserID resolves the trainee profile for a logged-in user.
func GetTraineeByUserID(db *sql.DB, userID string) (*models.Trainee, error) {
	rows, err := db.Query(traineeSelect+` WHERE t.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainees, err := scanTraineeRows(rows)
	if err != nil {
		return nil, err
	}
	if len(trainees) == 0 {
		return nil, sql.ErrNoRows
	}
	return trainees[0], nil
}

func GetTraineesByTrainer(db *sql.DB, trainerID string) ([]*models.Trainee, error) {
	rows, err := db.Query(traineeSelect+` WHERE t.trainer_id = $1 AND u.is_active = true ORDER BY t.batch, u.first_name`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraineeRows(rows)
}

// GetTraineesByBatch returns the active trainees of one batch across a trainer's roster.
func GetTraineesByBatch(db *sql.DB, trainerID, batch string) ([]*models.Trainee, error) {
	rows, err := db.Query(traineeSelect+` WHERE t.trainer_id = $1 AND t.batch = $2 AND u.is_active = true ORDER BY u.first_name`, trainerID, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraineeRows(rows)
}

func UpdateTrainee(db *sql.DB, trainee *models.Trainee) error {
	query := `
		UPDATE trainees
		SET course_id = $1, trainer_id = $2, phone = $3, batch = $4, progress = $5, status = $6,
			trainee_code = $7, certificate_status = $8, daily_task = $9, total_task = $10,
			completed_task = $11, pending_completed = $12, remarks = $13, updated_at = NOW()
		WHERE id = $14
	`
	_, err := db.Exec(query, trainee.CourseID, trainee.TrainerID, trainee.Phone, trainee.Batch,
		trainee.Progress, trainee.Status, trainee.TraineeCode, trainee.CertificateStatus,
		trainee.DailyTask, trainee.TotalTask, trainee.CompletedTask, trainee.PendingCompleted,
		trainee.Remarks, trainee.ID)
	return err
}

// UpdateTraineeTaskCounters persists only the task-tracking fields.
func UpdateTraineeTaskCounters(db *sql.DB, trainee *models.Trainee) error {
	query := `
		UPDATE trainees
		SET daily_task = $1, total_task = $2, completed_task = $3, pending_completed = $4,
			remarks = $5, progress = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := db.Exec(query, trainee.DailyTask, trainee.TotalTask, trainee.CompletedTask,
		trainee.PendingCompleted, trainee.Remarks, trainee.Progress, trainee.ID)
	return err
}

func DeleteTrainee(db *sql.DB, traineeID string) error {
	query := `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = (SELECT user_id FROM trainees WHERE id = $1)
	`
	_, err := db.Exec(query, traineeID)
	return err
}
