package database

import (
	"database/sql"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

func CreateAssessment(db *sql.DB, a *models.DailyAssessment) error {
	query := `
		INSERT INTO daily_assessments (trainee_id, trainer_id, date, score, max_score, remarks, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return db.QueryRow(query, a.TraineeID, a.TrainerID, a.Date, a.Score, a.MaxScore, a.Remarks, a.IsCompleted).
		Scan(&a.ID)
}

func GetAssessmentsByTrainee(db *sql.DB, traineeID string) ([]*models.DailyAssessment, error) {
	query := `
		SELECT id, trainee_id, trainer_id, date, score, max_score, remarks, is_completed
		FROM daily_assessments WHERE trainee_id = $1 ORDER BY date DESC
	`
	rows, err := db.Query(query, traineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*models.DailyAssessment
	for rows.Next() {
		var a models.DailyAssessment
		if err := rows.Scan(&a.ID, &a.TraineeID, &a.TrainerID, &a.Date, &a.Score, &a.MaxScore, &a.Remarks, &a.IsCompleted); err != nil {
			return nil, err
		}
		assessments = append(assessments, &a)
	}
	return assessments, rows.Err()
}

// GetAssessmentByTraineeAndDate returns the day's assessment, sql.ErrNoRows when absent.
func GetAssessmentByTraineeAndDate(db *sql.DB, traineeID string, date time.Time) (*models.DailyAssessment, error) {
	a := &models.DailyAssessment{}
	query := `
		SELECT id, trainee_id, trainer_id, date, score, max_score, remarks, is_completed
		FROM daily_assessments WHERE trainee_id = $1 AND date = $2
		ORDER BY id DESC LIMIT 1
	`
	err := db.QueryRow(query, traineeID, date).Scan(
		&a.ID, &a.TraineeID, &a.TrainerID, &a.Date, &a.Score, &a.MaxScore, &a.Remarks, &a.IsCompleted,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
