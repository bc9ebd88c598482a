package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// CreateTrainer creates the linked user account and the trainer profile in one transaction.
// The user's Password field must already be hashed.
func CreateTrainer(db *sql.DB, user *models.User, trainer *models.Trainer) error {
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
	if _, err := tx.Exec(query, user.ID, models.RoleTrainer); err != nil {
		return err
	}

	trainer.UserID = user.ID
	query = `INSERT INTO trainers (user_id, phone, expertise, bio, trainer_code, batches, status, admin_locked, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			 RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(query, trainer.UserID, trainer.Phone, trainer.Expertise, trainer.Bio,
		trainer.TrainerCode, trainer.Batches, trainer.Status, trainer.AdminLocked).
		Scan(&trainer.ID, &trainer.CreatedAt, &trainer.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func scanTrainerRows(rows *sql.Rows) ([]*models.Trainer, error) {
	var trainers []*models.Trainer
	for rows.Next() {
		var t models.Trainer
		var u models.User
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Phone, &t.Expertise, &t.Bio, &t.TrainerCode,
			&t.Batches, &t.Status, &t.AdminLocked, &t.CreatedAt, &t.UpdatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
		); err != nil {
			return nil, err
		}
		t.User = &u
		trainers = append(trainers, &t)
	}
	return trainers, rows.Err()
}

const trainerSelect = `
	SELECT t.id, t.user_id, t.phone, t.expertise, t.bio, t.trainer_code,
		   t.batches, t.status, t.admin_locked, t.created_at, t.updated_at,
		   u.id, u.email, u.first_name, u.last_name, u.phone
	FROM trainers t
	JOIN users u ON t.user_id = u.id
`

func GetAllTrainers(db *sql.DB) ([]*models.Trainer, error) {
	rows, err := db.Query(trainerSelect + ` WHERE u.is_active = true ORDER BY u.first_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrainerRows(rows)
}

func GetTrainerByID(db *sql.DB, trainerID string) (*models.Trainer, error) {
	rows, err := db.Query(trainerSelect+` WHERE t.id = $1`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers, err := scanTrainerRows(rows)
	if err != nil {
		return nil, err
	}
	if len(trainers) == 0 {
		return nil, sql.ErrNoRows
	}
	return trainers[0], nil
}

// GetTrainerByUserID resolves the trainer profile for a logged-in user.
func GetTrainerByUserID(db *sql.DB, userID string) (*models.Trainer, error) {
	rows, err := db.Query(trainerSelect+` WHERE t.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers, err := scanTrainerRows(rows)
	if err != nil {
		return nil, err
	}
	if len(trainers) == 0 {
		return nil, sql.ErrNoRows
	}
	return trainers[0], nil
}

func UpdateTrainer(db *sql.DB, trainer *models.Trainer) error {
	query := `
		UPDATE trainers
		SET phone = $1, expertise = $2, bio = $3, trainer_code = $4, batches = $5,
			status = $6, admin_locked = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := db.Exec(query, trainer.Phone, trainer.Expertise, trainer.Bio, trainer.TrainerCode,
		trainer.Batches, trainer.Status, trainer.AdminLocked, trainer.ID)
	return err
}

// DeleteTrainer soft-deletes by deactivating the linked user account.
func DeleteTrainer(db *sql.DB, trainerID string) error {
	query := `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = (SELECT user_id FROM trainers WHERE id = $1)
	`
	_, err := db.Exec(query, trainerID)
	return err
}
