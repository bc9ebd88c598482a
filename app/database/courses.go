package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// CreateCourse adds a new course to the database
func CreateCourse(db *sql.DB, course *models.Course) error {
	query := `
		INSERT INTO courses (name, code, description, duration, learning_outcomes, mode, category, is_active, trainer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return db.QueryRow(
		query,
		course.Name,
		course.Code,
		course.Description,
		course.Duration,
		course.LearningOutcomes,
		course.Mode,
		course.Category,
		course.IsActive,
		course.TrainerID,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

// GetAllCourses retrieves all courses ordered by name, with the assigned trainer's name when present
func GetAllCourses(db *sql.DB) ([]*models.Course, error) {
	query := `
		SELECT c.id, c.name, c.code, c.description, c.duration, c.learning_outcomes,
			   c.mode, c.category, c.is_active, c.trainer_id, c.created_at, c.updated_at,
			   u.first_name, u.last_name
		FROM courses c
		LEFT JOIN trainers t ON c.trainer_id = t.id
		LEFT JOIN users u ON t.user_id = u.id
		ORDER BY c.name ASC
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		var firstName, lastName sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Code, &c.Description, &c.Duration, &c.LearningOutcomes,
			&c.Mode, &c.Category, &c.IsActive, &c.TrainerID, &c.CreatedAt, &c.UpdatedAt,
			&firstName, &lastName,
		); err != nil {
			return nil, err
		}
		if c.TrainerID != nil && firstName.Valid {
			c.Trainer = &models.Trainer{
				ID:   *c.TrainerID,
				User: &models.User{FirstName: firstName.String, LastName: lastName.String},
			}
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

// GetCoursesByTrainer returns the active courses assigned to one trainer.
func GetCoursesByTrainer(db *sql.DB, trainerID string) ([]*models.Course, error) {
	query := `
		SELECT id, name, code, description, duration, learning_outcomes, mode, category,
			   is_active, trainer_id, created_at, updated_at
		FROM courses WHERE trainer_id = $1 AND is_active = true ORDER BY name
	`
	rows, err := db.Query(query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Duration,
			&c.LearningOutcomes, &c.Mode, &c.Category, &c.IsActive, &c.TrainerID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func GetCourseByID(db *sql.DB, courseID string) (*models.Course, error) {
	c := &models.Course{}
	query := `
		SELECT id, name, code, description, duration, learning_outcomes, mode, category, is_active, trainer_id, created_at, updated_at
		FROM courses WHERE id = $1
	`
	err := db.QueryRow(query, courseID).Scan(
		&c.ID, &c.Name, &c.Code, &c.Description, &c.Duration, &c.LearningOutcomes,
		&c.Mode, &c.Category, &c.IsActive, &c.TrainerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func UpdateCourse(db *sql.DB, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = $1, code = $2, description = $3, duration = $4, learning_outcomes = $5,
			mode = $6, category = $7, is_active = $8, trainer_id = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := db.Exec(query,
		course.Name, course.Code, course.Description, course.Duration, course.LearningOutcomes,
		course.Mode, course.Category, course.IsActive, course.TrainerID, course.ID,
	)
	return err
}

func DeleteCourse(db *sql.DB, courseID string) error {
	query := `DELETE FROM courses WHERE id = $1`
	_, err := db.Exec(query, courseID)
	return err
}
