package database

import (
	"database/sql"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// GetAttendanceByTraineeAndDate returns one day's record, sql.ErrNoRows when unmarked.
func GetAttendanceByTraineeAndDate(db *sql.DB, traineeID string, date time.Time) (*models.TraineeAttendance, error) {
	a := &models.TraineeAttendance{}
	query := `
		SELECT id, trainee_id, date, status, remarks, created_at, updated_at
		FROM trainee_attendance WHERE trainee_id = $1 AND date = $2
	`
	err := db.QueryRow(query, traineeID, date).Scan(
		&a.ID, &a.TraineeID, &a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpsertAttendance creates or updates the record for (trainee, date), relying on
// the unique constraint the same way the batch handlers expect get-or-create.
func UpsertAttendance(db *sql.DB, a *models.TraineeAttendance) error {
	query := `
		INSERT INTO trainee_attendance (trainee_id, date, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (trainee_id, date)
		DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return db.QueryRow(query, a.TraineeID, a.Date, a.Status, a.Remarks).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func GetAttendanceByTrainee(db *sql.DB, traineeID string) ([]*models.TraineeAttendance, error) {
	query := `
		SELECT id, trainee_id, date, status, remarks, created_at, updated_at
		FROM trainee_attendance WHERE trainee_id = $1 ORDER BY date DESC
	`
	rows, err := db.Query(query, traineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.TraineeAttendance
	for rows.Next() {
		var a models.TraineeAttendance
		if err := rows.Scan(&a.ID, &a.TraineeID, &a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &a)
	}
	return records, rows.Err()
}

// GetAttendanceByTraineeAndMonth returns one calendar month of records.
func GetAttendanceByTraineeAndMonth(db *sql.DB, traineeID string, year int, month time.Month) ([]*models.TraineeAttendance, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	query := `
		SELECT id, trainee_id, date, status, remarks, created_at, updated_at
		FROM trainee_attendance
		WHERE trainee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`
	rows, err := db.Query(query, traineeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.TraineeAttendance
	for rows.Next() {
		var a models.TraineeAttendance
		if err := rows.Scan(&a.ID, &a.TraineeID, &a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &a)
	}
	return records, rows.Err()
}

// AttendanceStats summarises a trainee's attendance history.
type AttendanceStats struct {
	TotalDays       int     `json:"total_days"`
	PresentDays     int     `json:"present_days"`
	AbsentDays      int     `json:"absent_days"`
	InformedDays    int     `json:"informed_days"`
	NotInformedDays int     `json:"not_informed_days"`
	Percentage      float64 `json:"attendance_percentage"`
}

func GetAttendanceStats(db *sql.DB, traineeID string) (*AttendanceStats, error) {
	stats := &AttendanceStats{}
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'present'),
			   COUNT(*) FILTER (WHERE status IN ('absent', 'informed', 'not_informed')),
			   COUNT(*) FILTER (WHERE status = 'informed'),
			   COUNT(*) FILTER (WHERE status = 'not_informed')
		FROM trainee_attendance WHERE trainee_id = $1
	`
	err := db.QueryRow(query, traineeID).Scan(
		&stats.TotalDays, &stats.PresentDays, &stats.AbsentDays,
		&stats.InformedDays, &stats.NotInformedDays,
	)
	if err != nil {
		return nil, err
	}
	if stats.TotalDays > 0 {
		stats.Percentage = float64(stats.PresentDays) / float64(stats.TotalDays) * 100
	}
	return stats, nil
}

// AttendanceOverviewRow is one trainee's lifetime attendance summary for the
// admin overview page.
type AttendanceOverviewRow struct {
	TraineeID  string          `json:"trainee_id"`
	Name       string          `json:"name"`
	Batch      string          `json:"batch"`
	CourseName string          `json:"course_name"`
	Stats      AttendanceStats `json:"stats"`
}

// GetAttendanceOverview summarises attendance for every active trainee in one query.
func GetAttendanceOverview(db *sql.DB) ([]*AttendanceOverviewRow, error) {
	query := `
		SELECT t.id, CONCAT(u.first_name, ' ', u.last_name), t.batch, COALESCE(c.name, ''),
			   COUNT(a.id),
			   COUNT(a.id) FILTER (WHERE a.status = 'present'),
			   COUNT(a.id) FILTER (WHERE a.status IN ('absent', 'informed', 'not_informed')),
			   COUNT(a.id) FILTER (WHERE a.status = 'informed'),
			   COUNT(a.id) FILTER (WHERE a.status = 'not_informed')
		FROM trainees t
		JOIN users u ON t.user_id = u.id
		LEFT JOIN courses c ON t.course_id = c.id
		LEFT JOIN trainee_attendance a ON a.trainee_id = t.id
		WHERE u.is_active = true
		GROUP BY t.id, u.first_name, u.last_name, t.batch, c.name
		ORDER BY u.first_name, u.last_name
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overview []*AttendanceOverviewRow
	for rows.Next() {
		var r AttendanceOverviewRow
		if err := rows.Scan(&r.TraineeID, &r.Name, &r.Batch, &r.CourseName,
			&r.Stats.TotalDays, &r.Stats.PresentDays, &r.Stats.AbsentDays,
			&r.Stats.InformedDays, &r.Stats.NotInformedDays); err != nil {
			return nil, err
		}
		if r.Stats.TotalDays > 0 {
			r.Stats.Percentage = float64(r.Stats.PresentDays) / float64(r.Stats.TotalDays) * 100
		}
		overview = append(overview, &r)
	}
	return overview, rows.Err()
}

// GetTodayStatusesByTrainer maps trainee id to today's attendance for a trainer's roster.
func GetTodayStatusesByTrainer(db *sql.DB, trainerID string, date time.Time) (map[string]*models.TraineeAttendance, error) {
	query := `
		SELECT a.id, a.trainee_id, a.date, a.status, a.remarks, a.created_at, a.updated_at
		FROM trainee_attendance a
		JOIN trainees t ON a.trainee_id = t.id
		WHERE t.trainer_id = $1 AND a.date = $2
	`
	rows, err := db.Query(query, trainerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*models.TraineeAttendance)
	for rows.Next() {
		var a models.TraineeAttendance
		if err := rows.Scan(&a.ID, &a.TraineeID, &a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result[a.TraineeID] = &a
	}
	return result, rows.Err()
}
