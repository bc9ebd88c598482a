package database

import "database/sql"

// DashboardStats holds the admin landing-page counters.
type DashboardStats struct {
	TotalTrainees      int `json:"total_trainees"`
	TotalTrainers      int `json:"total_trainers"`
	TotalCourses       int `json:"total_courses"`
	ActiveCourses      int `json:"active_courses"`
	TotalCertificates  int `json:"total_certificates"`
	TotalAnnouncements int `json:"total_announcements"`
	TodayPresent       int `json:"today_present"`
	TodayAbsent        int `json:"today_absent"`
}

func GetDashboardStats(db *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM trainees t JOIN users u ON t.user_id = u.id WHERE u.is_active = true),
			(SELECT COUNT(*) FROM trainers t JOIN users u ON t.user_id = u.id WHERE u.is_active = true),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM courses WHERE is_active = true),
			(SELECT COUNT(*) FROM certificates),
			(SELECT COUNT(*) FROM announcements),
			(SELECT COUNT(*) FROM trainee_attendance WHERE date = CURRENT_DATE AND status = 'present'),
			(SELECT COUNT(*) FROM trainee_attendance WHERE date = CURRENT_DATE AND status IN ('absent', 'informed', 'not_informed'))
	`
	err := db.QueryRow(query).Scan(
		&stats.TotalTrainees, &stats.TotalTrainers, &stats.TotalCourses, &stats.ActiveCourses,
		&stats.TotalCertificates, &stats.TotalAnnouncements, &stats.TodayPresent, &stats.TodayAbsent,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TrainerDashboardStats summarises a trainer's roster.
type TrainerDashboardStats struct {
	TotalTrainees int `json:"total_trainees"`
	TotalBatches  int `json:"total_batches"`
	TodayMarked   int `json:"today_marked"`
	SessionCount  int `json:"session_count"`
}

func GetTrainerDashboardStats(db *sql.DB, trainerID string) (*TrainerDashboardStats, error) {
	stats := &TrainerDashboardStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM trainees t JOIN users u ON t.user_id = u.id WHERE t.trainer_id = $1 AND u.is_active = true),
			(SELECT COUNT(DISTINCT batch) FROM trainees WHERE trainer_id = $1 AND batch <> ''),
			(SELECT COUNT(*) FROM trainee_attendance a JOIN trainees t ON a.trainee_id = t.id
				WHERE t.trainer_id = $1 AND a.date = CURRENT_DATE),
			(SELECT COUNT(*) FROM session_recordings WHERE trainer_id = $1 AND is_active = true)
	`
	err := db.QueryRow(query, trainerID).Scan(
		&stats.TotalTrainees, &stats.TotalBatches, &stats.TodayMarked, &stats.SessionCount,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
