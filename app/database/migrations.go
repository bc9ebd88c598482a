package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	steps := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"core tables", createCoreTables},
		{"training tables", createTrainingTables},
		{"notification tables", createNotificationTables},
		{"role seed", seedRoles},
		{"notification defaults", seedNotificationDefaults},
	}

	for _, step := range steps {
		if err := step.fn(db); err != nil {
			log.Printf("Migration step %q failed: %v", step.name, err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createCoreTables(db *sql.DB) error {
	query := `
		CREATE EXTENSION IF NOT EXISTS pgcrypto;

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(254) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, role_id)
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`
	_, err := db.Exec(query)
	return err
}

func createTrainingTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS trainers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			expertise VARCHAR(255) NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			trainer_code VARCHAR(50) NOT NULL DEFAULT '',
			batches INT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			admin_locked BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS courses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			code VARCHAR(50) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			duration VARCHAR(100) NOT NULL DEFAULT '',
			learning_outcomes VARCHAR(255) NOT NULL DEFAULT '',
			mode VARCHAR(10) NOT NULL DEFAULT 'offline',
			category VARCHAR(20) NOT NULL DEFAULT 'developer',
			is_active BOOLEAN NOT NULL DEFAULT true,
			trainer_id UUID REFERENCES trainers(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS trainees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			course_id UUID REFERENCES courses(id) ON DELETE SET NULL,
			trainer_id UUID REFERENCES trainers(id) ON DELETE SET NULL,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			batch VARCHAR(50) NOT NULL DEFAULT '',
			progress INT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			trainee_code VARCHAR(50) NOT NULL DEFAULT '',
			certificate_status VARCHAR(20) NOT NULL DEFAULT 'Issued',
			daily_task INT NOT NULL DEFAULT 1,
			total_task INT NOT NULL DEFAULT 0,
			completed_task INT NOT NULL DEFAULT 0,
			pending_completed INT NOT NULL DEFAULT 0,
			remarks TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS trainee_attendance (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trainee_id UUID NOT NULL REFERENCES trainees(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			status VARCHAR(15) NOT NULL,
			remarks VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (trainee_id, date)
		);

		CREATE TABLE IF NOT EXISTS daily_assessments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trainee_id UUID NOT NULL REFERENCES trainees(id) ON DELETE CASCADE,
			trainer_id UUID NOT NULL REFERENCES trainers(id) ON DELETE CASCADE,
			date DATE NOT NULL DEFAULT CURRENT_DATE,
			score INT NOT NULL DEFAULT 0,
			max_score INT NOT NULL DEFAULT 100,
			remarks TEXT NOT NULL DEFAULT '',
			is_completed BOOLEAN NOT NULL DEFAULT false
		);

		CREATE TABLE IF NOT EXISTS certificates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trainee_id UUID NOT NULL REFERENCES trainees(id) ON DELETE CASCADE,
			course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			issued_date DATE NOT NULL DEFAULT CURRENT_DATE,
			certificate_number VARCHAR(100) NOT NULL UNIQUE,
			completion_percentage INT NOT NULL DEFAULT 0,
			grade VARCHAR(2) NOT NULL DEFAULT 'A',
			is_verified BOOLEAN NOT NULL DEFAULT true
		);

		CREATE TABLE IF NOT EXISTS announcements (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title VARCHAR(200) NOT NULL,
			short_description VARCHAR(200) NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			date_posted DATE NOT NULL DEFAULT CURRENT_DATE,
			posted_by VARCHAR(100) NOT NULL DEFAULT 'Admin',
			academy VARCHAR(100) NOT NULL DEFAULT 'Vetri Academy',
			target_audience VARCHAR(20) NOT NULL DEFAULT 'all',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS session_recordings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			session_url TEXT NOT NULL,
			batch VARCHAR(50) NOT NULL,
			trainer_id UUID NOT NULL REFERENCES trainers(id) ON DELETE CASCADE,
			upload_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_visible BOOLEAN NOT NULL DEFAULT true,
			upload_status VARCHAR(20) NOT NULL DEFAULT 'pending'
		);
		CREATE INDEX IF NOT EXISTS idx_session_recordings_batch ON session_recordings(batch);
	`
	_, err := db.Exec(query)
	return err
}

func createNotificationTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS email_templates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			slug VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			subject_template TEXT NOT NULL,
			body_template TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS notification_preferences (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trainee_id UUID NOT NULL UNIQUE REFERENCES trainees(id) ON DELETE CASCADE,
			allow_announcements BOOLEAN NOT NULL DEFAULT true,
			allow_attendance_updates BOOLEAN NOT NULL DEFAULT true,
			allow_task_updates BOOLEAN NOT NULL DEFAULT true,
			allow_session_material BOOLEAN NOT NULL DEFAULT true,
			unsubscribed BOOLEAN NOT NULL DEFAULT false,
			unsubscribe_token UUID NOT NULL UNIQUE DEFAULT gen_random_uuid(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS email_notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trainee_id UUID NOT NULL REFERENCES trainees(id) ON DELETE CASCADE,
			notification_type VARCHAR(30) NOT NULL,
			recipient_email VARCHAR(254) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			context JSONB NOT NULL DEFAULT '{}',
			status VARCHAR(20) NOT NULL DEFAULT 'queued',
			attempt_count INT NOT NULL DEFAULT 0,
			max_attempts INT NOT NULL DEFAULT 3,
			last_attempt_at TIMESTAMPTZ,
			last_error TEXT NOT NULL DEFAULT '',
			template_id UUID REFERENCES email_templates(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_email_notifications_status ON email_notifications(status);
		CREATE INDEX IF NOT EXISTS idx_email_notifications_created ON email_notifications(created_at DESC);
	`
	_, err := db.Exec(query)
	return err
}

func seedRoles(db *sql.DB) error {
	query := `
		INSERT INTO roles (name) VALUES ('admin'), ('trainer'), ('trainee')
		ON CONFLICT (name) DO NOTHING;
	`
	_, err := db.Exec(query)
	return err
}

// seedNotificationDefaults backfills preference rows for existing trainees and
// installs the generic announcement template if no row exists yet.
func seedNotificationDefaults(db *sql.DB) error {
	query := `
		INSERT INTO notification_preferences (trainee_id)
		SELECT t.id FROM trainees t
		LEFT JOIN notification_preferences p ON p.trainee_id = t.id
		WHERE p.id IS NULL;

		INSERT INTO email_templates (slug, name, subject_template, body_template)
		VALUES (
			'announcement_generic',
			'Announcement Notification',
			'New announcement: {{.title}}',
			E'Hello {{.trainee_name}},\n\nA new announcement has been posted by {{.posted_by}}.\nTitle: {{.title}}\n\n{{if .short_description}}{{.short_description}}\n\n{{end}}{{.content}}\n\nView more details in the trainee portal.\n\nIf you no longer wish to receive these updates, manage your preferences here: {{.unsubscribe_url}}\n'
		)
		ON CONFLICT (slug) DO NOTHING;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to seed notification defaults: %v", err)
	}
	return err
}
