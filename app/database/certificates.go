package database

import (
	"database/sql"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

const certificateSelect = `
	SELECT c.id, c.trainee_id, c.course_id, c.issued_date, c.certificate_number,
		   c.completion_percentage, c.grade, c.is_verified,
		   u.first_name, u.last_name, co.name
	FROM certificates c
	JOIN trainees t ON c.trainee_id = t.id
	JOIN users u ON t.user_id = u.id
	JOIN courses co ON c.course_id = co.id
`

func scanCertificateRows(rows *sql.Rows) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	for rows.Next() {
		var c models.Certificate
		var firstName, lastName, courseName string
		if err := rows.Scan(
			&c.ID, &c.TraineeID, &c.CourseID, &c.IssuedDate, &c.CertificateNumber,
			&c.CompletionPercentage, &c.Grade, &c.IsVerified,
			&firstName, &lastName, &courseName,
		); err != nil {
			return nil, err
		}
		c.Trainee = &models.Trainee{ID: c.TraineeID, User: &models.User{FirstName: firstName, LastName: lastName}}
		c.Course = &models.Course{ID: c.CourseID, Name: courseName}
		certs = append(certs, &c)
	}
	return certs, rows.Err()
}

func CreateCertificate(db *sql.DB, cert *models.Certificate) error {
	query := `
		INSERT INTO certificates (trainee_id, course_id, issued_date, certificate_number, completion_percentage, grade, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return db.QueryRow(query, cert.TraineeID, cert.CourseID, cert.IssuedDate, cert.CertificateNumber,
		cert.CompletionPercentage, cert.Grade, cert.IsVerified).Scan(&cert.ID)
}

func GetAllCertificates(db *sql.DB) ([]*models.Certificate, error) {
	rows, err := db.Query(certificateSelect + ` ORDER BY c.issued_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCertificateRows(rows)
}

func GetCertificatesByTrainee(db *sql.DB, traineeID string) ([]*models.Certificate, error) {
	rows, err := db.Query(certificateSelect+` WHERE c.trainee_id = $1 ORDER BY c.issued_date DESC`, traineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCertificateRows(rows)
}

func GetCertificateByID(db *sql.DB, certID string) (*models.Certificate, error) {
	rows, err := db.Query(certificateSelect+` WHERE c.id = $1`, certID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs, err := scanCertificateRows(rows)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, sql.ErrNoRows
	}
	return certs[0], nil
}
