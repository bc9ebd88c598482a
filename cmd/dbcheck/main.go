package main

import (
	"fmt"
	"log"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
)

// Quick connectivity and delivery-queue sanity check against the configured
// database. Useful when diagnosing stuck notifications in production.
func main() {
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	fmt.Println("Checking email notification queue...")
	query := `SELECT status, COUNT(*), COALESCE(MAX(attempt_count), 0)
			  FROM email_notifications
			  GROUP BY status
			  ORDER BY status`

	rows, err := db.Query(query)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, maxAttempts int
		if err := rows.Scan(&status, &count, &maxAttempts); err != nil {
			fmt.Printf("Scan failed: %v\n", err)
			continue
		}
		fmt.Printf("%-10s %5d records, max attempts %d\n", status, count, maxAttempts)
	}

	var stuck int
	err = db.QueryRow(`SELECT COUNT(*) FROM email_notifications
					   WHERE status = 'queued' AND attempt_count >= max_attempts`).Scan(&stuck)
	if err != nil {
		log.Fatalf("Stuck-record query failed: %v", err)
	}
	if stuck > 0 {
		fmt.Printf("WARNING: %d queued record(s) have exhausted their attempts\n", stuck)
	}
	fmt.Println("Check complete.")
}
