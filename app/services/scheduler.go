package services

import (
	"log"
	"time"

	"github.com/sakthimugupython/Vetri-Training-Final/app/services/notify"
)

// StartScheduler starts the background task scheduler
func StartScheduler(notifier *notify.Service) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			// Re-attempt queued email notifications that still have attempts left
			if err := notifier.RetryPending(); err != nil {
				log.Printf("Error retrying pending notifications: %v", err)
			}
		}
	}()
}
