package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"real-estate-marketplace/internal/cleanup"
	"real-estate-marketplace/internal/config"
)

// Scheduler runs the nightly activity retention job
type Scheduler struct {
	cron      *cron.Cron
	cleanup   *cleanup.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(cleanupSvc *cleanup.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: cleanupSvc,
		config:  cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Cleanup.DailyRunEnabled {
		log.Println("Scheduler: Daily cleanup is disabled in configuration")
		return nil
	}

	// Parse daily run time (HH:MM format in config)
	cronSpec := s.parseDailyRunTime(s.config.Cleanup.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily cleanup job...")
		result, err := s.cleanup.Run(s.config.Cleanup)
		if err != nil {
			log.Printf("Scheduler: Daily cleanup failed: %v", err)
			return
		}
		log.Printf("Scheduler: Daily cleanup completed, deleted %d/%d",
			result.DeletedCount, result.TargetCount)
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Cleanup.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow immediately executes the cleanup job (for manual trigger)
func (s *Scheduler) RunNow() (*cleanup.Result, error) {
	log.Println("Scheduler: Manual trigger - starting cleanup job...")
	return s.cleanup.Run(s.config.Cleanup)
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 2:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}
