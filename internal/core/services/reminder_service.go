package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule fires at 08:30 on weekdays
const DefaultReminderSchedule = "30 8 * * 1-5"

// ReminderService periodically reminds managers about claims awaiting review
type ReminderService struct {
	claimRepo repositories.ClaimRepository
	notifier  Notifier
	schedule  string
	cron      *cron.Cron
}

// NewReminderService creates a new reminder service. notifier may be nil.
func NewReminderService(claimRepo repositories.ClaimRepository, notifier Notifier, schedule string) *ReminderService {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderService{
		claimRepo: claimRepo,
		notifier:  notifier,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the job and starts the scheduler
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("❌ Review reminder error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("⏰ ReminderService started (%s)", s.schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 ReminderService stopped")
}

// RunOnce counts open claims per outstanding manager slot and notifies
func (s *ReminderService) RunOnce(ctx context.Context) (*PendingReviewSummary, error) {
	claims, _, err := s.claimRepo.List(ctx, repositories.ClaimFilter{
		Statuses: []domain.ClaimStatus{domain.StatusPending, domain.StatusPendingApproval},
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	summary := &PendingReviewSummary{Total: len(claims)}
	for _, c := range claims {
		if !c.Manager1Approved {
			summary.AwaitingManager1++
		}
		if !c.Manager2Approved {
			summary.AwaitingManager2++
		}
	}

	if summary.Total > 0 {
		log.Printf("⏰ %d claims awaiting review (manager1: %d, manager2: %d)",
			summary.Total, summary.AwaitingManager1, summary.AwaitingManager2)
	}
	if s.notifier != nil {
		s.notifier.NotifyPendingReviews(summary)
	}
	return summary, nil
}
