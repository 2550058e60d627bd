package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"cmcs-claims/internal/core/domain"
)

// NotificationService posts workflow events to a chat webhook
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service. An empty URL disables it.
func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

type webhookMessage struct {
	Text string `json:"text"`
}

// sendWebhook posts message as {"text": message}
func (s *NotificationService) sendWebhook(message string) error {
	if !s.enabled {
		return nil
	}

	body, err := json.Marshal(webhookMessage{Text: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

func (s *NotificationService) send(message string) {
	if err := s.sendWebhook(message); err != nil {
		log.Printf("⚠️ Notification failed: %v", err)
	}
}

// NotifySubmitted announces a new claim
func (s *NotificationService) NotifySubmitted(claim *domain.Claim) {
	message := fmt.Sprintf(`🆕 New claim submitted

📋 Claim: %s
👤 Lecturer: #%d
⏱️ Hours: %d @ %s
💰 Total: %s
📎 Documents: %d`,
		claim.ID,
		claim.LecturerID,
		claim.HoursWorked,
		claim.HourlyRate.StringFixed(2),
		claim.TotalAmount().StringFixed(2),
		len(claim.Attachments),
	)

	s.send(message)
}

// NotifyReviewed announces a manager decision
func (s *NotificationService) NotifyReviewed(claim *domain.Claim, reviewer domain.Role, outcome string) {
	icon := "✅"
	if claim.Status == domain.StatusRejected {
		icon = "❌"
	}

	message := fmt.Sprintf(`%s Claim %s

📋 Claim: %s
👤 Reviewer: %s
📊 Status: %s`,
		icon,
		outcome,
		claim.ID,
		reviewer,
		claim.Status,
	)

	s.send(message)
}

// NotifyPendingReviews sends the periodic reminder to managers
func (s *NotificationService) NotifyPendingReviews(summary *PendingReviewSummary) {
	if summary.Total == 0 {
		return
	}

	message := fmt.Sprintf(`⏰ Claims awaiting review: %d

👔 Manager1: %d
👔 Manager2: %d`,
		summary.Total,
		summary.AwaitingManager1,
		summary.AwaitingManager2,
	)

	s.send(message)
}
