package services

import (
	"cmcs-claims/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Notifier receives workflow events. Implementations must not block for long.
type Notifier interface {
	NotifySubmitted(claim *domain.Claim)
	NotifyReviewed(claim *domain.Claim, reviewer domain.Role, outcome string)
	NotifyPendingReviews(summary *PendingReviewSummary)
}

// Input DTOs

// SubmitClaimInput for submitting a new claim
type SubmitClaimInput struct {
	HoursWorked int
	HourlyRate  decimal.Decimal
	Notes       string
	Documents   []domain.Upload
}

// UpdateClaimInput for editing a pending claim. Documents are appended.
type UpdateClaimInput struct {
	HoursWorked int
	HourlyRate  decimal.Decimal
	Notes       string
	Documents   []domain.Upload
}

// ReviewInput for a manager decision
type ReviewInput struct {
	Action   domain.ReviewAction
	Feedback string
}

// PendingReviewSummary counts claims still waiting on each manager slot
type PendingReviewSummary struct {
	Total            int `json:"total"`
	AwaitingManager1 int `json:"awaiting_manager1"`
	AwaitingManager2 int `json:"awaiting_manager2"`
}
