package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/core/access"
	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review outcome messages
const (
	OutcomeRejected      = "rejected"
	OutcomeFullyApproved = "approved by both managers"
)

// ClaimService drives the claim lifecycle: submission, editing and the
// two-manager approval workflow
type ClaimService struct {
	claimRepo   repositories.ClaimRepository
	userRepo    repositories.UserRepository
	attachments *AttachmentService
	notifier    Notifier
	now         func() time.Time
}

// NewClaimService creates a new claim service. userRepo and notifier may be nil.
func NewClaimService(
	claimRepo repositories.ClaimRepository,
	userRepo repositories.UserRepository,
	attachments *AttachmentService,
	notifier Notifier,
) *ClaimService {
	return &ClaimService{
		claimRepo:   claimRepo,
		userRepo:    userRepo,
		attachments: attachments,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Submit creates a new Pending claim for the calling lecturer
func (s *ClaimService) Submit(ctx context.Context, role domain.Role, lecturerID uint, input *SubmitClaimInput) (*domain.Claim, error) {
	if err := requireLecturer(role); err != nil {
		return nil, err
	}

	rate, err := s.lecturerRate(ctx, lecturerID, input.HourlyRate)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateFields(input.HoursWorked, rate, input.Notes); err != nil {
		return nil, err
	}

	names, err := s.attachments.Register(ctx, input.Documents)
	if err != nil {
		return nil, err
	}

	claim, err := domain.NewClaim(lecturerID, input.HoursWorked, rate, input.Notes, names, s.now())
	if err != nil {
		s.attachments.Discard(ctx, names)
		return nil, err
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		s.attachments.Discard(ctx, names)
		return nil, fmt.Errorf("failed to save claim: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifySubmitted(claim)
	}
	return claim, nil
}

// lecturerRate prefers the rate configured on the lecturer profile
func (s *ClaimService) lecturerRate(ctx context.Context, lecturerID uint, submitted decimal.Decimal) (rate decimal.Decimal, err error) {
	rate = submitted
	if s.userRepo == nil {
		return rate, nil
	}

	user, err := s.userRepo.GetByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return rate, nil
		}
		return rate, fmt.Errorf("failed to load lecturer profile: %w", err)
	}
	if profile := user.ToLecturer(); profile.HourlyRate != nil {
		rate = *profile.HourlyRate
	}
	return rate, nil
}

// Update edits a Pending claim owned by the caller. New documents are appended.
func (s *ClaimService) Update(ctx context.Context, role domain.Role, lecturerID uint, claimID uuid.UUID, input *UpdateClaimInput) (*domain.Claim, error) {
	if err := requireLecturer(role); err != nil {
		return nil, err
	}

	// Checked up front so no files are written for a claim that can not change.
	// The mutation below re-checks under the row lock.
	current, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnedPending(current, lecturerID); err != nil {
		return nil, err
	}
	rate, err := s.lecturerRate(ctx, lecturerID, input.HourlyRate)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateFields(input.HoursWorked, rate, input.Notes); err != nil {
		return nil, err
	}

	names, err := s.attachments.Register(ctx, input.Documents)
	if err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.Update(ctx, claimID, func(c *domain.Claim) error {
		if c.LecturerID != lecturerID {
			return fmt.Errorf("%w: claim belongs to another lecturer", domain.ErrUnauthorized)
		}
		return c.ApplyEdit(input.HoursWorked, rate, input.Notes, names, s.now())
	})
	if err != nil {
		s.attachments.Discard(ctx, names)
		return nil, err
	}
	return claim, nil
}

// Review records a manager's Approve or Reject decision with optional feedback
func (s *ClaimService) Review(ctx context.Context, role domain.Role, claimID uuid.UUID, input *ReviewInput) (*domain.Claim, string, error) {
	if err := access.RequireRole(role); err != nil {
		return nil, "", err
	}
	if !access.CanManagerAct(role) {
		return nil, "", fmt.Errorf("%w: only managers can review claims", domain.ErrUnauthorized)
	}

	if input.Action != domain.ActionApprove && input.Action != domain.ActionReject {
		return nil, "", &domain.ValidationError{Field: "action", Message: "action must be Approve or Reject"}
	}

	feedback := strings.TrimSpace(input.Feedback)
	if feedback != "" {
		if err := domain.ValidateFeedback(feedback); err != nil {
			return nil, "", err
		}
	}

	claim, err := s.claimRepo.Update(ctx, claimID, func(c *domain.Claim) error {
		now := s.now()

		var err error
		if input.Action == domain.ActionReject {
			err = c.Reject(now)
		} else {
			err = c.Approve(role, now)
		}
		if err != nil {
			return err
		}

		if feedback != "" {
			if _, err := c.AppendFeedback(role, feedback, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	outcome := reviewOutcome(claim, role)
	if s.notifier != nil {
		s.notifier.NotifyReviewed(claim, role, outcome)
	}
	return claim, outcome, nil
}

func reviewOutcome(claim *domain.Claim, role domain.Role) string {
	switch {
	case claim.Status == domain.StatusRejected:
		return OutcomeRejected
	case claim.IsFinallyApproved():
		return OutcomeFullyApproved
	default:
		return fmt.Sprintf("approved by %s, awaiting the other manager", role)
	}
}

// Delete removes a Pending claim owned by the caller along with its documents
func (s *ClaimService) Delete(ctx context.Context, role domain.Role, lecturerID uint, claimID uuid.UUID) error {
	if err := requireLecturer(role); err != nil {
		return err
	}

	claim, err := s.claimRepo.Delete(ctx, claimID, func(c *domain.Claim) error {
		return checkOwnedPending(c, lecturerID)
	})
	if err != nil {
		return err
	}

	s.attachments.Discard(ctx, claim.Attachments)
	log.Printf("🗑️ Claim %s deleted by lecturer %d", claim.ID, lecturerID)
	return nil
}

// Get returns a single claim. Lecturers only see their own claims.
func (s *ClaimService) Get(ctx context.Context, role domain.Role, userID uint, claimID uuid.UUID) (*domain.Claim, error) {
	if err := access.RequireRole(role); err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if access.CanLecturerAct(role) && claim.LecturerID != userID {
		return nil, domain.ErrClaimNotFound
	}
	return claim, nil
}

// ListMine returns the caller's claims, newest submission first
func (s *ClaimService) ListMine(ctx context.Context, role domain.Role, lecturerID uint, offset, limit int) ([]*domain.Claim, int64, error) {
	if err := requireLecturer(role); err != nil {
		return nil, 0, err
	}
	return s.claimRepo.List(ctx, repositories.ClaimFilter{LecturerID: &lecturerID}, offset, limit)
}

// ListForReview returns claims for managers, newest submission first
func (s *ClaimService) ListForReview(ctx context.Context, role domain.Role, filter repositories.ClaimFilter, offset, limit int) ([]*domain.Claim, int64, error) {
	if err := access.RequireRole(role); err != nil {
		return nil, 0, err
	}
	if !access.CanManagerAct(role) {
		return nil, 0, fmt.Errorf("%w: only managers can list claims for review", domain.ErrUnauthorized)
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, 0, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", st)}
		}
	}
	return s.claimRepo.List(ctx, filter, offset, limit)
}

// ListApproved returns fully approved claims for HR. Only the lecturer and
// status update range of the filter apply.
func (s *ClaimService) ListApproved(ctx context.Context, role domain.Role, filter repositories.ClaimFilter, offset, limit int) ([]*domain.Claim, int64, error) {
	if err := access.RequireRole(role); err != nil {
		return nil, 0, err
	}
	if !access.CanReportAct(role) {
		return nil, 0, fmt.Errorf("%w: only HR can list approved claims", domain.ErrUnauthorized)
	}
	filter.Statuses = []domain.ClaimStatus{domain.StatusApproved}
	return s.claimRepo.List(ctx, filter, offset, limit)
}

func requireLecturer(role domain.Role) error {
	if err := access.RequireRole(role); err != nil {
		return err
	}
	if !access.CanLecturerAct(role) {
		return fmt.Errorf("%w: only lecturers can manage their claims", domain.ErrUnauthorized)
	}
	return nil
}

func checkOwnedPending(c *domain.Claim, lecturerID uint) error {
	if c.LecturerID != lecturerID {
		return fmt.Errorf("%w: claim belongs to another lecturer", domain.ErrUnauthorized)
	}
	if c.Status != domain.StatusPending {
		return fmt.Errorf("%w: claim is %s", domain.ErrInvalidState, c.Status)
	}
	return nil
}
