package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field limits
const (
	MinHours           = 1
	MaxHours           = 1000
	MaxNotesLength     = 500
	MaxFeedbackLength  = 1000
	MaxAttachmentBytes = 10 * 1024 * 1024
)

var (
	MinRate = decimal.RequireFromString("0.01")
	MaxRate = decimal.RequireFromString("1000.00")
)

// ValidateFields checks the lecturer-editable fields of a claim
func ValidateFields(hours int, rate decimal.Decimal, notes string) error {
	if hours < MinHours || hours > MaxHours {
		return invalid("hours_worked", fmt.Sprintf("hours must be between %d and %d", MinHours, MaxHours))
	}
	if rate.LessThan(MinRate) || rate.GreaterThan(MaxRate) {
		return invalid("hourly_rate", "rate must be between 0.01 and 1000.00")
	}
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return invalid("notes", fmt.Sprintf("notes cannot exceed %d characters", MaxNotesLength))
	}
	return nil
}

// ValidateFeedback checks a non-empty reviewer comment
func ValidateFeedback(message string) error {
	if strings.TrimSpace(message) == "" {
		return invalid("feedback", "feedback message is required")
	}
	if utf8.RuneCountInString(message) > MaxFeedbackLength {
		return invalid("feedback", fmt.Sprintf("feedback cannot exceed %d characters", MaxFeedbackLength))
	}
	return nil
}

// NewClaim builds a validated claim in Pending status
func NewClaim(lecturerID uint, hours int, rate decimal.Decimal, notes string, attachments []string, now time.Time) (*Claim, error) {
	if err := ValidateFields(hours, rate, notes); err != nil {
		return nil, err
	}

	names := make([]string, len(attachments))
	copy(names, attachments)

	return &Claim{
		ID:             uuid.New(),
		LecturerID:     lecturerID,
		HoursWorked:    hours,
		HourlyRate:     rate,
		Notes:          notes,
		Status:         StatusPending,
		SubmissionDate: now,
		Attachments:    names,
		Feedback:       []Feedback{},
	}, nil
}

// TotalAmount is always derived from hours and rate
func (c *Claim) TotalAmount() decimal.Decimal {
	return c.HourlyRate.Mul(decimal.NewFromInt(int64(c.HoursWorked)))
}

// IsFinallyApproved reports whether both manager slots have approved
func (c *Claim) IsFinallyApproved() bool {
	return c.Manager1Approved && c.Manager2Approved
}

// ApplyEdit replaces the editable fields and appends new attachments.
// Only legal while the claim is Pending.
func (c *Claim) ApplyEdit(hours int, rate decimal.Decimal, notes string, newAttachments []string, now time.Time) error {
	if c.Status != StatusPending {
		return fmt.Errorf("%w: claim is %s", ErrInvalidState, c.Status)
	}
	if err := ValidateFields(hours, rate, notes); err != nil {
		return err
	}

	c.HoursWorked = hours
	c.HourlyRate = rate
	c.Notes = notes
	c.Attachments = append(c.Attachments, newAttachments...)
	c.StatusUpdateDate = timePtr(now)
	return nil
}

// Approve records the approval of the manager holding slot.
// Re-approving refreshes the slot timestamp; a rejected claim can not be approved.
func (c *Claim) Approve(slot Role, now time.Time) error {
	if c.Status == StatusRejected {
		return fmt.Errorf("%w: claim is %s", ErrInvalidState, c.Status)
	}

	switch slot {
	case RoleManager1:
		c.Manager1Approved = true
		c.Manager1ApprovalDate = timePtr(now)
	case RoleManager2:
		c.Manager2Approved = true
		c.Manager2ApprovalDate = timePtr(now)
	default:
		return fmt.Errorf("%w: %q holds no approval slot", ErrUnauthorized, slot)
	}

	if c.IsFinallyApproved() {
		c.Status = StatusApproved
	} else {
		c.Status = StatusPendingApproval
	}
	c.StatusUpdateDate = timePtr(now)
	return nil
}

// Reject moves a non-terminal claim to Rejected regardless of prior approvals
func (c *Claim) Reject(now time.Time) error {
	if c.Status.IsTerminal() {
		return fmt.Errorf("%w: claim is %s", ErrInvalidState, c.Status)
	}
	c.Status = StatusRejected
	c.StatusUpdateDate = timePtr(now)
	return nil
}

// AppendFeedback adds an entry to the end of the feedback ledger
func (c *Claim) AppendFeedback(reviewer Role, message string, now time.Time) (Feedback, error) {
	if reviewer == "" {
		return Feedback{}, invalid("reviewed_by", "reviewer is required")
	}
	if err := ValidateFeedback(message); err != nil {
		return Feedback{}, err
	}

	fb := Feedback{
		ID:         uuid.New(),
		ClaimID:    c.ID,
		Message:    message,
		ReviewedBy: reviewer,
		ReviewDate: now,
	}
	c.Feedback = append(c.Feedback, fb)
	return fb, nil
}

// Clone returns a deep copy so stored snapshots never alias caller state
func (c *Claim) Clone() *Claim {
	cp := *c
	cp.StatusUpdateDate = copyTime(c.StatusUpdateDate)
	cp.Manager1ApprovalDate = copyTime(c.Manager1ApprovalDate)
	cp.Manager2ApprovalDate = copyTime(c.Manager2ApprovalDate)
	cp.Attachments = append([]string{}, c.Attachments...)
	cp.Feedback = append([]Feedback{}, c.Feedback...)
	return &cp
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
