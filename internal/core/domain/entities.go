package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the resolved role of the caller, supplied on every workflow call
type Role string

const (
	RoleLecturer Role = "Lecturer"
	RoleManager1 Role = "Manager1"
	RoleManager2 Role = "Manager2"
	RoleHR       Role = "HR"
)

// ClaimStatus represents the lifecycle status of a claim
type ClaimStatus string

const (
	StatusPending         ClaimStatus = "Pending"
	StatusPendingApproval ClaimStatus = "Pending Approval"
	StatusApproved        ClaimStatus = "Approved"
	StatusRejected        ClaimStatus = "Rejected"
)

// IsTerminal reports whether no further workflow transition is legal
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the known statuses
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ReviewAction is a manager decision on a claim
type ReviewAction string

const (
	ActionApprove ReviewAction = "Approve"
	ActionReject  ReviewAction = "Reject"
)

// Feedback is an immutable reviewer comment owned by a claim
type Feedback struct {
	ID         uuid.UUID
	ClaimID    uuid.UUID
	Message    string
	ReviewedBy Role
	ReviewDate time.Time
}

// Claim is a lecturer's record of hours worked, subject to dual approval
type Claim struct {
	ID               uuid.UUID
	LecturerID       uint
	HoursWorked      int
	HourlyRate       decimal.Decimal
	Notes            string
	Status           ClaimStatus
	SubmissionDate   time.Time
	StatusUpdateDate *time.Time

	Manager1Approved     bool
	Manager1ApprovalDate *time.Time
	Manager2Approved     bool
	Manager2ApprovalDate *time.Time

	Attachments []string
	Feedback    []Feedback
}

// Upload is a candidate supporting document before registration
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Lecturer is the subset of a user profile the workflow reads
type Lecturer struct {
	ID         uint
	FullName   string
	HourlyRate *decimal.Decimal
}
