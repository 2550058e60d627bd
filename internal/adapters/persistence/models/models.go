package models

import (
	"time"

	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Users (lecturer profiles and reviewer accounts)
// ============================================================

// User represents users table. Credentials live with the external identity service.
type User struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Username   string           `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Role       string           `gorm:"size:20;not null;index" json:"role"`
	FullName   string           `gorm:"size:100" json:"full_name"`
	Email      string           `gorm:"size:100" json:"email"`
	Phone      string           `gorm:"size:30" json:"phone"`
	HourlyRate *decimal.Decimal `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ToLecturer converts a user row into the profile the workflow reads
func (u *User) ToLecturer() *domain.Lecturer {
	return &domain.Lecturer{
		ID:         u.ID,
		FullName:   u.FullName,
		HourlyRate: u.HourlyRate,
	}
}

// ============================================================
// Claims
// ============================================================

// Claim represents claims table
type Claim struct {
	ID                   string          `gorm:"primaryKey;size:36" json:"id"`
	LecturerID           uint            `gorm:"not null;index" json:"lecturer_id"`
	HoursWorked          int             `gorm:"not null" json:"hours_worked"`
	HourlyRate           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
	Notes                string          `gorm:"size:500" json:"notes"`
	Status               string          `gorm:"size:20;not null;index;default:'Pending'" json:"status"`
	SubmissionDate       time.Time       `gorm:"not null;index" json:"submission_date"`
	StatusUpdateDate     *time.Time      `gorm:"index" json:"status_update_date"`
	Manager1Approved     bool            `gorm:"default:false" json:"manager1_approved"`
	Manager1ApprovalDate *time.Time      `json:"manager1_approval_date"`
	Manager2Approved     bool            `gorm:"default:false" json:"manager2_approved"`
	Manager2ApprovalDate *time.Time      `json:"manager2_approval_date"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Attachments []ClaimAttachment `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Feedback    []Feedback        `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"feedback,omitempty"`
}

func (Claim) TableName() string {
	return "claims"
}

// ClaimAttachment stores one logical file name; ID order is upload order
type ClaimAttachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClaimID   string    `gorm:"size:36;not null;index" json:"claim_id"`
	FileName  string    `gorm:"size:64;not null" json:"file_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClaimAttachment) TableName() string {
	return "claim_attachments"
}

// Feedback represents feedbacks table. Rows are insert-only; ID order is ledger order.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	FeedbackID string    `gorm:"size:36;uniqueIndex;not null" json:"feedback_id"`
	ClaimID    string    `gorm:"size:36;not null;index" json:"claim_id"`
	Message    string    `gorm:"size:1000;not null" json:"message"`
	ReviewedBy string    `gorm:"size:20;not null" json:"reviewed_by"`
	ReviewDate time.Time `gorm:"not null" json:"review_date"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// NewClaimModel maps a domain claim onto its row, including child rows
func NewClaimModel(c *domain.Claim) *Claim {
	m := &Claim{
		ID:                   c.ID.String(),
		LecturerID:           c.LecturerID,
		HoursWorked:          c.HoursWorked,
		HourlyRate:           c.HourlyRate,
		Notes:                c.Notes,
		Status:               string(c.Status),
		SubmissionDate:       c.SubmissionDate,
		StatusUpdateDate:     c.StatusUpdateDate,
		Manager1Approved:     c.Manager1Approved,
		Manager1ApprovalDate: c.Manager1ApprovalDate,
		Manager2Approved:     c.Manager2Approved,
		Manager2ApprovalDate: c.Manager2ApprovalDate,
	}
	m.Attachments = NewAttachmentModels(m.ID, c.Attachments)
	m.Feedback = NewFeedbackModels(c.Feedback)
	return m
}

// NewAttachmentModels builds attachment rows in order
func NewAttachmentModels(claimID string, names []string) []ClaimAttachment {
	rows := make([]ClaimAttachment, 0, len(names))
	for _, name := range names {
		rows = append(rows, ClaimAttachment{ClaimID: claimID, FileName: name})
	}
	return rows
}

// NewFeedbackModels builds feedback rows in ledger order
func NewFeedbackModels(entries []domain.Feedback) []Feedback {
	rows := make([]Feedback, 0, len(entries))
	for _, fb := range entries {
		rows = append(rows, Feedback{
			FeedbackID: fb.ID.String(),
			ClaimID:    fb.ClaimID.String(),
			Message:    fb.Message,
			ReviewedBy: string(fb.ReviewedBy),
			ReviewDate: fb.ReviewDate,
		})
	}
	return rows
}

// ToDomain converts a loaded row (with preloaded children) into a domain claim
func (m *Claim) ToDomain() (*domain.Claim, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	c := &domain.Claim{
		ID:                   id,
		LecturerID:           m.LecturerID,
		HoursWorked:          m.HoursWorked,
		HourlyRate:           m.HourlyRate,
		Notes:                m.Notes,
		Status:               domain.ClaimStatus(m.Status),
		SubmissionDate:       m.SubmissionDate,
		StatusUpdateDate:     m.StatusUpdateDate,
		Manager1Approved:     m.Manager1Approved,
		Manager1ApprovalDate: m.Manager1ApprovalDate,
		Manager2Approved:     m.Manager2Approved,
		Manager2ApprovalDate: m.Manager2ApprovalDate,
		Attachments:          make([]string, 0, len(m.Attachments)),
		Feedback:             make([]domain.Feedback, 0, len(m.Feedback)),
	}

	for _, a := range m.Attachments {
		c.Attachments = append(c.Attachments, a.FileName)
	}
	for _, f := range m.Feedback {
		fid, err := uuid.Parse(f.FeedbackID)
		if err != nil {
			return nil, err
		}
		c.Feedback = append(c.Feedback, domain.Feedback{
			ID:         fid,
			ClaimID:    id,
			Message:    f.Message,
			ReviewedBy: domain.Role(f.ReviewedBy),
			ReviewDate: f.ReviewDate,
		})
	}

	return c, nil
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Claim{},
		&ClaimAttachment{},
		&Feedback{},
	)
}
