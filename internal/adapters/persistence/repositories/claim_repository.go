package repositories

import (
	"context"
	"errors"
	"fmt"

	"cmcs-claims/internal/adapters/persistence/models"
	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errLedgerShrunk guards the append-only child collections
var errLedgerShrunk = errors.New("feedback and attachments are append-only")

// claimRepository implements ClaimRepository on gorm
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// Create inserts a claim with its attachments and feedback
func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	row := models.NewClaimModel(claim)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
}

// GetByID gets a claim with its attachments and feedback in insertion order
func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	row, err := r.load(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

// Update locks the claim row, applies mutate and writes the result in one transaction
func (r *claimRepository) Update(ctx context.Context, id uuid.UUID, mutate ClaimMutation) (*domain.Claim, error) {
	var updated *domain.Claim

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClaim(tx, id); err != nil {
			return err
		}

		row, err := r.load(tx, id)
		if err != nil {
			return err
		}
		claim, err := row.ToDomain()
		if err != nil {
			return err
		}

		attachmentCount := len(claim.Attachments)
		feedbackCount := len(claim.Feedback)

		if err := mutate(claim); err != nil {
			return err
		}
		if len(claim.Attachments) < attachmentCount || len(claim.Feedback) < feedbackCount {
			return errLedgerShrunk
		}

		next := models.NewClaimModel(claim)
		next.CreatedAt = row.CreatedAt
		if err := tx.Omit(clause.Associations).Save(next).Error; err != nil {
			return err
		}

		if added := claim.Attachments[attachmentCount:]; len(added) > 0 {
			if err := tx.Create(models.NewAttachmentModels(next.ID, added)).Error; err != nil {
				return err
			}
		}
		if added := claim.Feedback[feedbackCount:]; len(added) > 0 {
			if err := tx.Create(models.NewFeedbackModels(added)).Error; err != nil {
				return err
			}
		}

		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a claim and its child rows when guard allows it
func (r *claimRepository) Delete(ctx context.Context, id uuid.UUID, guard ClaimMutation) (*domain.Claim, error) {
	var deleted *domain.Claim

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClaim(tx, id); err != nil {
			return err
		}

		row, err := r.load(tx, id)
		if err != nil {
			return err
		}
		claim, err := row.ToDomain()
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(claim); err != nil {
				return err
			}
		}

		if err := tx.Where("claim_id = ?", row.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", row.ID).Delete(&models.ClaimAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Claim{}, "id = ?", row.ID).Error; err != nil {
			return err
		}

		deleted = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// List lists claims matching filter, newest submission first
func (r *claimRepository) List(ctx context.Context, filter ClaimFilter, offset, limit int) ([]*domain.Claim, int64, error) {
	var rows []*models.Claim
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Claim{}).Scopes(filterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Preload("Attachments", orderByID).
		Preload("Feedback", orderByID).
		Order("submission_date DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	claims := make([]*domain.Claim, 0, len(rows))
	for _, row := range rows {
		c, err := row.ToDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("claim %s: %w", row.ID, err)
		}
		claims = append(claims, c)
	}
	return claims, total, nil
}

func (r *claimRepository) load(db *gorm.DB, id uuid.UUID) (*models.Claim, error) {
	var row models.Claim
	err := db.
		Preload("Attachments", orderByID).
		Preload("Feedback", orderByID).
		First(&row, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, err
	}
	return &row, nil
}

// lockClaim takes a row lock so concurrent reviews serialise per claim
func lockClaim(tx *gorm.DB, id uuid.UUID) error {
	var row models.Claim
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&row, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrClaimNotFound
	}
	return err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func filterScope(filter ClaimFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.LecturerID != nil {
			db = db.Where("lecturer_id = ?", *filter.LecturerID)
		}
		if len(filter.Statuses) > 0 {
			statuses := make([]string, 0, len(filter.Statuses))
			for _, s := range filter.Statuses {
				statuses = append(statuses, string(s))
			}
			db = db.Where("status IN ?", statuses)
		}
		if filter.UpdatedFrom != nil {
			db = db.Where("status_update_date >= ?", *filter.UpdatedFrom)
		}
		if filter.UpdatedTo != nil {
			db = db.Where("status_update_date <= ?", *filter.UpdatedTo)
		}
		return db
	}
}
