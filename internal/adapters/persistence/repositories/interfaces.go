package repositories

import (
	"context"
	"time"

	"cmcs-claims/internal/adapters/persistence/models"
	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
)

// ClaimMutation changes a loaded claim. Returning an error aborts the write.
type ClaimMutation func(claim *domain.Claim) error

// ClaimRepository defines claim persistence. Update and Delete are atomic
// read-modify-write operations per claim.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error)
	Update(ctx context.Context, id uuid.UUID, mutate ClaimMutation) (*domain.Claim, error)
	Delete(ctx context.Context, id uuid.UUID, guard ClaimMutation) (*domain.Claim, error)
	List(ctx context.Context, filter ClaimFilter, offset, limit int) ([]*domain.Claim, int64, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByRole(ctx context.Context, role domain.Role) ([]models.User, error)
}

// ClaimFilter narrows claim listings. Zero values match everything.
type ClaimFilter struct {
	LecturerID  *uint
	Statuses    []domain.ClaimStatus
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
}

// Matches applies the filter to a single claim
func (f ClaimFilter) Matches(c *domain.Claim) bool {
	if f.LecturerID != nil && c.LecturerID != *f.LecturerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if c.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.UpdatedFrom != nil || f.UpdatedTo != nil {
		if c.StatusUpdateDate == nil {
			return false
		}
		if f.UpdatedFrom != nil && c.StatusUpdateDate.Before(*f.UpdatedFrom) {
			return false
		}
		if f.UpdatedTo != nil && c.StatusUpdateDate.After(*f.UpdatedTo) {
			return false
		}
	}
	return true
}
