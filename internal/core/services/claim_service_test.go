package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"cmcs-claims/internal/adapters/persistence/models"
	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lecturerA uint = 7
	lecturerB uint = 8
)

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == string(role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	submitted []uuid.UUID
	outcomes  []string
	summaries []PendingReviewSummary
}

func (n *recordingNotifier) NotifySubmitted(claim *domain.Claim) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, claim.ID)
}

func (n *recordingNotifier) NotifyReviewed(claim *domain.Claim, reviewer domain.Role, outcome string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outcomes = append(n.outcomes, outcome)
}

func (n *recordingNotifier) NotifyPendingReviews(summary *PendingReviewSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, *summary)
}

type fixture struct {
	svc      *ClaimService
	repo     repositories.ClaimRepository
	users    *fakeUserRepo
	notifier *recordingNotifier
	dir      string

	mu    sync.Mutex
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	attachments, dir := newLocalAttachments(t)

	f := &fixture{
		repo:     repositories.NewMemoryClaimRepository(),
		users:    &fakeUserRepo{users: map[uint]*models.User{}},
		notifier: &recordingNotifier{},
		dir:      dir,
		clock:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewClaimService(f.repo, f.users, attachments, f.notifier)
	f.svc.now = f.tick
	return f
}

// tick advances the clock by a minute per call so timestamps are distinct
func (f *fixture) tick() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) submit(t *testing.T, lecturerID uint) *domain.Claim {
	t.Helper()
	claim, err := f.svc.Submit(context.Background(), domain.RoleLecturer, lecturerID, &SubmitClaimInput{
		HoursWorked: 40,
		HourlyRate:  decimal.RequireFromString("25.50"),
		Notes:       "March tutorials",
		Documents:   []domain.Upload{upload("timesheet.pdf", []byte("%PDF"))},
	})
	require.NoError(t, err)
	return claim
}

func (f *fixture) review(t *testing.T, role domain.Role, id uuid.UUID, action domain.ReviewAction) (*domain.Claim, string) {
	t.Helper()
	claim, msg, err := f.svc.Review(context.Background(), role, id, &ReviewInput{Action: action})
	require.NoError(t, err)
	assertFinalFlag(t, claim)
	return claim, msg
}

func assertFinalFlag(t *testing.T, c *domain.Claim) {
	t.Helper()
	assert.Equal(t, c.Manager1Approved && c.Manager2Approved, c.IsFinallyApproved())
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	assert.Equal(t, domain.StatusPending, claim.Status)
	assert.False(t, claim.Manager1Approved)
	assert.False(t, claim.Manager2Approved)
	assert.Nil(t, claim.StatusUpdateDate)
	assert.Equal(t, "1020.00", claim.TotalAmount().StringFixed(2))
	require.Len(t, claim.Attachments, 1)
	assert.ElementsMatch(t, claim.Attachments, storedFiles(t, f.dir))
	assert.Equal(t, []uuid.UUID{claim.ID}, f.notifier.submitted)

	stored, err := f.repo.GetByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.Attachments, stored.Attachments)
}

func TestSubmit_HoursBoundaries(t *testing.T) {
	tests := []struct {
		hours   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{1000, false},
		{1001, true},
	}

	for _, tt := range tests {
		f := newFixture(t)
		_, err := f.svc.Submit(context.Background(), domain.RoleLecturer, lecturerA, &SubmitClaimInput{
			HoursWorked: tt.hours,
			HourlyRate:  decimal.NewFromInt(100),
			Documents:   []domain.Upload{upload("a.pdf", []byte("x"))},
		})
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrValidation, "hours=%d", tt.hours)
			assert.Empty(t, storedFiles(t, f.dir), "no file written for invalid claim")
		} else {
			assert.NoError(t, err, "hours=%d", tt.hours)
		}
	}
}

func TestSubmit_RejectsBadFiles(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), domain.RoleLecturer, lecturerA, &SubmitClaimInput{
		HoursWorked: 10,
		HourlyRate:  decimal.NewFromInt(100),
		Documents:   []domain.Upload{upload("a.pdf", []byte("x")), upload("b.txt", []byte("x"))},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Empty(t, storedFiles(t, f.dir))

	_, total, err := f.repo.List(context.Background(), repositories.ClaimFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmit_UsesProfileRate(t *testing.T) {
	f := newFixture(t)
	rate := decimal.RequireFromString("42.00")
	f.users.users[lecturerA] = &models.User{ID: lecturerA, Role: string(domain.RoleLecturer), HourlyRate: &rate}

	claim, err := f.svc.Submit(context.Background(), domain.RoleLecturer, lecturerA, &SubmitClaimInput{
		HoursWorked: 2,
		HourlyRate:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, rate.Equal(claim.HourlyRate))
	assert.Equal(t, "84.00", claim.TotalAmount().StringFixed(2))
}

func TestSubmit_RoleChecks(t *testing.T) {
	f := newFixture(t)
	input := &SubmitClaimInput{HoursWorked: 1, HourlyRate: decimal.NewFromInt(1)}

	_, err := f.svc.Submit(context.Background(), "", lecturerA, input)
	assert.ErrorIs(t, err, domain.ErrNoRoleSelected)

	_, err = f.svc.Submit(context.Background(), "  ", lecturerA, input)
	assert.ErrorIs(t, err, domain.ErrNoRoleSelected)

	for _, role := range []domain.Role{domain.RoleManager1, domain.RoleManager2, domain.RoleHR} {
		_, err = f.svc.Submit(context.Background(), role, lecturerA, input)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
	}
}

func TestReview_SingleApproval(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	got, msg := f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)

	assert.Equal(t, domain.StatusPendingApproval, got.Status)
	assert.True(t, got.Manager1Approved)
	assert.False(t, got.Manager2Approved)
	assert.NotNil(t, got.Manager1ApprovalDate)
	assert.Nil(t, got.Manager2ApprovalDate)
	assert.Equal(t, "approved by Manager1, awaiting the other manager", msg)
}

func TestReview_BothApprovals(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)
	got, msg := f.review(t, domain.RoleManager2, claim.ID, domain.ActionApprove)

	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.True(t, got.IsFinallyApproved())
	require.NotNil(t, got.Manager1ApprovalDate)
	require.NotNil(t, got.Manager2ApprovalDate)
	assert.NotEqual(t, *got.Manager1ApprovalDate, *got.Manager2ApprovalDate)
	assert.Equal(t, OutcomeFullyApproved, msg)
	assert.Len(t, f.notifier.outcomes, 2)
}

func TestReview_ReapprovalRefreshesTimestamp(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)
	f.review(t, domain.RoleManager2, claim.ID, domain.ActionApprove)
	first, _ := f.svc.Get(context.Background(), domain.RoleManager1, 0, claim.ID)

	again, msg := f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)
	assert.Equal(t, domain.StatusApproved, again.Status)
	assert.True(t, again.Manager1ApprovalDate.After(*first.Manager1ApprovalDate))
	assert.Equal(t, *first.Manager2ApprovalDate, *again.Manager2ApprovalDate)
	assert.Equal(t, OutcomeFullyApproved, msg)
}

func TestReview_RejectIsTerminal(t *testing.T) {
	for _, approveFirst := range []bool{false, true} {
		f := newFixture(t)
		claim := f.submit(t, lecturerA)
		if approveFirst {
			f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)
		}

		got, msg := f.review(t, domain.RoleManager2, claim.ID, domain.ActionReject)
		assert.Equal(t, domain.StatusRejected, got.Status)
		assert.Equal(t, OutcomeRejected, msg)

		for _, role := range []domain.Role{domain.RoleManager1, domain.RoleManager2} {
			_, _, err := f.svc.Review(context.Background(), role, claim.ID, &ReviewInput{Action: domain.ActionApprove})
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		}

		_, _, err := f.svc.Review(context.Background(), domain.RoleManager1, claim.ID, &ReviewInput{Action: domain.ActionReject})
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		stored, err := f.repo.GetByID(context.Background(), claim.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, stored.Status)
		assertFinalFlag(t, stored)
	}
}

func TestReview_RejectApprovedClaim(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	f.review(t, domain.RoleManager1, claim.ID, domain.ActionApprove)
	f.review(t, domain.RoleManager2, claim.ID, domain.ActionApprove)

	_, _, err := f.svc.Review(context.Background(), domain.RoleManager1, claim.ID, &ReviewInput{Action: domain.ActionReject})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReview_Feedback(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	ctx := context.Background()

	_, _, err := f.svc.Review(ctx, domain.RoleManager1, claim.ID, &ReviewInput{Action: domain.ActionApprove, Feedback: "  hours look right  "})
	require.NoError(t, err)
	_, _, err = f.svc.Review(ctx, domain.RoleManager1, claim.ID, &ReviewInput{Action: domain.ActionApprove, Feedback: "hours look right"})
	require.NoError(t, err)
	got, _, err := f.svc.Review(ctx, domain.RoleManager2, claim.ID, &ReviewInput{Action: domain.ActionReject, Feedback: "missing timesheet page 2"})
	require.NoError(t, err)

	require.Len(t, got.Feedback, 3)
	assert.Equal(t, "hours look right", got.Feedback[0].Message)
	assert.Equal(t, "hours look right", got.Feedback[1].Message, "duplicates are kept")
	assert.Equal(t, "missing timesheet page 2", got.Feedback[2].Message)
	assert.Equal(t, domain.RoleManager2, got.Feedback[2].ReviewedBy)
	assert.True(t, got.Feedback[1].ReviewDate.Before(got.Feedback[2].ReviewDate))
}

func TestReview_BlankFeedbackAddsNoEntry(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	got, _, err := f.svc.Review(context.Background(), domain.RoleManager1, claim.ID, &ReviewInput{Action: domain.ActionApprove, Feedback: "   "})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, got.Status)
	assert.Empty(t, got.Feedback)
}

func TestReview_Validation(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	ctx := context.Background()

	_, _, err := f.svc.Review(ctx, domain.RoleManager1, claim.ID, &ReviewInput{Action: "Escalate"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.svc.Review(ctx, domain.RoleManager1, claim.ID, &ReviewInput{
		Action:   domain.ActionApprove,
		Feedback: strings.Repeat("a", domain.MaxFeedbackLength+1),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.repo.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status, "invalid review leaves the claim untouched")
	assert.Empty(t, stored.Feedback)

	_, _, err = f.svc.Review(ctx, domain.RoleManager1, uuid.New(), &ReviewInput{Action: domain.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReview_RoleChecks(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	input := &ReviewInput{Action: domain.ActionApprove}

	_, _, err := f.svc.Review(context.Background(), "", claim.ID, input)
	assert.ErrorIs(t, err, domain.ErrNoRoleSelected)

	for _, role := range []domain.Role{domain.RoleLecturer, domain.RoleHR} {
		_, _, err = f.svc.Review(context.Background(), role, claim.ID, input)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
	}
}

func TestReview_ConcurrentApprovals(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	var wg sync.WaitGroup
	for _, role := range []domain.Role{domain.RoleManager1, domain.RoleManager2} {
		wg.Add(1)
		go func(role domain.Role) {
			defer wg.Done()
			_, _, err := f.svc.Review(context.Background(), role, claim.ID, &ReviewInput{Action: domain.ActionApprove})
			assert.NoError(t, err)
		}(role)
	}
	wg.Wait()

	stored, err := f.repo.GetByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.True(t, stored.Manager1Approved)
	assert.True(t, stored.Manager2Approved)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)

	got, err := f.svc.Update(context.Background(), domain.RoleLecturer, lecturerA, claim.ID, &UpdateClaimInput{
		HoursWorked: 30,
		HourlyRate:  decimal.RequireFromString("25.50"),
		Notes:       "corrected",
		Documents:   []domain.Upload{upload("extra.docx", []byte("doc"))},
	})
	require.NoError(t, err)

	assert.Equal(t, 30, got.HoursWorked)
	assert.Equal(t, "corrected", got.Notes)
	assert.Equal(t, "765.00", got.TotalAmount().StringFixed(2))
	assert.NotNil(t, got.StatusUpdateDate)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, claim.Attachments[0], got.Attachments[0], "existing attachments are kept")
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestUpdate_KeepsProfileRate(t *testing.T) {
	f := newFixture(t)
	rate := decimal.RequireFromString("30.00")
	f.users.users[lecturerA] = &models.User{ID: lecturerA, Role: string(domain.RoleLecturer), HourlyRate: &rate}
	claim := f.submit(t, lecturerA)
	require.True(t, rate.Equal(claim.HourlyRate))

	got, err := f.svc.Update(context.Background(), domain.RoleLecturer, lecturerA, claim.ID, &UpdateClaimInput{
		HoursWorked: 40,
		HourlyRate:  decimal.RequireFromString("999.00"),
	})
	require.NoError(t, err)
	assert.True(t, rate.Equal(got.HourlyRate), "submitted rate %s", got.HourlyRate)
	assert.Equal(t, "1200.00", got.TotalAmount().StringFixed(2))

	stored, err := f.repo.GetByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.True(t, rate.Equal(stored.HourlyRate))
}

func TestUpdate_LockedAfterReview(t *testing.T) {
	statuses := map[domain.ClaimStatus][]struct {
		role   domain.Role
		action domain.ReviewAction
	}{
		domain.StatusPendingApproval: {{domain.RoleManager1, domain.ActionApprove}},
		domain.StatusApproved:        {{domain.RoleManager1, domain.ActionApprove}, {domain.RoleManager2, domain.ActionApprove}},
		domain.StatusRejected:        {{domain.RoleManager2, domain.ActionReject}},
	}

	for status, steps := range statuses {
		f := newFixture(t)
		claim := f.submit(t, lecturerA)
		for _, step := range steps {
			f.review(t, step.role, claim.ID, step.action)
		}

		_, err := f.svc.Update(context.Background(), domain.RoleLecturer, lecturerA, claim.ID, &UpdateClaimInput{
			HoursWorked: 1,
			HourlyRate:  decimal.NewFromInt(1),
			Documents:   []domain.Upload{upload("late.pdf", []byte("x"))},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidState, status)
		assert.Len(t, storedFiles(t, f.dir), 1, "no new file for a locked claim")
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	input := &UpdateClaimInput{HoursWorked: 1, HourlyRate: decimal.NewFromInt(1)}

	_, err := f.svc.Update(context.Background(), domain.RoleLecturer, lecturerB, claim.ID, input)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Update(context.Background(), domain.RoleManager1, lecturerA, claim.ID, input)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Update(context.Background(), domain.RoleLecturer, lecturerA, uuid.New(), input)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Update(context.Background(), domain.RoleLecturer, lecturerA, claim.ID, &UpdateClaimInput{HoursWorked: 0, HourlyRate: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, domain.RoleLecturer, lecturerB, claim.ID), domain.ErrUnauthorized)
	require.NoError(t, f.svc.Delete(ctx, domain.RoleLecturer, lecturerA, claim.ID))

	_, err := f.repo.GetByID(ctx, claim.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, storedFiles(t, f.dir))

	reviewed := f.submit(t, lecturerA)
	f.review(t, domain.RoleManager1, reviewed.ID, domain.ActionApprove)
	assert.ErrorIs(t, f.svc.Delete(ctx, domain.RoleLecturer, lecturerA, reviewed.ID), domain.ErrInvalidState)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	claim := f.submit(t, lecturerA)
	ctx := context.Background()

	got, err := f.svc.Get(ctx, domain.RoleLecturer, lecturerA, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, got.ID)

	_, err = f.svc.Get(ctx, domain.RoleLecturer, lecturerB, claim.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, role := range []domain.Role{domain.RoleManager1, domain.RoleManager2, domain.RoleHR} {
		_, err = f.svc.Get(ctx, role, 0, claim.ID)
		assert.NoError(t, err, role)
	}

	_, err = f.svc.Get(ctx, "", lecturerA, claim.ID)
	assert.ErrorIs(t, err, domain.ErrNoRoleSelected)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, lecturerA)
	b1 := f.submit(t, lecturerB)
	a2 := f.submit(t, lecturerA)
	f.review(t, domain.RoleManager1, a1.ID, domain.ActionApprove)

	mine, total, err := f.svc.ListMine(ctx, domain.RoleLecturer, lecturerA, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID, "newest first")
	assert.Equal(t, a1.ID, mine[1].ID)

	_, _, err = f.svc.ListMine(ctx, domain.RoleManager1, lecturerA, 0, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	pending, total, err := f.svc.ListForReview(ctx, domain.RoleManager2, repositories.ClaimFilter{
		Statuses: []domain.ClaimStatus{domain.StatusPending},
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uuid.UUID{a2.ID, b1.ID}, []uuid.UUID{pending[0].ID, pending[1].ID})

	page, total, err := f.svc.ListForReview(ctx, domain.RoleManager1, repositories.ClaimFilter{}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, b1.ID, page[0].ID)

	_, _, err = f.svc.ListForReview(ctx, domain.RoleLecturer, repositories.ClaimFilter{}, 0, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = f.svc.ListForReview(ctx, domain.RoleManager1, repositories.ClaimFilter{Statuses: []domain.ClaimStatus{"Archived"}}, 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.svc.ListForReview(ctx, domain.RoleHR, repositories.ClaimFilter{}, 0, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.submit(t, lecturerA)
	b := f.submit(t, lecturerB)
	partial := f.submit(t, lecturerA)
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		f.review(t, domain.RoleManager1, id, domain.ActionApprove)
		f.review(t, domain.RoleManager2, id, domain.ActionApprove)
	}
	f.review(t, domain.RoleManager1, partial.ID, domain.ActionApprove)

	all, total, err := f.svc.ListApproved(ctx, domain.RoleHR, repositories.ClaimFilter{
		Statuses: []domain.ClaimStatus{domain.StatusPendingApproval},
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, c := range all {
		assert.Equal(t, domain.StatusApproved, c.Status)
	}

	lecturer := lecturerA
	mine, _, err := f.svc.ListApproved(ctx, domain.RoleHR, repositories.ClaimFilter{LecturerID: &lecturer}, 0, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	for _, role := range []domain.Role{domain.RoleLecturer, domain.RoleManager1, domain.RoleManager2} {
		_, _, err = f.svc.ListApproved(ctx, role, repositories.ClaimFilter{}, 0, 10)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
	}
	_, _, err = f.svc.ListApproved(ctx, "", repositories.ClaimFilter{}, 0, 10)
	assert.ErrorIs(t, err, domain.ErrNoRoleSelected)
}

func TestReminder_RunOnce(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, lecturerA)
	b := f.submit(t, lecturerA)
	c := f.submit(t, lecturerB)
	d := f.submit(t, lecturerB)

	f.review(t, domain.RoleManager1, a.ID, domain.ActionApprove)
	f.review(t, domain.RoleManager2, b.ID, domain.ActionApprove)
	f.review(t, domain.RoleManager1, c.ID, domain.ActionReject)
	_ = d

	reminder := NewReminderService(f.repo, f.notifier, "")
	summary, err := reminder.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.AwaitingManager1)
	assert.Equal(t, 2, summary.AwaitingManager2)
	require.Len(t, f.notifier.summaries, 1)
	assert.Equal(t, *summary, f.notifier.summaries[0])
}

func TestReminder_InvalidSchedule(t *testing.T) {
	reminder := NewReminderService(repositories.NewMemoryClaimRepository(), nil, "not a cron spec")
	assert.Error(t, reminder.Start())
}
