package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"cmcs-claims/internal/adapters/http/middleware"
	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/core/domain"
	"cmcs-claims/internal/core/services"
	"cmcs-claims/internal/pkg/pagination"
	"cmcs-claims/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimHandler handles claim endpoints
type ClaimHandler struct {
	claimService *services.ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
	}
}

// FeedbackResponse represents one feedback ledger entry
type FeedbackResponse struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	ReviewedBy string    `json:"reviewed_by"`
	ReviewDate time.Time `json:"review_date"`
}

// ClaimResponse represents a claim in API responses
type ClaimResponse struct {
	ID                   string             `json:"id"`
	LecturerID           uint               `json:"lecturer_id"`
	HoursWorked          int                `json:"hours_worked"`
	HourlyRate           string             `json:"hourly_rate"`
	TotalAmount          string             `json:"total_amount"`
	Notes                string             `json:"notes"`
	Status               string             `json:"status"`
	SubmissionDate       time.Time          `json:"submission_date"`
	StatusUpdateDate     *time.Time         `json:"status_update_date"`
	Manager1Approved     bool               `json:"manager1_approved"`
	Manager1ApprovalDate *time.Time         `json:"manager1_approval_date"`
	Manager2Approved     bool               `json:"manager2_approved"`
	Manager2ApprovalDate *time.Time         `json:"manager2_approval_date"`
	IsFinallyApproved    bool               `json:"is_finally_approved"`
	Attachments          []string           `json:"attachments"`
	Feedback             []FeedbackResponse `json:"feedback"`
}

// ReviewRequest represents a manager decision
type ReviewRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback"`
}

func toClaimResponse(c *domain.Claim) ClaimResponse {
	feedback := make([]FeedbackResponse, 0, len(c.Feedback))
	for _, f := range c.Feedback {
		feedback = append(feedback, FeedbackResponse{
			ID:         f.ID.String(),
			Message:    f.Message,
			ReviewedBy: string(f.ReviewedBy),
			ReviewDate: f.ReviewDate,
		})
	}

	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return ClaimResponse{
		ID:                   c.ID.String(),
		LecturerID:           c.LecturerID,
		HoursWorked:          c.HoursWorked,
		HourlyRate:           c.HourlyRate.StringFixed(2),
		TotalAmount:          c.TotalAmount().StringFixed(2),
		Notes:                c.Notes,
		Status:               string(c.Status),
		SubmissionDate:       c.SubmissionDate,
		StatusUpdateDate:     c.StatusUpdateDate,
		Manager1Approved:     c.Manager1Approved,
		Manager1ApprovalDate: c.Manager1ApprovalDate,
		Manager2Approved:     c.Manager2Approved,
		Manager2ApprovalDate: c.Manager2ApprovalDate,
		IsFinallyApproved:    c.IsFinallyApproved(),
		Attachments:          attachments,
		Feedback:             feedback,
	}
}

func toClaimResponses(claims []*domain.Claim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		out = append(out, toClaimResponse(c))
	}
	return out
}

// Submit creates a new claim
// @Summary Submit claim
// @Description Submit hours worked with supporting documents (Lecturer only)
// @Tags Claims
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /claims [post]
func (h *ClaimHandler) Submit(c *fiber.Ctx) error {
	hours, rate, err := parseClaimFields(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	uploads, closeAll, err := openUploads(c)
	if err != nil {
		return response.BadRequest(c, "Invalid documents")
	}
	defer closeAll()

	claim, err := h.claimService.Submit(c.UserContext(), middleware.GetRole(c), middleware.GetUserID(c), &services.SubmitClaimInput{
		HoursWorked: hours,
		HourlyRate:  rate,
		Notes:       c.FormValue("notes"),
		Documents:   uploads,
	})
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Created(c, "Claim submitted successfully", toClaimResponse(claim))
}

// Update edits a pending claim
// @Summary Update claim
// @Description Edit a Pending claim; new documents are appended (Lecturer only)
// @Tags Claims
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims/{id} [put]
func (h *ClaimHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid claim ID")
	}

	hours, rate, err := parseClaimFields(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	uploads, closeAll, err := openUploads(c)
	if err != nil {
		return response.BadRequest(c, "Invalid documents")
	}
	defer closeAll()

	claim, err := h.claimService.Update(c.UserContext(), middleware.GetRole(c), middleware.GetUserID(c), id, &services.UpdateClaimInput{
		HoursWorked: hours,
		HourlyRate:  rate,
		Notes:       c.FormValue("notes"),
		Documents:   uploads,
	})
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claim updated successfully", toClaimResponse(claim))
}

// Delete removes a pending claim
// @Summary Delete claim
// @Tags Claims
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Response
// @Router /claims/{id} [delete]
func (h *ClaimHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid claim ID")
	}

	if err := h.claimService.Delete(c.UserContext(), middleware.GetRole(c), middleware.GetUserID(c), id); err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claim deleted successfully", nil)
}

// GetByID returns a single claim
// @Summary Get claim
// @Tags Claims
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /claims/{id} [get]
func (h *ClaimHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid claim ID")
	}

	claim, err := h.claimService.Get(c.UserContext(), middleware.GetRole(c), middleware.GetUserID(c), id)
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claim retrieved successfully", toClaimResponse(claim))
}

// ListMine returns the caller's claims
// @Summary My claims
// @Tags Claims
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /claims/my [get]
func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	params := pagination.FromQuery(c)

	claims, total, err := h.claimService.ListMine(c.UserContext(), middleware.GetRole(c), middleware.GetUserID(c), params.Offset(), params.Limit)
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claims retrieved successfully", pagination.NewPage(toClaimResponses(claims), params, total))
}

// ListForReview returns claims for managers
// @Summary Claims for review
// @Description Filter by status (comma separated), lecturer_id and status update range from/to (YYYY-MM-DD)
// @Tags Claims
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param lecturer_id query int false "Lecturer ID"
// @Param from query string false "Updated from"
// @Param to query string false "Updated to"
// @Success 200 {object} response.Response
// @Router /claims [get]
func (h *ClaimHandler) ListForReview(c *fiber.Ctx) error {
	filter, err := parseClaimFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	params := pagination.FromQuery(c)

	claims, total, err := h.claimService.ListForReview(c.UserContext(), middleware.GetRole(c), filter, params.Offset(), params.Limit)
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claims retrieved successfully", pagination.NewPage(toClaimResponses(claims), params, total))
}

// ListApproved returns fully approved claims for HR
// @Summary Approved claims
// @Description Filter by lecturer_id and status update range from/to (YYYY-MM-DD). Any status filter is ignored.
// @Tags Claims
// @Security BearerAuth
// @Param lecturer_id query int false "Lecturer ID"
// @Param from query string false "Updated from"
// @Param to query string false "Updated to"
// @Success 200 {object} response.Response
// @Router /claims/approved [get]
func (h *ClaimHandler) ListApproved(c *fiber.Ctx) error {
	filter, err := parseClaimFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	params := pagination.FromQuery(c)

	claims, total, err := h.claimService.ListApproved(c.UserContext(), middleware.GetRole(c), filter, params.Offset(), params.Limit)
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Approved claims retrieved successfully", pagination.NewPage(toClaimResponses(claims), params, total))
}

// Review approves or rejects a claim
// @Summary Review claim
// @Description Approve or Reject with optional feedback (Manager1/Manager2)
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param body body ReviewRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims/{id}/review [post]
func (h *ClaimHandler) Review(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid claim ID")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claim, outcome, err := h.claimService.Review(c.UserContext(), middleware.GetRole(c), id, &services.ReviewInput{
		Action:   parseAction(req.Action),
		Feedback: req.Feedback,
	})
	if err != nil {
		return handleClaimError(c, err)
	}

	return response.Success(c, "Claim "+outcome, toClaimResponse(claim))
}

func parseAction(raw string) domain.ReviewAction {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(raw, string(domain.ActionApprove)):
		return domain.ActionApprove
	case strings.EqualFold(raw, string(domain.ActionReject)):
		return domain.ActionReject
	}
	return domain.ReviewAction(raw)
}

func parseClaimFields(c *fiber.Ctx) (int, decimal.Decimal, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(c.FormValue("hours_worked")))
	if err != nil {
		return 0, decimal.Zero, errors.New("hours_worked must be a whole number")
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("hourly_rate")))
	if err != nil {
		return 0, decimal.Zero, errors.New("hourly_rate must be a number")
	}
	return hours, rate, nil
}

// openUploads opens the "documents" parts of a multipart request.
// Requests without a multipart body carry no documents.
func openUploads(c *fiber.Ctx) ([]domain.Upload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, closeAll, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, closeAll, err
	}

	headers := form.File["documents"]
	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, domain.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		})
	}
	return uploads, closeAll, nil
}

func parseClaimFilter(c *fiber.Ctx) (repositories.ClaimFilter, error) {
	var filter repositories.ClaimFilter

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, domain.ClaimStatus(s))
			}
		}
	}

	if raw := c.Query("lecturer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, errors.New("lecturer_id must be a number")
		}
		lecturerID := uint(id)
		filter.LecturerID = &lecturerID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return filter, errors.New("from must be YYYY-MM-DD")
		}
		filter.UpdatedFrom = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return filter, errors.New("to must be YYYY-MM-DD")
		}
		// inclusive end of day
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.UpdatedTo = &to
	}

	return filter, nil
}

// handleClaimError maps workflow errors to HTTP responses
func handleClaimError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.Invalid(c, verr.Field, verr.Error())
	case errors.Is(err, domain.ErrFileTooLarge), errors.Is(err, domain.ErrUnsupportedFileType):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Claim not found")
	case errors.Is(err, domain.ErrNoRoleSelected):
		return response.Unauthorized(c, "No role selected")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, err.Error())
	default:
		log.Printf("❌ Claim request failed [%s %s]: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Internal server error")
	}
}
