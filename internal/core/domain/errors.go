package domain

import "errors"

// Workflow errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidState        = errors.New("operation not allowed in current claim status")
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("role is not permitted to perform this action")
	ErrNoRoleSelected      = errors.New("no role selected")
	ErrFileTooLarge        = errors.New("file exceeds the 10MB limit")
	ErrUnsupportedFileType = errors.New("unsupported file type, use PDF, DOCX or XLSX")
)

// ErrClaimNotFound is returned by repositories when a claim id does not resolve
var ErrClaimNotFound = &notFoundError{resource: "claim"}

// ErrUserNotFound is returned by repositories when a user id does not resolve
var ErrUserNotFound = &notFoundError{resource: "user"}

type notFoundError struct {
	resource string
}

func (e *notFoundError) Error() string {
	return e.resource + " not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError describes a single field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is lets callers match any field failure with errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
